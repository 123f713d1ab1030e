package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/go-git/go-delta/plumbing/format/delta"
	"github.com/go-git/go-delta/utils/ioutil"
	"github.com/go-git/go-delta/utils/sync"
	"github.com/go-git/go-delta/utils/trace"
)

// CmdPatch applies a delta file to a source file.
type CmdPatch struct {
	cmd

	Output string `short:"o" long:"output" description:"Write the target to this file instead of stdout."`
}

// Usage returns the positional arguments of the command.
func (CmdPatch) Usage() string {
	return "[OPTIONS] <source> <delta>"
}

// Execute runs the command.
func (c *CmdPatch) Execute(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s patch %s", bin, c.Usage())
	}

	paths, err := absPaths(args...)
	if err != nil {
		return err
	}

	var n int64
	if c.Output == "" {
		n, err = patchFile(c.fs, paths[0], paths[1], os.Stdout)
	} else {
		var out string
		if out, err = filepath.Abs(c.Output); err != nil {
			return err
		}
		n, err = patchToFile(c.fs, paths[0], paths[1], out)
	}
	if err != nil {
		return err
	}

	trace.General.Printf("patch: wrote %d bytes", n)
	return nil
}

// patchToFile patches into memory and only creates out once the target is
// complete, so a corrupt delta leaves no file behind.
func patchToFile(fs billy.Filesystem, source, deltaPath, out string) (n int64, err error) {
	buf := sync.GetBytesBuffer()
	defer sync.PutBytesBuffer(buf)

	if n, err = patchFile(fs, source, deltaPath, buf); err != nil {
		return 0, err
	}

	f, err := fs.Create(out)
	if err != nil {
		return 0, err
	}
	defer ioutil.CheckClose(f, &err)

	if _, err = buf.WriteTo(f); err != nil {
		return 0, err
	}

	return n, nil
}

// patchFile reads source and delta from fs and writes the target to w.
func patchFile(fs billy.Filesystem, source, deltaPath string, w io.Writer) (int64, error) {
	src, err := util.ReadFile(fs, source)
	if err != nil {
		return 0, err
	}

	d, err := util.ReadFile(fs, deltaPath)
	if err != nil {
		return 0, err
	}

	n, err := delta.PatchTo(w, src, d)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", deltaPath, err)
	}

	return n, nil
}

func absPaths(paths ...string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}

	return out, nil
}
