package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5/util"

	"github.com/go-git/go-delta/plumbing"
	"github.com/go-git/go-delta/plumbing/format/delta"
)

// CmdInspect prints the header and commands of a delta.
type CmdInspect struct {
	cmd
}

// Usage returns the positional arguments of the command.
func (CmdInspect) Usage() string {
	return "<source> <delta>"
}

// Execute runs the command.
func (c *CmdInspect) Execute(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s inspect %s", bin, c.Usage())
	}

	paths, err := absPaths(args...)
	if err != nil {
		return err
	}

	src, err := util.ReadFile(c.fs, paths[0])
	if err != nil {
		return err
	}

	d, err := util.ReadFile(c.fs, paths[1])
	if err != nil {
		return err
	}

	return inspect(os.Stdout, src, d)
}

// inspect writes a description of d to w. Commands are listed up to the
// first error, which is then returned.
func inspect(w io.Writer, src, d []byte) error {
	p, err := delta.NewPatcher(src, d)
	if err != nil {
		return err
	}

	h := p.Header()
	fmt.Fprintf(w, "source: %s (%d)\n", humanize.IBytes(uint64(h.SourceSize)), h.SourceSize)
	fmt.Fprintf(w, "target: %s (%d)\n", humanize.IBytes(uint64(h.TargetSize)), h.TargetSize)
	fmt.Fprintf(w, "header: %d bytes\n", h.Len)

	var copied, inserted uint
	var count int
	for {
		op, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		count++
		fmt.Fprintf(w, "%6d %s\n", count, op)
		switch op.Type {
		case delta.OpCopy:
			copied += op.Size
		case delta.OpInsert:
			inserted += op.Size
		}
	}

	fmt.Fprintf(w, "commands: %d, copied: %s, inserted: %s\n",
		count, humanize.IBytes(uint64(copied)), humanize.IBytes(uint64(inserted)))

	target, err := delta.Patch(src, d)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "blob: %s\n", plumbing.ComputeHash(plumbing.BlobObject, target))
	return nil
}
