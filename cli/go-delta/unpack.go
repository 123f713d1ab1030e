package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5"

	"github.com/go-git/go-delta/config"
	"github.com/go-git/go-delta/plumbing/storer"
	"github.com/go-git/go-delta/plumbing/unpack"
	"github.com/go-git/go-delta/storage"
	"github.com/go-git/go-delta/storage/filesystem"
	"github.com/go-git/go-delta/utils/trace"
)

// CmdUnpack applies every delta in a directory and stores the results as
// loose objects.
type CmdUnpack struct {
	cmd

	Workers int   `short:"j" long:"workers" description:"Number of deltas patched concurrently (overrides unpack.workers)."`
	Limit   int64 `long:"limit" description:"Maximum number of bytes to store (overrides unpack.limit)."`
}

// Usage returns the positional arguments of the command.
func (CmdUnpack) Usage() string {
	return "[OPTIONS] <dir>"
}

// Execute runs the command.
func (c *CmdUnpack) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s unpack %s", bin, c.Usage())
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	if c.Workers > 0 {
		c.cfg.Unpack.Workers = c.Workers
	}
	if c.Limit > 0 {
		c.cfg.Unpack.Limit = c.Limit
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return unpackDir(ctx, c.fs, dir, c.cfg, os.Stdout)
}

// unpackDir unpacks the deltas found in dir of fs into dir/objects and
// prints one line per reconstructed object.
func unpackDir(ctx context.Context, fs billy.Filesystem, dir string, cfg *config.Config, w io.Writer) error {
	iter, err := filesystem.NewFileDeltaIter(fs, dir)
	if err != nil {
		return err
	}

	objects, err := fs.Chroot(dir)
	if err != nil {
		return err
	}

	var s storer.ObjectStorer = filesystem.NewObjectStorage(objects)
	if cfg.Unpack.Limit > 0 {
		s = storage.Limit(s, cfg.Unpack.Limit)
	}

	trace.General.Printf("unpack: %d deltas in %s", iter.Len(), dir)

	results, err := unpack.NewUnpacker(s, cfg.UnpackOptions()...).Unpack(ctx, iter)
	if err != nil {
		return err
	}

	var total uint64
	for _, r := range results {
		fmt.Fprintf(w, "%s %s %s\t%s\n", r.Hash, r.Type, humanize.IBytes(uint64(r.Size)), r.Name)
		total += uint64(r.Size)
	}

	trace.General.Printf("unpack: %d objects, %s", len(results), humanize.IBytes(total))
	return nil
}
