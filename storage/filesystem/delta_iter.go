package filesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/go-git/go-delta/plumbing"
	"github.com/go-git/go-delta/plumbing/storer"
)

const (
	deltaExt = ".delta"
	baseExt  = ".base"
	refExt   = ".ref"
)

// ErrMissingBase is returned when a delta file has neither a base file nor a
// ref file next to it.
var ErrMissingBase = errors.New("delta has no base")

var _ storer.DeltaIter = (*FileDeltaIter)(nil)

// FileDeltaIter reads delta entries from a directory. Every <name>.delta
// file is an entry; its source is the content of <name>.base when present,
// otherwise <name>.ref holds the hex id of the base object. Entries are
// returned sorted by name and always describe blobs.
type FileDeltaIter struct {
	fs    billy.Filesystem
	dir   string
	names []string
}

// NewFileDeltaIter lists the deltas in dir.
func NewFileDeltaIter(fs billy.Filesystem, dir string) (*FileDeltaIter, error) {
	infos, err := fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, fi := range infos {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), deltaExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(fi.Name(), deltaExt))
	}
	sort.Strings(names)

	return &FileDeltaIter{fs: fs, dir: dir, names: names}, nil
}

// Len returns the number of entries left.
func (iter *FileDeltaIter) Len() int {
	return len(iter.names)
}

// Next reads the next entry. io.EOF is returned once all entries were read.
func (iter *FileDeltaIter) Next() (*storer.DeltaEntry, error) {
	if len(iter.names) == 0 {
		return nil, io.EOF
	}

	name := iter.names[0]
	iter.names = iter.names[1:]

	e, err := iter.read(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return e, nil
}

func (iter *FileDeltaIter) read(name string) (*storer.DeltaEntry, error) {
	p := path.Join(iter.dir, name)

	delta, err := util.ReadFile(iter.fs, p+deltaExt)
	if err != nil {
		return nil, err
	}

	e := &storer.DeltaEntry{
		Name:  name,
		Type:  plumbing.BlobObject,
		Delta: delta,
	}

	e.Source, err = util.ReadFile(iter.fs, p+baseExt)
	if err == nil {
		e.Base = plumbing.ComputeHash(e.Type, e.Source)
		return e, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	ref, err := util.ReadFile(iter.fs, p+refExt)
	if os.IsNotExist(err) {
		return nil, ErrMissingBase
	}
	if err != nil {
		return nil, err
	}

	hex := strings.TrimSpace(string(ref))
	if !plumbing.IsHash(hex) {
		return nil, fmt.Errorf("invalid base ref %q", hex)
	}
	e.Base = plumbing.NewHash(hex)

	return e, nil
}

// ForEach call the cb function for each entry contained on this iter until
// an error happens or the end of the iter is reached. If ErrStop is sent
// the iteration is stop but no error is returned. The iterator is closed.
func (iter *FileDeltaIter) ForEach(cb func(*storer.DeltaEntry) error) error {
	return storer.ForEachIterator(iter, cb)
}

// Close releases any resources used by the iterator.
func (iter *FileDeltaIter) Close() {
	iter.names = nil
}
