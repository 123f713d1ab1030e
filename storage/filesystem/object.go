// Package filesystem is a storage backend base on filesystems. Objects are
// kept as zlib compressed loose object files, the way git lays them out
// under .git/objects.
package filesystem

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/go-git/go-billy/v5"

	"github.com/go-git/go-delta/plumbing"
	"github.com/go-git/go-delta/plumbing/storer"
	"github.com/go-git/go-delta/utils/ioutil"
	"github.com/go-git/go-delta/utils/sync"
)

const objectsPath = "objects"

var (
	_ storer.ObjectStorer = (*ObjectStorage)(nil)

	// ErrInvalidObjectFile is returned when a stored object file cannot be
	// parsed.
	ErrInvalidObjectFile = errors.New("invalid object file")
)

// ObjectStorage stores objects in a billy.Filesystem.
type ObjectStorage struct {
	fs billy.Filesystem
}

// NewObjectStorage returns an ObjectStorage rooted at fs.
func NewObjectStorage(fs billy.Filesystem) *ObjectStorage {
	return &ObjectStorage{fs: fs}
}

// Filesystem returns the underlying filesystem.
func (s *ObjectStorage) Filesystem() billy.Filesystem {
	return s.fs
}

func objectPath(h plumbing.Hash) string {
	hex := h.String()
	return path.Join(objectsPath, hex[0:2], hex[2:])
}

// SetObject writes the object to a temporary file and renames it into
// place, so readers never see a partially written object. Objects that
// already exist are left untouched.
func (s *ObjectStorage) SetObject(t plumbing.ObjectType, h plumbing.Hash, content []byte) (err error) {
	if !t.Valid() {
		return plumbing.ErrInvalidType
	}

	if s.HasObject(h) == nil {
		return nil
	}

	p := objectPath(h)
	dir := path.Dir(p)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := s.fs.TempFile(dir, "tmp_obj_")
	if err != nil {
		return err
	}

	if err := writeObject(tmp, t, content); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return err
	}

	return s.fs.Rename(tmp.Name(), p)
}

func writeObject(w io.Writer, t plumbing.ObjectType, content []byte) error {
	zw := sync.GetZlibWriter(w)
	defer sync.PutZlibWriter(zw)

	if _, err := fmt.Fprintf(zw, "%s %d\x00", t, len(content)); err != nil {
		return err
	}

	if _, err := zw.Write(content); err != nil {
		return err
	}

	return zw.Close()
}

// Object reads the object named h.
func (s *ObjectStorage) Object(h plumbing.Hash) (t plumbing.ObjectType, content []byte, err error) {
	f, err := s.fs.Open(objectPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return plumbing.InvalidObject, nil, plumbing.ErrObjectNotFound
		}
		return plumbing.InvalidObject, nil, err
	}

	defer ioutil.CheckClose(f, &err)

	zr, err := sync.GetZlibReader(f)
	if err != nil {
		return plumbing.InvalidObject, nil, fmt.Errorf("%w: %s: %w", ErrInvalidObjectFile, h, err)
	}
	defer sync.PutZlibReader(zr)

	t, content, err = readObject(bufio.NewReader(zr))
	if err != nil {
		return plumbing.InvalidObject, nil, fmt.Errorf("%w: %s: %w", ErrInvalidObjectFile, h, err)
	}

	return t, content, nil
}

func readObject(r *bufio.Reader) (plumbing.ObjectType, []byte, error) {
	header, err := r.ReadBytes(0)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	typ, size, ok := bytes.Cut(header[:len(header)-1], []byte{' '})
	if !ok {
		return plumbing.InvalidObject, nil, errors.New("malformed header")
	}

	t, err := plumbing.ParseObjectType(string(typ))
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	n, err := strconv.ParseInt(string(size), 10, 64)
	if err != nil || n < 0 {
		return plumbing.InvalidObject, nil, fmt.Errorf("malformed size %q", size)
	}

	content, err := readContent(r, n)
	if err != nil {
		return plumbing.InvalidObject, nil, err
	}

	return t, content, nil
}

// readContent reads exactly n bytes from r. The result grows as bytes
// arrive, so a header declaring a bogus size cannot force the allocation.
func readContent(r io.Reader, n int64) ([]byte, error) {
	chunk := sync.GetByteSlice()
	defer sync.PutByteSlice(chunk)

	content := make([]byte, 0, min(n, int64(len(*chunk))))
	for remaining := n; remaining > 0; {
		b := (*chunk)[:min(remaining, int64(len(*chunk)))]
		read, err := io.ReadFull(r, b)
		content = append(content, b[:read]...)
		remaining -= int64(read)

		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
	}

	return content, nil
}

// HasObject returns nil if the object named h exists.
func (s *ObjectStorage) HasObject(h plumbing.Hash) error {
	_, err := s.fs.Stat(objectPath(h))
	if os.IsNotExist(err) {
		return plumbing.ErrObjectNotFound
	}

	return err
}
