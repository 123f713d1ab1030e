// Package storer defines the collaborators of the unpacker: where delta
// entries come from and where reconstructed objects go.
package storer

import (
	"errors"
	"io"

	"github.com/go-git/go-delta/plumbing"
)

// ErrStop is used to stop a ForEach function in an Iter
var ErrStop = errors.New("stop iter")

// ObjectSink accepts reconstructed objects.
type ObjectSink interface {
	// SetObject stores content as an object of type t named h.
	SetObject(t plumbing.ObjectType, h plumbing.Hash, content []byte) error
}

// ObjectStorer is an ObjectSink that can also hand objects back, so they
// can act as the base of later deltas.
type ObjectStorer interface {
	ObjectSink
	// Object returns the type and content of the object named h, or
	// plumbing.ErrObjectNotFound.
	Object(h plumbing.Hash) (plumbing.ObjectType, []byte, error)
	// HasObject returns nil if the object exists, without actually
	// reading it.
	HasObject(h plumbing.Hash) error
}

// DeltaEntry is a delta read from a container together with what is known
// about its base.
type DeltaEntry struct {
	// Name identifies the entry within its container, for error messages.
	Name string
	// Type is the type of the reconstructed object.
	Type plumbing.ObjectType
	// Base names the object the delta applies to. It is used to find the
	// source when Source is nil.
	Base plumbing.Hash
	// Source is the base content, when the container provides it.
	Source []byte
	// Delta is the encoded delta.
	Delta []byte
}

// DeltaIter is a generic closable interface for iterating over delta
// entries. It is what a container reader provides.
type DeltaIter interface {
	Next() (*DeltaEntry, error)
	ForEach(func(*DeltaEntry) error) error
	Close()
}

// DeltaSliceIter implements DeltaIter over a slice of entries.
type DeltaSliceIter struct {
	series []*DeltaEntry
}

// NewDeltaSliceIter returns a DeltaIter for the given entries.
func NewDeltaSliceIter(series []*DeltaEntry) *DeltaSliceIter {
	return &DeltaSliceIter{series: series}
}

// Next returns the next entry from the iterator. If the iterator has reached
// the end it will return io.EOF as an error.
func (iter *DeltaSliceIter) Next() (*DeltaEntry, error) {
	if len(iter.series) == 0 {
		return nil, io.EOF
	}

	e := iter.series[0]
	iter.series = iter.series[1:]
	return e, nil
}

// ForEach call the cb function for each entry contained on this iter until
// an error happens or the end of the iter is reached. If ErrStop is sent
// the iteration is stop but no error is returned. The iterator is closed.
func (iter *DeltaSliceIter) ForEach(cb func(*DeltaEntry) error) error {
	return ForEachIterator(iter, cb)
}

// Close releases any resources used by the iterator.
func (iter *DeltaSliceIter) Close() {
	iter.series = nil
}

type bareDeltaIterator interface {
	Next() (*DeltaEntry, error)
	Close()
}

// ForEachIterator is a helper function to build iterators without need to
// rewrite the same ForEach function each time.
func ForEachIterator(iter bareDeltaIterator, cb func(*DeltaEntry) error) error {
	defer iter.Close()
	for {
		e, err := iter.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}

			return err
		}

		if err := cb(e); err != nil {
			if err == ErrStop {
				return nil
			}

			return err
		}
	}
}
