// Package memory is a storage backend base on memory
package memory

import (
	"sync"

	"github.com/go-git/go-delta/plumbing"
	"github.com/go-git/go-delta/plumbing/storer"
)

var _ storer.ObjectStorer = (*ObjectStorage)(nil)

type object struct {
	typ     plumbing.ObjectType
	content []byte
}

// ObjectStorage keeps objects in a map. It is safe for concurrent use.
type ObjectStorage struct {
	mu      sync.RWMutex
	objects map[plumbing.Hash]object
}

// NewObjectStorage returns an empty ObjectStorage.
func NewObjectStorage() *ObjectStorage {
	return &ObjectStorage{
		objects: make(map[plumbing.Hash]object),
	}
}

// SetObject stores content under h. The storage takes ownership of content.
func (s *ObjectStorage) SetObject(t plumbing.ObjectType, h plumbing.Hash, content []byte) error {
	if !t.Valid() {
		return plumbing.ErrInvalidType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[h] = object{typ: t, content: content}
	return nil
}

// Object returns the object named h.
func (s *ObjectStorage) Object(h plumbing.Hash) (plumbing.ObjectType, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[h]
	if !ok {
		return plumbing.InvalidObject, nil, plumbing.ErrObjectNotFound
	}

	return o.typ, o.content, nil
}

// HasObject returns nil if the object named h is stored.
func (s *ObjectStorage) HasObject(h plumbing.Hash) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.objects[h]; !ok {
		return plumbing.ErrObjectNotFound
	}

	return nil
}

// Len returns the number of stored objects.
func (s *ObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}
