// Package storage holds the object storage backends and helpers shared by
// them.
package storage

import (
	"errors"
	"sync/atomic"

	"github.com/go-git/go-delta/plumbing"
	"github.com/go-git/go-delta/plumbing/storer"
)

// ErrLimitExceeded is returned when storing an object would go over the
// byte budget of a Limited storer.
var ErrLimitExceeded = errors.New("limit exceeded")

// Limited wraps a storer.ObjectStorer to limit the number of bytes that can
// be stored through it.
type Limited struct {
	storer.ObjectStorer
	n atomic.Int64
}

// Limit returns an ObjectStorer limited to the specified number of bytes.
func Limit(s storer.ObjectStorer, n int64) *Limited {
	l := &Limited{ObjectStorer: s}
	l.n.Store(n)
	return l
}

// SetObject stores the object if the remaining budget allows it. Objects
// already present in the wrapped storer are not charged.
func (s *Limited) SetObject(t plumbing.ObjectType, h plumbing.Hash, content []byte) error {
	if s.ObjectStorer.HasObject(h) == nil {
		return s.ObjectStorer.SetObject(t, h, content)
	}

	size := int64(len(content))
	if s.n.Add(-size) < 0 {
		s.n.Add(size)
		return ErrLimitExceeded
	}

	if err := s.ObjectStorer.SetObject(t, h, content); err != nil {
		s.n.Add(size)
		return err
	}

	return nil
}

// Remaining returns the number of bytes that can still be stored.
func (s *Limited) Remaining() int64 {
	return s.n.Load()
}
