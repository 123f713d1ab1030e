// Package unpack reconstructs the objects described by a stream of delta
// entries and stores them. Bases are taken from the entry itself, from a
// cache of recently reconstructed objects, or from the storer, so chains of
// deltas resolve in any order.
package unpack

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/errgroup"

	"github.com/go-git/go-delta/plumbing"
	"github.com/go-git/go-delta/plumbing/format/delta"
	"github.com/go-git/go-delta/plumbing/storer"
	"github.com/go-git/go-delta/utils/trace"
)

// ErrBaseNotFound is returned when the base of a delta is neither provided
// by the entry, nor stored, nor produced by another entry.
var ErrBaseNotFound = errors.New("delta base not found")

// Result describes a reconstructed object.
type Result struct {
	Name string
	Type plumbing.ObjectType
	Hash plumbing.Hash
	Size int
}

// Unpacker applies delta entries and stores the results.
type Unpacker struct {
	storer    storer.ObjectStorer
	workers   int
	cacheSize int

	mu    sync.Mutex
	cache *lru.Cache
}

// NewUnpacker returns an Unpacker storing objects in s.
func NewUnpacker(s storer.ObjectStorer, opts ...Option) *Unpacker {
	u := &Unpacker{
		storer:    s,
		workers:   DefaultWorkers,
		cacheSize: DefaultCacheSize,
	}

	for _, opt := range opts {
		opt(u)
	}

	u.cache = lru.New(u.cacheSize)
	return u
}

type pending struct {
	index int
	entry *storer.DeltaEntry
}

// Unpack drains iter and reconstructs every entry. Entries whose base is
// not available yet are retried once the other entries have been stored,
// which resolves delta chains regardless of their order in iter. Results
// follow the order of iter. The first failure stops the unpack.
func (u *Unpacker) Unpack(ctx context.Context, iter storer.DeltaIter) ([]Result, error) {
	var todo []pending
	err := iter.ForEach(func(e *storer.DeltaEntry) error {
		todo = append(todo, pending{index: len(todo), entry: e})
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(todo))
	for round := 0; len(todo) > 0; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var ready, blocked []pending
		for _, p := range todo {
			if p.entry.Source != nil || u.hasObject(p.entry.Base) {
				ready = append(ready, p)
				continue
			}
			blocked = append(blocked, p)
		}

		if len(ready) == 0 {
			e := blocked[0].entry
			return nil, fmt.Errorf("%w: %s needs %s", ErrBaseNotFound, entryName(blocked[0]), e.Base)
		}

		trace.Unpack.Printf("unpack: round %d: %d ready, %d blocked", round, len(ready), len(blocked))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(u.workers)
		for _, p := range ready {
			p := p
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				r, err := u.resolve(p.entry)
				if err != nil {
					return fmt.Errorf("%s: %w", entryName(p), err)
				}

				results[p.index] = r
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		todo = blocked
	}

	return results, nil
}

func entryName(p pending) string {
	if p.entry.Name != "" {
		return p.entry.Name
	}
	return fmt.Sprintf("entry %d", p.index)
}

func (u *Unpacker) resolve(e *storer.DeltaEntry) (Result, error) {
	src := e.Source
	if src == nil {
		var err error
		if src, err = u.object(e.Base); err != nil {
			return Result{}, err
		}
	}

	target, err := delta.Patch(src, e.Delta)
	if err != nil {
		return Result{}, err
	}

	typ := e.Type
	if !typ.Valid() {
		typ = plumbing.BlobObject
	}

	h := plumbing.ComputeHash(typ, target)
	if err := u.storer.SetObject(typ, h, target); err != nil {
		return Result{}, err
	}

	u.cacheAdd(h, target)
	trace.Unpack.Printf("unpack: %s %s %d bytes", typ, h, len(target))

	return Result{Name: e.Name, Type: typ, Hash: h, Size: len(target)}, nil
}

// object returns the content of the object named h, from the cache when
// possible.
func (u *Unpacker) object(h plumbing.Hash) ([]byte, error) {
	u.mu.Lock()
	v, ok := u.cache.Get(h)
	u.mu.Unlock()
	if ok {
		return v.([]byte), nil
	}

	_, content, err := u.storer.Object(h)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBaseNotFound, h)
	}
	if err != nil {
		return nil, err
	}

	u.cacheAdd(h, content)
	return content, nil
}

func (u *Unpacker) hasObject(h plumbing.Hash) bool {
	u.mu.Lock()
	_, ok := u.cache.Get(h)
	u.mu.Unlock()

	return ok || u.storer.HasObject(h) == nil
}

func (u *Unpacker) cacheAdd(h plumbing.Hash, content []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.cache.Add(h, content)
}
