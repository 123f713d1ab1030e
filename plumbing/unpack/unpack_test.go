package unpack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-git/go-delta/plumbing"
	"github.com/go-git/go-delta/plumbing/format/delta"
	"github.com/go-git/go-delta/plumbing/storer"
	"github.com/go-git/go-delta/storage/memory"
)

// appendDelta returns a delta turning base into base+suffix. Both must be
// shorter than 128 bytes together.
func appendDelta(base, suffix string) []byte {
	d := []byte{byte(len(base)), byte(len(base) + len(suffix))}
	if len(base) > 0 {
		d = append(d, 0x90, byte(len(base)))
	}
	d = append(d, byte(len(suffix)))
	return append(d, suffix...)
}

func blobHash(s string) plumbing.Hash {
	return plumbing.ComputeHash(plumbing.BlobObject, []byte(s))
}

type UnpackSuite struct {
	suite.Suite
	s *memory.ObjectStorage
}

func TestUnpackSuite(t *testing.T) {
	suite.Run(t, new(UnpackSuite))
}

func (s *UnpackSuite) SetupTest() {
	s.s = memory.NewObjectStorage()
}

func (s *UnpackSuite) TestUnpackWithSource() {
	iter := storer.NewDeltaSliceIter([]*storer.DeltaEntry{
		{Name: "greeting", Type: plumbing.BlobObject, Source: []byte("hello"), Delta: appendDelta("hello", " world")},
	})

	results, err := NewUnpacker(s.s).Unpack(context.Background(), iter)
	s.Require().NoError(err)
	s.Require().Len(results, 1)

	s.Equal(Result{
		Name: "greeting",
		Type: plumbing.BlobObject,
		Hash: blobHash("hello world"),
		Size: 11,
	}, results[0])

	_, content, err := s.s.Object(results[0].Hash)
	s.Require().NoError(err)
	s.Equal("hello world", string(content))
}

func (s *UnpackSuite) TestUnpackChainOutOfOrder() {
	entries := []*storer.DeltaEntry{
		{Name: "third", Base: blobHash("ab"), Delta: appendDelta("ab", "c")},
		{Name: "second", Base: blobHash("a"), Delta: appendDelta("a", "b")},
		{Name: "first", Source: []byte{}, Delta: appendDelta("", "a")},
	}

	for _, workers := range []int{1, 4} {
		s.SetupTest()
		results, err := NewUnpacker(s.s, WithWorkers(workers), WithCacheSize(1)).
			Unpack(context.Background(), storer.NewDeltaSliceIter(entries))
		s.Require().NoError(err)

		s.Equal(blobHash("abc"), results[0].Hash)
		s.Equal(blobHash("ab"), results[1].Hash)
		s.Equal(blobHash("a"), results[2].Hash)
		s.Equal(plumbing.BlobObject, results[0].Type)
		s.Equal(3, s.s.Len())
	}
}

func (s *UnpackSuite) TestUnpackBaseFromStorer() {
	base := []byte("stored")
	s.Require().NoError(s.s.SetObject(plumbing.BlobObject, blobHash("stored"), base))

	iter := storer.NewDeltaSliceIter([]*storer.DeltaEntry{
		{Type: plumbing.BlobObject, Base: blobHash("stored"), Delta: appendDelta("stored", "!")},
	})

	results, err := NewUnpacker(s.s, WithCacheSize(0)).Unpack(context.Background(), iter)
	s.Require().NoError(err)
	s.Equal(blobHash("stored!"), results[0].Hash)
}

func (s *UnpackSuite) TestUnpackBaseNotFound() {
	iter := storer.NewDeltaSliceIter([]*storer.DeltaEntry{
		{Name: "orphan", Base: blobHash("missing"), Delta: appendDelta("missing", "!")},
	})

	_, err := NewUnpacker(s.s).Unpack(context.Background(), iter)
	s.ErrorIs(err, ErrBaseNotFound)
	s.ErrorContains(err, "orphan")
	s.Zero(s.s.Len())
}

func (s *UnpackSuite) TestUnpackCorruptDelta() {
	iter := storer.NewDeltaSliceIter([]*storer.DeltaEntry{
		{Name: "ok", Source: []byte("a"), Delta: appendDelta("a", "b")},
		{Name: "bad", Source: []byte("abc"), Delta: appendDelta("a", "b")},
	})

	_, err := NewUnpacker(s.s, WithWorkers(2)).Unpack(context.Background(), iter)
	s.ErrorIs(err, delta.ErrSourceLengthMismatch)
	s.ErrorContains(err, "bad")
}

func (s *UnpackSuite) TestUnpackCanceled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	iter := storer.NewDeltaSliceIter([]*storer.DeltaEntry{
		{Source: []byte("a"), Delta: appendDelta("a", "b")},
	})

	_, err := NewUnpacker(s.s).Unpack(ctx, iter)
	s.ErrorIs(err, context.Canceled)
}

func (s *UnpackSuite) TestUnpackEmpty() {
	results, err := NewUnpacker(s.s).Unpack(context.Background(), storer.NewDeltaSliceIter(nil))
	s.NoError(err)
	s.Empty(results)
}

func (s *UnpackSuite) TestOptions() {
	u := NewUnpacker(s.s, WithWorkers(0), WithCacheSize(-1))
	s.Equal(DefaultWorkers, u.workers)
	s.Equal(DefaultCacheSize, u.cacheSize)

	u = NewUnpacker(s.s, WithWorkers(8), WithCacheSize(0))
	s.Equal(8, u.workers)
	s.Equal(0, u.cacheSize)
}
