package delta

import (
	"fmt"
	"io"

	"github.com/go-git/go-delta/utils/sync"
)

// Patch returns the result of applying delta to src. The whole delta must be
// made of commands; an error is returned if it is malformed, if it was built
// against a source of a different size, or if it does not reconstruct the
// declared target size exactly.
func Patch(src, delta []byte) ([]byte, error) {
	p, err := NewPatcher(src, delta)
	if err != nil {
		return nil, err
	}

	return p.Run()
}

// PatchStream works like Patch for a delta embedded at the start of a larger
// buffer. It stops as soon as the declared target size has been produced
// and returns, besides the target, how many bytes of delta were consumed so
// the caller can carry on parsing whatever follows.
func PatchStream(src, delta []byte) ([]byte, int, error) {
	p, err := NewPatcher(src, delta)
	if err != nil {
		return nil, 0, err
	}

	dst := make([]byte, 0, min(p.header.TargetSize, maxPatchPreemptionSize))
	err = p.drain(true, func(b []byte) {
		dst = append(dst, b...)
	})
	if err != nil {
		return nil, 0, err
	}

	return dst, p.Consumed(), nil
}

// PatchTo applies delta to src and writes the target to w. Nothing is
// written unless the whole target was reconstructed successfully.
func PatchTo(w io.Writer, src, delta []byte) (int64, error) {
	p, err := NewPatcher(src, delta)
	if err != nil {
		return 0, err
	}

	buf := sync.GetBytesBuffer()
	defer sync.PutBytesBuffer(buf)

	buf.Grow(int(min(p.header.TargetSize, maxPatchPreemptionSize)))
	err = p.drain(false, func(b []byte) {
		buf.Write(b)
	})
	if err != nil {
		return 0, err
	}

	return buf.WriteTo(w)
}

// ApplyChain applies deltas in order, each one against the result of the
// previous one, starting from base. base itself is returned when deltas is
// empty.
func ApplyChain(base []byte, deltas ...[]byte) ([]byte, error) {
	cur := base
	for i, d := range deltas {
		next, err := Patch(cur, d)
		if err != nil {
			return nil, fmt.Errorf("delta chain: link %d: %w", i, err)
		}

		cur = next
	}

	return cur, nil
}
