// Package hash provides the hash functions used to name reconstructed
// objects. SHA1 defaults to a collision detecting implementation.
package hash

import (
	"crypto"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"sync"

	"github.com/pjbgf/sha1cd"
)

const (
	// SHA1Size is the size of a SHA1 sum in bytes.
	SHA1Size = 20
	// SHA1HexSize is the size of a SHA1 sum in hexadecimal.
	SHA1HexSize = SHA1Size * 2
)

// ErrUnsupportedHashFunction is returned when registering or requesting a
// hash function other than SHA1 or SHA256.
var ErrUnsupportedHashFunction = errors.New("unsupported hash function")

var (
	mu    sync.RWMutex
	algos = map[crypto.Hash]func() hash.Hash{}
)

func init() {
	reset()
}

func reset() {
	mu.Lock()
	defer mu.Unlock()

	algos[crypto.SHA1] = sha1cd.New
	algos[crypto.SHA256] = sha256.New
}

// RegisterHash allows for the hash algorithm used to be overridden.
// This ensures the hash selection for go-delta must be explicit, when
// overriding the default value.
func RegisterHash(h crypto.Hash, f func() hash.Hash) error {
	if f == nil {
		return fmt.Errorf("cannot register hash: f is nil")
	}

	switch h {
	case crypto.SHA1, crypto.SHA256:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedHashFunction, h)
	}

	mu.Lock()
	defer mu.Unlock()
	algos[h] = f
	return nil
}

// New returns a new hash.Hash for the given hash function.
// It panics if the hash function is not registered.
func New(h crypto.Hash) hash.Hash {
	mu.RLock()
	f, ok := algos[h]
	mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("hash algorithm not registered: %v", h))
	}
	return f()
}
