package plumbing

import (
	"bytes"
	"crypto"
	"encoding/hex"
	"hash"
	"strconv"

	dhash "github.com/go-git/go-delta/plumbing/hash"
)

// Hash SHA1 hashed content
type Hash [dhash.SHA1Size]byte

// ZeroHash is Hash with value zero
var ZeroHash Hash

// ComputeHash compute the hash for a given ObjectType and content
func ComputeHash(t ObjectType, content []byte) Hash {
	h := NewHasher(t, int64(len(content)))
	h.Write(content)
	return h.Sum()
}

// NewHash return a new Hash from a hexadecimal hash representation
func NewHash(s string) Hash {
	b, _ := hex.DecodeString(s)

	var h Hash
	copy(h[:], b)

	return h
}

// IsHash returns true if the given string is a valid hex SHA1 hash.
func IsHash(s string) bool {
	if len(s) != dhash.SHA1HexSize {
		return false
	}

	_, err := hex.DecodeString(s)
	return err == nil
}

// IsZero returns true if h is the zero hash.
func (h Hash) IsZero() bool {
	var empty Hash
	return h == empty
}

// Compare returns an integer comparing two hashes lexicographically.
func (h Hash) Compare(b []byte) int {
	return bytes.Compare(h[:], b)
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Hasher computes the git object id of content: the SHA1 of the object
// header "<type> <size>\x00" followed by the content.
type Hasher struct {
	hash.Hash
}

// NewHasher returns a Hasher primed with the header of an object of type t
// and the given size.
func NewHasher(t ObjectType, size int64) Hasher {
	h := Hasher{dhash.New(crypto.SHA1)}
	h.Reset(t, size)
	return h
}

// Reset discards any written content and writes a new object header.
func (h Hasher) Reset(t ObjectType, size int64) {
	h.Hash.Reset()
	h.Write(t.Bytes())
	h.Write([]byte(" "))
	h.Write([]byte(strconv.FormatInt(size, 10)))
	h.Write([]byte{0})
}

// Sum returns the object id.
func (h Hasher) Sum() (hash Hash) {
	copy(hash[:], h.Hash.Sum(nil))
	return
}
