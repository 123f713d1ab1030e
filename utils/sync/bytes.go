// Package sync holds sync.Pool managed buffers shared by the delta and
// storage packages.
package sync

import (
	"bytes"
	"sync"
)

const byteSliceSize = 32 * 1024

var (
	byteSlice = sync.Pool{
		New: func() interface{} {
			b := make([]byte, byteSliceSize)
			return &b
		},
	}
	bytesBuffer = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(nil)
		},
	}
)

// GetByteSlice returns a *[]byte that is managed by a sync.Pool.
// The initial slice length will be 32768 (32kb).
//
// After use, the *[]byte should be put back into the sync.Pool
// by calling PutByteSlice.
func GetByteSlice() *[]byte {
	buf := byteSlice.Get().(*[]byte)
	return buf
}

// PutByteSlice puts buf back into its sync.Pool. Slices that were
// truncated below the pool size are dropped.
func PutByteSlice(buf *[]byte) {
	if buf == nil || len(*buf) != byteSliceSize {
		return
	}

	b := *buf
	for i := range b {
		b[i] = 0
	}

	byteSlice.Put(buf)
}

// GetBytesBuffer returns a *bytes.Buffer that is managed by a sync.Pool.
// Returns a buffer that is reset and ready for use.
//
// After use, the *bytes.Buffer should be put back into the sync.Pool
// by calling PutBytesBuffer.
func GetBytesBuffer() *bytes.Buffer {
	buf := bytesBuffer.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBytesBuffer puts buf back into its sync.Pool.
func PutBytesBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	bytesBuffer.Put(buf)
}
