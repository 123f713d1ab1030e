package delta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLEB128(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		want  uint
		n     int
	}{
		{
			name:  "zero",
			input: []byte{0x00},
			want:  0,
			n:     1,
		},
		{
			name:  "single byte, max value without continuation",
			input: []byte{0x7F, 0xFF},
			want:  127,
			n:     1,
		},
		{
			name:  "two bytes",
			input: []byte{0x80, 0x01, 0xFF},
			want:  128,
			n:     2,
		},
		{
			name:  "two bytes, max value",
			input: []byte{0xFF, 0x7F},
			want:  16383,
			n:     2,
		},
		{
			name:  "three bytes",
			input: []byte{0x80, 0x80, 0x01, 0xFF},
			want:  16384,
			n:     3,
		},
		{
			name:  "max uint",
			input: encodeLEB128(math.MaxUint),
			want:  math.MaxUint,
			n:     maxVarintLen,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, n, err := DecodeLEB128(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, "decoded number mismatch")
			assert.Equal(t, tc.n, n, "consumed bytes mismatch")
		})
	}
}

func TestDecodeLEB128RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []uint{0, 1, 127, 128, 255, 16383, 16384, 1 << 21, 1<<28 + 5} {
		got, n, err := DecodeLEB128(encodeLEB128(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(encodeLEB128(v)), n)
	}
}

func TestDecodeLEB128Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		err   error
	}{
		{name: "empty input", input: []byte{}, err: ErrTruncatedStream},
		{name: "dangling continuation", input: []byte{0x80}, err: ErrTruncatedStream},
		{name: "long dangling continuation", input: []byte{0xFF, 0xFF, 0x80}, err: ErrTruncatedStream},
		{
			name:  "too many groups",
			input: append(bytesOf(0x80, maxVarintLen), 0x00),
			err:   ErrVarintOverflow,
		},
		{
			name:  "last group too wide",
			input: append(bytesOf(0xFF, maxVarintLen-1), 0x7F),
			err:   ErrVarintOverflow,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := DecodeLEB128(tc.input)
			assert.ErrorIs(t, err, tc.err)

			var derr *Error
			assert.ErrorAs(t, err, &derr)
		})
	}
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
