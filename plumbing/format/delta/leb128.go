package delta

import "math/bits"

const (
	maskPayload  = 0x7f // 0111 1111
	maskContinue = 0x80 // 1000 0000

	// maxVarintLen is the largest number of 7 bit groups that can be
	// accumulated into a uint.
	maxVarintLen = (bits.UintSize + 6) / 7
)

// DecodeLEB128 decodes a number encoded as an unsigned LEB128 at the start of
// input. It returns the decoded number and how many bytes it spans.
//
// Each byte carries 7 bits of payload, least significant group first; a set
// high bit means more bytes follow. ErrTruncatedStream is returned if input
// ends while a continuation bit is still set and ErrVarintOverflow if the
// value does not fit in a uint.
func DecodeLEB128(input []byte) (uint, int, error) {
	var num uint
	for sz := 0; sz < len(input); sz++ {
		if sz == maxVarintLen {
			return 0, 0, newError(ErrVarintOverflow, "more than %d groups", maxVarintLen)
		}

		b := input[sz]
		shift := uint(sz) * 7
		payload := uint(b) & maskPayload
		if shift+7 > bits.UintSize && payload>>(bits.UintSize-shift) != 0 {
			return 0, 0, newError(ErrVarintOverflow, "group %d does not fit", sz)
		}

		num |= payload << shift // concats 7 bits chunks
		if b&maskContinue == 0 {
			return num, sz + 1, nil
		}
	}

	return 0, 0, newError(ErrTruncatedStream, "varint needs more than %d bytes", len(input))
}
