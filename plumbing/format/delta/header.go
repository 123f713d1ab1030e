package delta

import "fmt"

// Header is the preamble of a delta.
type Header struct {
	// SourceSize is the size the source must have for the delta to apply.
	SourceSize uint
	// TargetSize is the exact size of the reconstructed target.
	TargetSize uint
	// Len is the number of bytes the header takes at the start of the
	// delta. The command stream begins right after it.
	Len int
}

// DecodeHeader decodes the source and target sizes at the start of delta.
// The source size is not validated here; see NewPatcher.
func DecodeHeader(delta []byte) (Header, error) {
	src, n, err := DecodeLEB128(delta)
	if err != nil {
		return Header{}, fmt.Errorf("delta header: source size: %w", err)
	}

	target, m, err := DecodeLEB128(delta[n:])
	if err != nil {
		return Header{}, fmt.Errorf("delta header: target size: %w", err)
	}

	return Header{
		SourceSize: src,
		TargetSize: target,
		Len:        n + m,
	}, nil
}
