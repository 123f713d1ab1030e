package delta

import (
	"io"

	"github.com/go-git/go-delta/utils/trace"
)

// maxPatchPreemptionSize defines what is the max size of bytes to be
// preemptively made available for a patch operation.
const maxPatchPreemptionSize uint = 1 << 20

// Patcher walks the command stream of a delta one operation at a time.
// It never modifies the source or the delta, and keeps no reference to
// them beyond its own lifetime.
type Patcher struct {
	src    []byte
	delta  []byte
	header Header

	// pos is the read cursor into delta.
	pos int
	// written is the amount of output produced so far.
	written uint
}

// NewPatcher decodes the header of delta and checks it was built against a
// source of len(src) bytes.
func NewPatcher(src, delta []byte) (*Patcher, error) {
	h, err := DecodeHeader(delta)
	if err != nil {
		return nil, err
	}

	if h.SourceSize != uint(len(src)) {
		return nil, newError(ErrSourceLengthMismatch,
			"header declares %d bytes, source has %d", h.SourceSize, len(src))
	}

	trace.Delta.Printf("delta: header source=%d target=%d len=%d",
		h.SourceSize, h.TargetSize, h.Len)

	return &Patcher{
		src:    src,
		delta:  delta,
		header: h,
		pos:    h.Len,
	}, nil
}

// Header returns the decoded delta header.
func (p *Patcher) Header() Header {
	return p.header
}

// Consumed returns how many bytes of the delta have been read so far,
// header included.
func (p *Patcher) Consumed() int {
	return p.pos
}

// Next decodes the next command and moves the cursor past it, including
// the literal bytes of an insert. It does not produce any output. io.EOF is
// returned once the command stream is exhausted.
func (p *Patcher) Next() (Op, error) {
	if p.pos >= len(p.delta) {
		return Op{}, io.EOF
	}

	at := p.pos
	cmd := p.delta[p.pos]
	p.pos++

	if !isCopyFromSrc(cmd) {
		sz := uint(cmd) // cmd is the size itself
		if uint(len(p.delta)-p.pos) < sz {
			return Op{}, newError(ErrInsertOutOfBounds,
				"insert of %d bytes at %d, %d left", sz, at, len(p.delta)-p.pos)
		}

		op := Op{Type: OpInsert, Offset: uint(p.pos), Size: sz}
		p.pos += int(sz)
		trace.Delta.Printf("delta: %d: %s", at, op)
		return op, nil
	}

	offset, n, err := decodeOffset(cmd, p.delta[p.pos:])
	if err != nil {
		return Op{}, err
	}
	p.pos += n

	sz, n, err := decodeSize(cmd, p.delta[p.pos:])
	if err != nil {
		return Op{}, err
	}
	p.pos += n

	if invalidOffsetSize(offset, sz, uint(len(p.src))) {
		return Op{}, newError(ErrCopyOutOfBounds,
			"copy of %d bytes at offset %d, source has %d", sz, offset, len(p.src))
	}

	op := Op{Type: OpCopy, Offset: offset, Size: sz}
	trace.Delta.Printf("delta: %d: %s", at, op)
	return op, nil
}

// Apply appends the bytes produced by op, as returned by Next, to dst.
func (p *Patcher) Apply(dst []byte, op Op) ([]byte, error) {
	b, err := p.bytes(op)
	if err != nil {
		return dst, err
	}

	return append(dst, b...), nil
}

// Run applies every remaining command and returns the reconstructed target.
// The output is either complete, with exactly the size declared by the
// header, or nil alongside an error.
func (p *Patcher) Run() ([]byte, error) {
	dst := make([]byte, 0, min(p.header.TargetSize, maxPatchPreemptionSize))
	err := p.drain(false, func(b []byte) {
		dst = append(dst, b...)
	})
	if err != nil {
		return nil, err
	}

	return dst, nil
}

// drain applies commands until the command stream is exhausted, or, when
// stopAtTarget is set, as soon as the target is complete. emit receives
// views into the source or the delta and must copy them.
func (p *Patcher) drain(stopAtTarget bool, emit func([]byte)) error {
	for !stopAtTarget || p.written < p.header.TargetSize {
		op, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		b, err := p.bytes(op)
		if err != nil {
			return err
		}

		emit(b)
	}

	if p.written != p.header.TargetSize {
		return newError(ErrTargetLengthMismatch,
			"produced %d bytes, header declares %d", p.written, p.header.TargetSize)
	}

	return nil
}

// bytes returns the bytes op appends to the output and accounts for them.
func (p *Patcher) bytes(op Op) ([]byte, error) {
	if op.Size > p.header.TargetSize-p.written {
		return nil, newError(ErrTargetLengthMismatch,
			"%s overflows target of %d bytes after %d", op, p.header.TargetSize, p.written)
	}

	var b []byte
	switch op.Type {
	case OpCopy:
		b = p.src[op.Offset : op.Offset+op.Size]
	case OpInsert:
		b = p.delta[op.Offset : op.Offset+op.Size]
	}

	p.written += op.Size
	return b, nil
}
