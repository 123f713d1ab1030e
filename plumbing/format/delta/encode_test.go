package delta

// The library only decodes deltas; these helpers build test inputs.

func encodeLEB128(n uint) []byte {
	var out []byte
	for {
		b := byte(n & maskPayload)
		n >>= 7
		if n == 0 {
			return append(out, b)
		}
		out = append(out, b|maskContinue)
	}
}

type deltaBuilder struct {
	buf []byte
}

func newDeltaBuilder(srcSz, targetSz uint) *deltaBuilder {
	b := &deltaBuilder{}
	b.buf = append(b.buf, encodeLEB128(srcSz)...)
	b.buf = append(b.buf, encodeLEB128(targetSz)...)
	return b
}

func (b *deltaBuilder) insert(data string) *deltaBuilder {
	for len(data) > 0 {
		n := min(len(data), 0x7f)
		b.buf = append(b.buf, byte(n))
		b.buf = append(b.buf, data[:n]...)
		data = data[n:]
	}
	return b
}

func (b *deltaBuilder) copy(offset, size uint) *deltaBuilder {
	cmd := byte(maskContinue)
	var args []byte
	for _, o := range offsets {
		if v := byte(offset >> o.shift); v != 0 {
			cmd |= o.mask
			args = append(args, v)
		}
	}
	if size != maxCopySize {
		for _, s := range sizes {
			if v := byte(size >> s.shift); v != 0 {
				cmd |= s.mask
				args = append(args, v)
			}
		}
	}

	b.buf = append(b.buf, cmd)
	b.buf = append(b.buf, args...)
	return b
}

func (b *deltaBuilder) raw(p ...byte) *deltaBuilder {
	b.buf = append(b.buf, p...)
	return b
}

func (b *deltaBuilder) bytes() []byte {
	return b.buf
}
