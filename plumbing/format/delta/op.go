package delta

import "fmt"

// maxCopySize is the size of a copy command whose size bytes are all zero.
const maxCopySize = 0x10000

// OpType tells the two kinds of delta command apart.
type OpType int8

const (
	// OpInsert appends literal bytes carried by the delta itself.
	OpInsert OpType = iota + 1
	// OpCopy appends a span of the source.
	OpCopy
)

func (t OpType) String() string {
	switch t {
	case OpInsert:
		return "insert"
	case OpCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// Op is a single decoded delta command.
type Op struct {
	Type OpType
	// Offset is where the bytes to append start: within the source for
	// copies and within the delta for inserts.
	Offset uint
	// Size is the number of bytes the command appends.
	Size uint
}

func (o Op) String() string {
	if o.Type == OpCopy {
		return fmt.Sprintf("copy(offset=%d, size=%d)", o.Offset, o.Size)
	}
	return fmt.Sprintf("%s(size=%d)", o.Type, o.Size)
}

type offset struct {
	mask  byte
	shift uint
}

var offsets = []offset{
	{mask: 0x01, shift: 0},
	{mask: 0x02, shift: 8},
	{mask: 0x04, shift: 16},
	{mask: 0x08, shift: 24},
}

var sizes = []offset{
	{mask: 0x10, shift: 0},
	{mask: 0x20, shift: 8},
	{mask: 0x40, shift: 16},
}

func isCopyFromSrc(cmd byte) bool {
	return (cmd & maskContinue) != 0
}

// decodeArg assembles the little endian value whose bytes are flagged in cmd
// by table, reading them from the start of delta. Unflagged bytes are zero
// and take no room in the delta. It returns the value and the bytes read.
func decodeArg(cmd byte, table []offset, delta []byte) (uint, int, error) {
	var v uint
	var n int
	for _, o := range table {
		if (cmd & o.mask) == 0 {
			continue
		}
		if n == len(delta) {
			return 0, 0, newError(ErrTruncatedStream, "copy command 0x%02x lacks operand bytes", cmd)
		}
		v |= uint(delta[n]) << o.shift
		n++
	}

	return v, n, nil
}

func decodeOffset(cmd byte, delta []byte) (uint, int, error) {
	return decodeArg(cmd, offsets, delta)
}

func decodeSize(cmd byte, delta []byte) (uint, int, error) {
	sz, n, err := decodeArg(cmd, sizes, delta)
	if err != nil {
		return 0, 0, err
	}
	if sz == 0 {
		sz = maxCopySize
	}

	return sz, n, nil
}

func invalidOffsetSize(offset, sz, srcSz uint) bool {
	return sumOverflows(offset, sz) ||
		offset+sz > srcSz
}

func sumOverflows(a, b uint) bool {
	return a+b < a
}
