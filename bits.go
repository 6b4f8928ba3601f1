package webcompress

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/icza/bitio"
)

// Bits is a bit string with one element per bit. Every element is 0 or 1.
type Bits []byte

// Framing patterns. They must not be modified.
var (
	// Sentinel (D0) separates the dictionary from the payload.
	Sentinel = mustParseBits("1000000000000001")
	// FieldDelimiter (D1) separates a symbol from its codeword.
	FieldDelimiter = mustParseBits("01111111110")
	// EntryDelimiter (D2) terminates a dictionary entry.
	EntryDelimiter = mustParseBits("011111111110")
)

// symbolBits is the width of the symbol field of a dictionary entry.
const symbolBits = 8

// ParseBits converts a string of '0' and '1' characters into Bits.
func ParseBits(s string) (Bits, error) {
	out := make(Bits, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			out[i] = 1
		default:
			return nil, fmt.Errorf("webcompress: invalid bit %q at %d", s[i], i)
		}
	}
	return out, nil
}

func mustParseBits(s string) Bits {
	b, err := ParseBits(s)
	if err != nil {
		panic(err)
	}
	return b
}

// String renders b as a string of '0' and '1'.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, v := range b {
		sb.WriteByte('0' + v)
	}
	return sb.String()
}

// Equal reports whether b and o hold the same bits.
func (b Bits) Equal(o Bits) bool { return bytes.Equal(b, o) }

// HasPrefix reports whether p is a prefix of b.
func (b Bits) HasPrefix(p Bits) bool { return bytes.HasPrefix(b, p) }

// appendUint appends the low n bits of v, most significant first.
func (b Bits) appendUint(v uint64, n int) Bits {
	for i := n - 1; i >= 0; i-- {
		b = append(b, byte(v>>uint(i))&1)
	}
	return b
}

// value reads b as an unsigned big-endian integer.
func (b Bits) value() uint64 {
	var v uint64
	for _, x := range b {
		v = v<<1 | uint64(x)
	}
	return v
}

// PackedLen returns the number of bytes Pack produces for n bits.
func PackedLen(n int) int { return (n + 7) / 8 }

// Pack groups bits into bytes, most significant bit first. A final partial
// byte is padded on the right with zero bits.
func Pack(bits Bits) []byte {
	var buf bytes.Buffer
	buf.Grow(PackedLen(len(bits)))
	w := bitio.NewWriter(&buf)
	for _, b := range bits {
		w.TryWriteBool(b != 0)
	}
	// Close flushes the pending partial byte; writes to a bytes.Buffer do not fail.
	_ = w.Close()
	return buf.Bytes()
}

// Unpack expands every byte of data into 8 bits, most significant first.
// The result always has a length that is a multiple of 8, so padding added
// by Pack comes back as trailing zero bits.
func Unpack(data []byte) Bits {
	out := make(Bits, 0, len(data)*8)
	r := bitio.NewReader(bytes.NewReader(data))
	for range len(data) * 8 {
		if r.TryReadBool() {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	return out
}
