package webcompress

import (
	"bytes"
	"fmt"
)

// CodeTable maps symbols to their codewords.
type CodeTable struct {
	codes [256]Bits // nil when the symbol is absent
	n     int
}

// NewCodeTable assigns codewords by walking t from the root, appending 0 for
// a left edge and 1 for a right edge. A tree made of a single leaf gets the
// fixed codeword "0", since an empty codeword cannot be decoded.
func NewCodeTable(t *Tree) *CodeTable {
	ct := &CodeTable{}
	root := t.nodes[t.root]
	if root.IsLeaf() {
		ct.set(root.Symbol, Bits{0})
		return ct
	}

	var walk func(i int, prefix Bits)
	walk = func(i int, prefix Bits) {
		n := t.nodes[i]
		if n.IsLeaf() {
			ct.set(n.Symbol, bytes.Clone(prefix))
			return
		}
		walk(n.Left, append(prefix, 0))
		walk(n.Right, append(prefix, 1))
	}
	walk(t.root, make(Bits, 0, 32))
	return ct
}

func (ct *CodeTable) set(sym byte, code Bits) {
	if ct.codes[sym] == nil {
		ct.n++
	}
	ct.codes[sym] = code
}

// Lookup returns the codeword of sym. The returned Bits must not be modified.
func (ct *CodeTable) Lookup(sym byte) (Bits, bool) {
	code := ct.codes[sym]
	return code, code != nil
}

// Len returns the number of symbols in the table.
func (ct *CodeTable) Len() int { return ct.n }

// Symbols returns the symbols of the table in ascending order.
func (ct *CodeTable) Symbols() []byte {
	out := make([]byte, 0, ct.n)
	for sym, code := range ct.codes {
		if code != nil {
			out = append(out, byte(sym))
		}
	}
	return out
}

// Equal reports whether ct and o hold the same symbols and codewords.
func (ct *CodeTable) Equal(o *CodeTable) bool {
	if ct.n != o.n {
		return false
	}
	for sym := range ct.codes {
		if !bytes.Equal(ct.codes[sym], o.codes[sym]) || (ct.codes[sym] == nil) != (o.codes[sym] == nil) {
			return false
		}
	}
	return true
}

// encodedLen returns the number of bits AppendBits writes.
func (ct *CodeTable) encodedLen() int {
	n := 0
	for _, code := range ct.codes {
		if code != nil {
			n += symbolBits + len(FieldDelimiter) + len(code) + len(EntryDelimiter)
		}
	}
	return n
}

// AppendBits serializes the table in ascending symbol order with the
// delimiters of FramingSentinel and appends it to dst. Each entry is written as
//
//	[8-bit symbol][FieldDelimiter][codeword][EntryDelimiter]
func (ct *CodeTable) AppendBits(dst Bits) Bits {
	for sym, code := range ct.codes {
		if code == nil {
			continue
		}
		dst = dst.appendUint(uint64(sym), symbolBits)
		dst = append(dst, FieldDelimiter...)
		dst = append(dst, code...)
		dst = append(dst, EntryDelimiter...)
	}
	return dst
}

// lengthBits is the width of the codeword length field of a length-prefixed
// entry. A Huffman tree over 256 symbols is at most 255 levels deep.
const lengthBits = 8

// appendCounted serializes the table in ascending symbol order as
//
//	[8-bit entry count - 1] ([8-bit symbol][8-bit codeword length][codeword])*
//
// The table must not be empty.
func (ct *CodeTable) appendCounted(dst Bits) Bits {
	dst = dst.appendUint(uint64(ct.n-1), symbolBits)
	for sym, code := range ct.codes {
		if code == nil {
			continue
		}
		dst = dst.appendUint(uint64(sym), symbolBits)
		dst = dst.appendUint(uint64(len(code)), lengthBits)
		dst = append(dst, code...)
	}
	return dst
}

// readCounted reads a dictionary written by appendCounted from the start of
// bits and returns it along with the number of bits consumed.
func readCounted(bits Bits) (*CodeTable, int, error) {
	if len(bits) < symbolBits {
		return nil, 0, fmt.Errorf("%w: missing entry count", ErrMalformedEntry)
	}
	n := int(bits[:symbolBits].value()) + 1
	pos := symbolBits
	ct := &CodeTable{}
	for i := range n {
		if len(bits)-pos < symbolBits+lengthBits {
			return nil, 0, fmt.Errorf("%w: entry %d of %d truncated", ErrMalformedEntry, i, n)
		}
		sym := byte(bits[pos : pos+symbolBits].value())
		size := int(bits[pos+symbolBits : pos+symbolBits+lengthBits].value())
		pos += symbolBits + lengthBits
		if size == 0 {
			return nil, 0, fmt.Errorf("%w: entry %d has an empty codeword", ErrMalformedEntry, i)
		}
		if len(bits)-pos < size {
			return nil, 0, fmt.Errorf("%w: entry %d codeword truncated", ErrMalformedEntry, i)
		}
		if ct.codes[sym] != nil {
			return nil, 0, fmt.Errorf("%w: entry %d repeats symbol %#02x", ErrMalformedEntry, i, sym)
		}
		ct.set(sym, bytes.Clone(bits[pos:pos+size]))
		pos += size
	}
	return ct, pos, nil
}

// ParseCodeTable reads a dictionary written by AppendBits. The input is
// split on EntryDelimiter and each entry on FieldDelimiter; anything that
// does not yield one 8-bit symbol and one non-empty codeword is rejected
// with ErrMalformedEntry, as are duplicate symbols and bits after the last
// entry.
func ParseCodeTable(bits Bits) (*CodeTable, error) {
	if len(bits) == 0 {
		return nil, fmt.Errorf("%w: empty dictionary", ErrMalformedEntry)
	}
	entries := bytes.Split(bits, EntryDelimiter)
	if tail := entries[len(entries)-1]; len(tail) != 0 {
		return nil, fmt.Errorf("%w: %d bits after the last entry", ErrMalformedEntry, len(tail))
	}
	entries = entries[:len(entries)-1]

	ct := &CodeTable{}
	for i, entry := range entries {
		fields := bytes.Split(entry, FieldDelimiter)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: entry %d has %d fields", ErrMalformedEntry, i, len(fields))
		}
		symField, code := Bits(fields[0]), Bits(fields[1])
		if len(symField) != symbolBits {
			return nil, fmt.Errorf("%w: entry %d symbol field is %d bits", ErrMalformedEntry, i, len(symField))
		}
		if len(code) == 0 {
			return nil, fmt.Errorf("%w: entry %d has an empty codeword", ErrMalformedEntry, i)
		}
		sym := byte(symField.value())
		if ct.codes[sym] != nil {
			return nil, fmt.Errorf("%w: entry %d repeats symbol %#02x", ErrMalformedEntry, i, sym)
		}
		ct.set(sym, bytes.Clone(code))
	}
	return ct, nil
}

// trieNode is a node of the decoding trie. Index 0 is the root, which is
// never a child, so a zero child means "no edge".
type trieNode struct {
	child [2]int32
	sym   byte
	leaf  bool
}

type codeTrie []trieNode

// trie builds a decoding trie and checks that the table is prefix-free.
func (ct *CodeTable) trie() (codeTrie, error) {
	tr := make(codeTrie, 1, 2*ct.n+1)
	for sym, code := range ct.codes {
		if code == nil {
			continue
		}
		cur := int32(0)
		for _, b := range code {
			if tr[cur].leaf {
				return nil, fmt.Errorf("%w: codeword of %#02x extends codeword of %#02x", ErrMalformedEntry, sym, tr[cur].sym)
			}
			next := tr[cur].child[b]
			if next == 0 {
				tr = append(tr, trieNode{})
				next = int32(len(tr) - 1)
				tr[cur].child[b] = next
			}
			cur = next
		}
		if tr[cur].leaf || tr[cur].child != [2]int32{} {
			return nil, fmt.Errorf("%w: codeword of %#02x is a prefix of another codeword", ErrMalformedEntry, sym)
		}
		tr[cur].leaf = true
		tr[cur].sym = byte(sym)
	}
	return tr, nil
}

// decode matches payload greedily against the trie, emitting a symbol each
// time a codeword completes. With tolerant set, a final run of fewer than 8
// zero bits that does not complete a codeword is taken as padding.
func (tr codeTrie) decode(payload Bits, tolerant bool) ([]byte, error) {
	out := make([]byte, 0, len(payload)/2+1)
	cur, start := int32(0), 0
	for i, b := range payload {
		next := tr[cur].child[b]
		if next == 0 {
			if tolerant && isPadding(payload[start:]) {
				return out, nil
			}
			return nil, fmt.Errorf("%w: at payload bit %d", ErrUnknownCodeword, start)
		}
		if tr[next].leaf {
			out = append(out, tr[next].sym)
			cur, start = 0, i+1
			continue
		}
		cur = next
	}
	if cur != 0 {
		if tolerant && isPadding(payload[start:]) {
			return out, nil
		}
		return nil, fmt.Errorf("%w: %d bits left at payload bit %d", ErrTrailingBits, len(payload)-start, start)
	}
	return out, nil
}

// isPadding reports whether rest could be zero padding added by Pack.
func isPadding(rest Bits) bool {
	return len(rest) < 8 && bytes.IndexByte(rest, 1) < 0
}
