package webcompress

import (
	"bytes"
	"fmt"
)

// padCountBits is the width of the pad count written by FramingLength.
const padCountBits = 3

// Framing selects how the dictionary and the end of the payload are
// delimited.
type Framing uint8

const (
	// FramingLength writes an entry count and a length per codeword, then the
	// number of padding bits. Neither the dictionary nor the payload has to
	// be searched for a delimiter, so every text with at least one symbol
	// can be encoded.
	FramingLength Framing = iota
	// FramingSentinel writes the delimited dictionary, sentinel and payload
	// with no length information, as older archives do.
	FramingSentinel
)

// String returns the framing name.
func (f Framing) String() string {
	switch f {
	case FramingLength:
		return "length"
	case FramingSentinel:
		return "sentinel"
	default:
		return fmt.Sprintf("Framing(%d)", uint8(f))
	}
}

// Config holds codec settings.
type Config struct {
	Framing Framing // Payload framing (default FramingLength)
}

// Option is a functional option for configuring a Codec.
type Option func(*Config)

// WithFraming selects the payload framing. Encoder and decoder must agree.
func WithFraming(f Framing) Option {
	return func(c *Config) {
		c.Framing = f
	}
}

// Codec encodes and decodes texts. A Codec holds only its configuration and
// is safe for concurrent use; every call builds its own tree and table.
type Codec struct {
	config Config
}

// NewCodec creates a codec with the given options.
func NewCodec(opts ...Option) *Codec {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Codec{config: cfg}
}

// Framing returns the framing used by c.
func (c *Codec) Framing() Framing { return c.config.Framing }

// Encode compresses text with a dictionary built from text alone.
//
// It returns ErrEmptyInput for an empty text. Under FramingSentinel it also
// returns ErrSingletonAlphabet for a single distinct symbol, and
// ErrAmbiguousFraming when a codeword would be mistaken for a delimiter or
// the zero padding would decode as a symbol.
func (c *Codec) Encode(text []byte) ([]byte, error) {
	if len(text) == 0 {
		return nil, ErrEmptyInput
	}
	hist := Count(text)
	switch c.config.Framing {
	case FramingLength, FramingSentinel:
	default:
		return nil, fmt.Errorf("%w: unknown framing %v", ErrFraming, c.config.Framing)
	}
	if c.config.Framing == FramingSentinel && hist.Distinct() == 1 {
		return nil, ErrSingletonAlphabet
	}
	tree, err := BuildTree(hist)
	if err != nil {
		return nil, err
	}
	table := NewCodeTable(tree)

	payloadLen := 0
	for sym, n := range hist {
		payloadLen += n * len(table.codes[sym])
	}
	bits := make(Bits, 0, table.encodedLen()+len(Sentinel)+padCountBits+payloadLen+7)

	if c.config.Framing == FramingLength {
		bits = table.appendCounted(bits)
		total := len(bits) + padCountBits + payloadLen
		bits = bits.appendUint(uint64((8-total%8)%8), padCountBits)
		bits = appendPayload(bits, table, text)
		return Pack(bits), nil
	}

	bits = table.AppendBits(bits)
	dictEnd := len(bits)
	bits = append(bits, Sentinel...)
	bits = appendPayload(bits, table, text)
	if err := checkFraming(bits, dictEnd, table); err != nil {
		return nil, err
	}
	if err := checkPadding(table, (8-len(bits)%8)%8); err != nil {
		return nil, err
	}
	return Pack(bits), nil
}

func appendPayload(bits Bits, table *CodeTable, text []byte) Bits {
	for _, b := range text {
		bits = append(bits, table.codes[b]...)
	}
	return bits
}

// checkFraming verifies that a decoder finds the sentinel where the
// dictionary ends and reads back the same table.
func checkFraming(bits Bits, dictEnd int, table *CodeTable) error {
	if at := bytes.Index(bits, Sentinel); at != dictEnd {
		return fmt.Errorf("%w: sentinel found at bit %d, dictionary ends at %d", ErrAmbiguousFraming, at, dictEnd)
	}
	parsed, err := ParseCodeTable(bits[:dictEnd])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAmbiguousFraming, err)
	}
	if !parsed.Equal(table) {
		return fmt.Errorf("%w: dictionary does not read back", ErrAmbiguousFraming)
	}
	return nil
}

// checkPadding verifies that pad zero bits after the payload cannot complete
// a codeword. The decoder is back at the root when the payload ends, so only
// a codeword made of at most pad zeros can be reached.
func checkPadding(table *CodeTable, pad int) error {
	for sym, code := range table.codes {
		if code != nil && len(code) <= pad && bytes.IndexByte(code, 1) < 0 {
			return fmt.Errorf("%w: %d padding bits decode as %#02x", ErrAmbiguousFraming, pad, sym)
		}
	}
	return nil
}

// Decode restores the text encoded in data.
//
// It returns ErrFraming when the sentinel or pad count is missing or
// invalid, ErrMalformedEntry for a dictionary that does not parse, and
// ErrTrailingBits or ErrUnknownCodeword for a payload that is not a
// sequence of codewords.
func (c *Codec) Decode(data []byte) ([]byte, error) {
	bits := Unpack(data)
	switch c.config.Framing {
	case FramingLength:
		return decodeCounted(bits)
	case FramingSentinel:
		return decodeSentinel(bits)
	default:
		return nil, fmt.Errorf("%w: unknown framing %v", ErrFraming, c.config.Framing)
	}
}

func decodeCounted(bits Bits) ([]byte, error) {
	table, n, err := readCounted(bits)
	if err != nil {
		return nil, err
	}
	trie, err := table.trie()
	if err != nil {
		return nil, err
	}
	payload := bits[n:]
	if len(payload) < padCountBits {
		return nil, fmt.Errorf("%w: missing pad count", ErrFraming)
	}
	pad := int(payload[:padCountBits].value())
	payload = payload[padCountBits:]
	if pad > len(payload) {
		return nil, fmt.Errorf("%w: pad count %d exceeds %d payload bits", ErrFraming, pad, len(payload))
	}
	if bytes.IndexByte(payload[len(payload)-pad:], 1) >= 0 {
		return nil, fmt.Errorf("%w: non-zero padding", ErrFraming)
	}
	return trie.decode(payload[:len(payload)-pad], false)
}

func decodeSentinel(bits Bits) ([]byte, error) {
	at := bytes.Index(bits, Sentinel)
	if at < 0 {
		return nil, fmt.Errorf("%w: sentinel not found in %d bits", ErrFraming, len(bits))
	}
	table, err := ParseCodeTable(bits[:at])
	if err != nil {
		return nil, err
	}
	trie, err := table.trie()
	if err != nil {
		return nil, err
	}
	return trie.decode(bits[at+len(Sentinel):], true)
}

// EncodeString is like Encode for a string input.
func (c *Codec) EncodeString(s string) ([]byte, error) {
	return c.Encode([]byte(s))
}

// DecodeString is like Decode but returns the text as a string.
func (c *Codec) DecodeString(data []byte) (string, error) {
	text, err := c.Decode(data)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// Encode compresses text with a codec configured by opts.
func Encode(text []byte, opts ...Option) ([]byte, error) {
	return NewCodec(opts...).Encode(text)
}

// Decode restores text from data with a codec configured by opts.
func Decode(data []byte, opts ...Option) ([]byte, error) {
	return NewCodec(opts...).Decode(data)
}
