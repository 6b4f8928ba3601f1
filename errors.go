package webcompress

import "errors"

var (
	// ErrEmptyInput is returned when encoding a zero-length text.
	ErrEmptyInput = errors.New("webcompress: empty input")
	// ErrSingletonAlphabet is returned when a text with a single distinct
	// symbol is encoded with FramingSentinel, where its 1-bit codeword
	// cannot be told apart from padding.
	ErrSingletonAlphabet = errors.New("webcompress: single-symbol alphabet")
	// ErrFraming indicates the sentinel or the pad count is missing or invalid.
	ErrFraming = errors.New("webcompress: framing error")
	// ErrMalformedEntry indicates a dictionary entry that does not parse
	// into exactly one symbol and one codeword, or a dictionary that is not
	// a prefix-free code.
	ErrMalformedEntry = errors.New("webcompress: malformed dictionary entry")
	// ErrTrailingBits indicates the payload ended in the middle of a codeword.
	ErrTrailingBits = errors.New("webcompress: trailing bits do not match a codeword")
	// ErrUnknownCodeword indicates payload bits that no codeword starts with.
	ErrUnknownCodeword = errors.New("webcompress: unknown codeword")
	// ErrAmbiguousFraming is returned by Encode under FramingSentinel when a
	// codeword happens to form a delimiter or sentinel pattern, or when the
	// zero padding would decode as an extra symbol.
	ErrAmbiguousFraming = errors.New("webcompress: codeword collides with framing pattern")
)
