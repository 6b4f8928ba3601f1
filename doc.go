// Package webcompress provides a static Huffman codec for whole text blobs.
//
// # Overview
//
// Every call to Encode builds a fresh code for its input: symbol counts are
// collected, a strict binary tree is grown by repeatedly merging the two
// lightest nodes, and each leaf's root-to-leaf path becomes its codeword
// (left is 0, right is 1). The dictionary travels with the payload, so an
// encoded buffer is self-describing and needs nothing else to decode.
//
// Symbols are single bytes. There is no streaming, adaptive, or partial
// decode mode.
//
// # Format
//
// The whole bit string is packed MSB-first into bytes and zero-padded to a
// byte boundary. Two framings exist.
//
// FramingLength (default) writes
//
//	[8-bit entry count - 1]
//	([8-bit symbol][8-bit codeword length][codeword bits])*
//	[3-bit pad count][payload]
//
// where the payload is the concatenation of the codewords of the input in
// order. The decoder reads exactly as many bits as the lengths announce and
// stops at the pad count, so no codeword can be confused with framing and
// padding bits never turn into extra symbols.
//
// FramingSentinel reads and writes archives produced by older tools. Each
// dictionary entry is
//
//	[8-bit symbol][01111111110][codeword bits][011111111110]
//
// and the dictionary is followed by the 16-bit sentinel 1000000000000001
// and the payload. Encode refuses texts whose codewords would spell one of
// these patterns or whose padding would complete a codeword; Decode
// tolerates trailing padding only while it fails to complete a codeword.
//
// # Basic Usage
//
//	data, err := webcompress.Encode([]byte("aaaabbbccd"))
//	if err != nil {
//	    return err
//	}
//	text, err := webcompress.Decode(data)
//
//	// Legacy archives
//	c := webcompress.NewCodec(webcompress.WithFraming(webcompress.FramingSentinel))
//	text, err = c.Decode(old)
//
// # Determinism
//
// Ties in the merge queue are broken by symbol value and the dictionary is
// written in ascending symbol order, so encoding the same input twice yields
// identical bytes.
//
// The package keeps no shared state; Encode and Decode are safe to call from
// multiple goroutines.
package webcompress
