package webcompress

// Histogram counts how often each byte occurs in a text.
// The zero value is an empty histogram.
type Histogram [256]int

// Count builds a Histogram from text in a single pass.
func Count(text []byte) *Histogram {
	var h Histogram
	for _, b := range text {
		h[b]++
	}
	return &h
}

// Distinct returns the number of symbols with a non-zero count.
func (h *Histogram) Distinct() int {
	n := 0
	for _, c := range h {
		if c > 0 {
			n++
		}
	}
	return n
}

// Total returns the sum of all counts, which equals the length of the
// counted text.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Symbols returns the symbols with a non-zero count in ascending order.
func (h *Histogram) Symbols() []byte {
	out := make([]byte, 0, 16)
	for sym, c := range h {
		if c > 0 {
			out = append(out, byte(sym))
		}
	}
	return out
}
