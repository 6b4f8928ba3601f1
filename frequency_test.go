package webcompress

import "testing"

func TestHistogramCount(t *testing.T) {
	h := Count([]byte("aaaabbbccd"))
	want := map[byte]int{'a': 4, 'b': 3, 'c': 2, 'd': 1}
	for sym, n := range want {
		if h[sym] != n {
			t.Fatalf("count[%q]=%d want %d", sym, h[sym], n)
		}
	}
	if h.Distinct() != 4 {
		t.Fatalf("distinct=%d want 4", h.Distinct())
	}
	if h.Total() != 10 {
		t.Fatalf("total=%d want 10", h.Total())
	}
	if got := string(h.Symbols()); got != "abcd" {
		t.Fatalf("symbols=%q want %q", got, "abcd")
	}
}

func TestHistogramEmpty(t *testing.T) {
	h := Count(nil)
	if h.Distinct() != 0 || h.Total() != 0 || len(h.Symbols()) != 0 {
		t.Fatalf("empty text produced counts: %d distinct, %d total", h.Distinct(), h.Total())
	}
}

func TestHistogramAllBytes(t *testing.T) {
	data := make([]byte, 512)
	for i := range data {
		data[i] = byte(i)
	}
	h := Count(data)
	if h.Distinct() != 256 {
		t.Fatalf("distinct=%d want 256", h.Distinct())
	}
	for sym, n := range h {
		if n != 2 {
			t.Fatalf("count[%d]=%d want 2", sym, n)
		}
	}
}
