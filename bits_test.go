package webcompress

import (
	"bytes"
	"testing"
)

func TestParseBits(t *testing.T) {
	b, err := ParseBits("1011")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !b.Equal(Bits{1, 0, 1, 1}) || b.String() != "1011" {
		t.Fatalf("got %v (%s)", []byte(b), b)
	}
	if _, err := ParseBits("10x1"); err == nil {
		t.Fatalf("expected error for invalid bit")
	}
	if Sentinel.String() != "1000000000000001" ||
		FieldDelimiter.String() != "01111111110" ||
		EntryDelimiter.String() != "011111111110" {
		t.Fatalf("framing patterns changed")
	}
}

func TestAppendUint(t *testing.T) {
	b := Bits(nil).appendUint('a', symbolBits)
	if b.String() != "01100001" {
		t.Fatalf("appendUint = %s", b)
	}
	if b.value() != 'a' {
		t.Fatalf("value = %d", b.value())
	}
	if got := Bits(nil).appendUint(5, padCountBits).String(); got != "101" {
		t.Fatalf("3-bit 5 = %s", got)
	}
}

func TestPack(t *testing.T) {
	cases := []struct {
		bits string
		want []byte
	}{
		{"", nil},
		{"1", []byte{0x80}},
		{"01100001", []byte{'a'}},
		{"0110000101", []byte{'a', 0x40}},
		{"1111111111111111", []byte{0xff, 0xff}},
	}
	for _, tc := range cases {
		b, _ := ParseBits(tc.bits)
		got := Pack(b)
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("Pack(%s) = %x want %x", tc.bits, got, tc.want)
		}
	}
}

func TestPackBound(t *testing.T) {
	for n := 0; n <= 67; n++ {
		bits := make(Bits, n)
		for i := range bits {
			bits[i] = byte((i*7 + n) % 3 % 2)
		}
		packed := Pack(bits)
		if len(packed) != PackedLen(n) || len(packed) != (n+7)/8 {
			t.Fatalf("n=%d: packed %d bytes want %d", n, len(packed), (n+7)/8)
		}
		unpacked := Unpack(packed)
		if len(unpacked)%8 != 0 || len(unpacked) < n {
			t.Fatalf("n=%d: unpacked %d bits", n, len(unpacked))
		}
		if !unpacked[:n].Equal(bits) {
			t.Fatalf("n=%d: prefix mismatch %s vs %s", n, unpacked[:n], bits)
		}
		if bytes.IndexByte(unpacked[n:], 1) >= 0 {
			t.Fatalf("n=%d: padding is not zero: %s", n, unpacked[n:])
		}
	}
}

func TestUnpack(t *testing.T) {
	got := Unpack([]byte{0xa5, 0x01})
	if got.String() != "1010010100000001" {
		t.Fatalf("Unpack = %s", got)
	}
	if len(Unpack(nil)) != 0 {
		t.Fatalf("Unpack(nil) not empty")
	}
}
