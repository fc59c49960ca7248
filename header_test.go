package mq

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	hdr := encodeHeader(MsgBuffer, 12345)
	typ, length, ok := decodeHeader(hdr[:])
	if !ok {
		t.Fatalf("decodeHeader: ok = false, want true")
	}
	if typ != MsgBuffer {
		t.Errorf("typ = %v, want MsgBuffer", typ)
	}
	if length != 12345 {
		t.Errorf("length = %d, want 12345", length)
	}
}

func TestHeaderZeroLength(t *testing.T) {
	hdr := encodeHeader(MsgBuffer, 0)
	_, length, ok := decodeHeader(hdr[:])
	if !ok || length != 0 {
		t.Errorf("decodeHeader(zero-length) = (%d, %v), want (0, true)", length, ok)
	}
}

func TestHeaderPaddingBytesZero(t *testing.T) {
	hdr := encodeHeader(MsgBuffer, 7)
	if hdr[5] != 0 || hdr[6] != 0 {
		t.Errorf("padding bytes = %d,%d, want 0,0", hdr[5], hdr[6])
	}
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	hdr := encodeHeader(MsgBuffer, 7)
	hdr[0] = 'X'
	if _, _, ok := decodeHeader(hdr[:]); ok {
		t.Errorf("decodeHeader: ok = true for corrupted magic, want false")
	}
}

func TestDecodeHeaderWrongSize(t *testing.T) {
	if _, _, ok := decodeHeader([]byte("too short")); ok {
		t.Errorf("decodeHeader: ok = true for short input, want false")
	}
}
