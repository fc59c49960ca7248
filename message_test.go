package mq

import (
	"bytes"
	"testing"
)

func TestWrapUnwrapBuffer(t *testing.T) {
	src := []byte("hello")
	m := WrapBuffer(src)
	if m.Type() != MsgBuffer {
		t.Fatalf("Type() = %v, want MsgBuffer", m.Type())
	}
	if m.Len() != len(src) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(src))
	}

	// WrapBuffer copies; mutating src must not affect the Msg.
	src[0] = 'H'
	out, ok := m.UnwrapBuffer()
	if !ok {
		t.Fatalf("UnwrapBuffer: ok = false, want true")
	}
	if !bytes.Equal(out, []byte("hello")) {
		t.Errorf("UnwrapBuffer() = %q, want %q", out, "hello")
	}
}

func TestUnwrapBufferOnceOnly(t *testing.T) {
	m := WrapBuffer([]byte("x"))
	if _, ok := m.UnwrapBuffer(); !ok {
		t.Fatalf("first UnwrapBuffer: ok = false")
	}
	if _, ok := m.UnwrapBuffer(); ok {
		t.Errorf("second UnwrapBuffer: ok = true, want false after ownership transferred")
	}
}

func TestUnwrapBufferNilMsg(t *testing.T) {
	var m *Msg
	if _, ok := m.UnwrapBuffer(); ok {
		t.Errorf("UnwrapBuffer on nil Msg: ok = true, want false")
	}
}

func TestDeleteMsgNilSafe(t *testing.T) {
	DeleteMsg(nil)
	m := WrapBuffer([]byte("y"))
	DeleteMsg(m)
	if m.Len() != 0 {
		t.Errorf("Len() after DeleteMsg = %d, want 0", m.Len())
	}
}

func TestWrapBufferEmpty(t *testing.T) {
	m := WrapBuffer(nil)
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
	out, ok := m.UnwrapBuffer()
	if !ok || len(out) != 0 {
		t.Errorf("UnwrapBuffer() = (%v, %v), want (empty, true)", out, ok)
	}
}
