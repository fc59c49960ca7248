package mq

// Msg is an owned byte buffer plus a small tagged header. It is a
// transient value shuttled across the Endpoint/caller boundary: sending
// transfers ownership into the Endpoint, receiving transfers ownership out
// to the caller.
//
// A Msg must not be retained by more than one owner at a time — once
// passed to [Endpoint.Send], or returned from [Endpoint.Recv], the previous
// owner must not touch it again.
type Msg struct {
	typ MsgType
	buf []byte
}

// WrapBuffer copies b into a fresh MsgBuffer-typed Msg. The caller retains
// ownership of b; the Msg holds an independent copy.
func WrapBuffer(b []byte) *Msg {
	buf := make([]byte, len(b))
	copy(buf, b)
	return &Msg{typ: MsgBuffer, buf: buf}
}

// Type returns the message's tagged variant.
func (m *Msg) Type() MsgType {
	return m.typ
}

// Len returns the payload length in bytes.
func (m *Msg) Len() int {
	return len(m.buf)
}

// UnwrapBuffer returns the underlying byte slice for a MsgBuffer-typed Msg,
// transferring ownership to the caller. For any other type it returns
// (nil, false) and leaves the Msg untouched.
//
// After a successful call the Msg must not be used again; its internal
// buffer reference is cleared, so a repeated call (or a call after
// [DeleteMsg]) returns (nil, false).
func (m *Msg) UnwrapBuffer() ([]byte, bool) {
	if m == nil || m.typ != MsgBuffer || m.buf == nil {
		return nil, false
	}
	out := m.buf
	m.buf = nil
	return out, true
}

// DeleteMsg releases a Msg's resources. It tolerates a nil argument so
// callers can delete unconditionally after a failed or partial operation.
func DeleteMsg(m *Msg) {
	if m == nil {
		return
	}
	m.buf = nil
}
