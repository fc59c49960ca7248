package mq

import "encoding/binary"

// headerSize is the fixed on-wire header size: 5 bytes magic, 2 bytes
// padding, 1 byte type, 8 bytes big-endian length.
const headerSize = 16

// headerMagic begins every valid framed message.
const headerMagic = "DSmsg"

// MsgType is the tagged variant of a [Msg]. The wire format reserves a
// full byte for it; only MsgBuffer is defined today.
type MsgType uint8

const (
	// MsgBuffer is the only message variant currently defined: an opaque
	// byte buffer.
	MsgBuffer MsgType = 0
)

// encodeHeader renders the 16-byte wire header for a message of the given
// type and payload length. The two padding bytes are written as zero.
func encodeHeader(t MsgType, length uint64) [headerSize]byte {
	var hdr [headerSize]byte
	copy(hdr[0:5], headerMagic)
	// hdr[5:7] left zero: padding, reserved for future protocol versions.
	hdr[7] = byte(t)
	binary.BigEndian.PutUint64(hdr[8:16], length)
	return hdr
}

// decodeHeader parses a full 16-byte header. It returns ok == false if the
// magic bytes don't match, in which case the caller must poison the
// connection rather than trust type/length.
func decodeHeader(hdr []byte) (t MsgType, length uint64, ok bool) {
	if len(hdr) != headerSize || string(hdr[0:5]) != headerMagic {
		return 0, 0, false
	}
	t = MsgType(hdr[7])
	length = binary.BigEndian.Uint64(hdr[8:16])
	return t, length, true
}
