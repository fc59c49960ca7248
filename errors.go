package mq

import "errors"

// Misuse errors, returned synchronously and never latched on an Endpoint.
var (
	// ErrAlreadyMember is returned by [PollSet.Add] when the Endpoint is
	// already a member of that exact PollSet.
	ErrAlreadyMember = errors.New("mq: endpoint already a member of this poll set")

	// ErrForeignPollSet is returned by [PollSet.Add] when the Endpoint
	// belongs to a different PollSet. An Endpoint must be removed from its
	// current PollSet before it can be added to another.
	ErrForeignPollSet = errors.New("mq: endpoint already belongs to a different poll set")

	// ErrNotMember is returned by [PollSet.Remove] when the Endpoint is not
	// a member of that PollSet.
	ErrNotMember = errors.New("mq: endpoint is not a member of this poll set")
)

// Protocol and platform errors.
var (
	// ErrBadMagic is latched on an Endpoint when a received header's magic
	// bytes don't match the wire format. The connection is poisoned; no
	// further bytes are read from it.
	ErrBadMagic = errors.New("mq: bad message header magic")

	// ErrUnsupportedPlatform is returned by the link constructors on
	// platforms without a non-blocking socket backend.
	ErrUnsupportedPlatform = errors.New("mq: unsupported platform")

	// ErrMessageTooLarge is latched on an Endpoint when a received header
	// advertises a payload length beyond the Endpoint's configured
	// [WithMaxMessageLength]. The connection is poisoned; no further bytes
	// are read from it.
	ErrMessageTooLarge = errors.New("mq: message length exceeds configured maximum")
)
