// Package mq provides a non-blocking, length-prefixed message transport
// over stream sockets, together with a multiplexing poll-set that lets a
// single goroutine drive many connections without a goroutine per
// connection.
//
// # Architecture
//
// Three types, leaf first:
//
//   - [Msg] is an owned byte buffer plus a small tagged header, shuttled
//     across the Endpoint/caller boundary.
//   - [Endpoint] owns one socket's lifecycle (server, in-progress client,
//     connected client, or error), its outbound queue, and its in-progress
//     inbound message.
//   - [PollSet] aggregates readiness across a group of Endpoints into three
//     sets (acceptable, readable, errored), each entry carrying a
//     caller-supplied opaque tag.
//
// # Wire format
//
// Every message on the wire is a 16-byte header followed by its payload:
//
//	offset  size  field
//	  0      5    magic = ASCII "DSmsg"
//	  5      2    padding, sender writes zero, receiver ignores
//	  7      1    type (currently only MsgBuffer)
//	  8      8    length, uint64 big-endian, payload byte count
//	 16    len    payload bytes
//
// # Concurrency
//
// The scheduling model is single-threaded and cooperative: one goroutine
// owns an Endpoint and the PollSet it belongs to. Neither type does any
// internal locking. The only blocking call anywhere in the package is the
// sleep inside [Endpoint.Wait] / [PollSet.Wait]; every other method is
// synchronous and returns without blocking on I/O.
//
// # Platform support
//
// The socket and readiness-polling layer is implemented directly against
// non-blocking BSD sockets via golang.org/x/sys/unix, targeting linux and
// darwin. Other platforms get a stub that returns [ErrUnsupportedPlatform].
package mq
