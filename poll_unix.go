//go:build linux || darwin

package mq

import (
	"errors"
	"math"
	"time"

	"golang.org/x/sys/unix"
)

// encodePollEvents builds a poll(2) events mask from the interest computed
// by [Endpoint.desiredEvents].
func encodePollEvents(wantReadable, wantWritable bool) int16 {
	var ev int16
	if wantReadable {
		ev |= unix.POLLIN
	}
	if wantWritable {
		ev |= unix.POLLOUT
	}
	return ev
}

// decodePollEvents folds POLLHUP/POLLERR/POLLNVAL into both readable and
// writable, since either could be the condition that unblocks the stalled
// state-machine transition (a refused connect typically reports all three
// together, not just POLLOUT).
func decodePollEvents(revents int16) (readable, writable bool) {
	bad := revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0
	readable = bad || revents&unix.POLLIN != 0
	writable = bad || revents&unix.POLLOUT != 0
	return
}

// pollTimeoutMillis converts a remaining duration to a poll(2) timeout,
// always rounding up so a sub-millisecond remainder still blocks briefly
// rather than spinning.
func pollTimeoutMillis(d time.Duration) int {
	ms := int64((d + time.Millisecond - 1) / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	if ms > math.MaxInt32 {
		ms = math.MaxInt32
	}
	return int(ms)
}

// isEINTR reports whether err is the poll(2) "interrupted by signal" errno,
// which a drive loop treats as a timeout rather than a fatal poll failure.
func isEINTR(err error) bool {
	var errno unix.Errno
	return errors.As(err, &errno) && errno == unix.EINTR
}
