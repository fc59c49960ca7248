//go:build linux || darwin

package mq

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isTransient reports whether err is one of the errnos that mean "try
// again later" on a non-blocking socket syscall. These never transition an
// Endpoint to ERROR; every other errno is fatal.
func isTransient(err error) bool {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	// EWOULDBLOCK and EAGAIN are the same value on linux and darwin; only
	// one may appear in a switch case list.
	case unix.EINTR, unix.EAGAIN, unix.EINPROGRESS, unix.EALREADY, unix.EISCONN:
		return true
	default:
		return false
	}
}
