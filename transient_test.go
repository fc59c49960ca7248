//go:build linux || darwin

package mq

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{unix.EAGAIN, true},
		{unix.EWOULDBLOCK, true}, // alias of EAGAIN
		{unix.EINTR, true},
		{unix.EINPROGRESS, true},
		{unix.EALREADY, true},
		{unix.EISCONN, true},
		{unix.ECONNREFUSED, false},
		{unix.EPIPE, false},
		{errors.New("not an errno"), false},
	}
	for _, c := range cases {
		if got := isTransient(c.err); got != c.want {
			t.Errorf("isTransient(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
