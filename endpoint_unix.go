//go:build linux || darwin

package mq

import (
	"time"

	"golang.org/x/sys/unix"
)

// Wait drives this Endpoint alone until it becomes ready (a received Msg
// or accepted child is available) or deadline passes. It implements the
// same drive cycle as [PollSet.Wait] for a single member: recompute
// desired events, handle the previous iteration's revents, check
// readiness, poll.
//
// The return value mirrors the reference semantics exactly, asymmetry
// included: Wait returns 1 only when recvReady or acceptReady is
// populated — NOT merely because the Endpoint reached StateError. A lone
// Endpoint (not in a [PollSet]) that fails to connect only becomes
// visibly erroneous once the caller next inspects [Endpoint.State]; the
// asymmetric behavior is why most callers should prefer a [PollSet],
// whose Wait does count the error set. It returns -1 only for the
// specific CONNECTED-state I/O fatal case [Endpoint.handleRevents]
// reports.
func (e *Endpoint) Wait(deadline time.Time) (int, error) {
	var readable, writable bool
	for {
		wantR, wantW := e.desiredEvents()
		if fatal := e.handleRevents(readable, writable); fatal {
			return -1, nil
		}
		if e.recvReady != nil || e.acceptReady != nil {
			return 1, nil
		}
		if deadlineExpired(deadline) {
			return 0, nil
		}

		pfds := []unix.PollFd{{Fd: int32(e.lk.fd()), Events: encodePollEvents(wantR, wantW)}}
		n, err := unix.Poll(pfds, pollTimeoutMillis(time.Until(deadline)))
		if err != nil {
			if isEINTR(err) {
				return 0, nil
			}
			return 0, err
		}
		if n == 0 {
			return 0, nil
		}
		readable, writable = decodePollEvents(pfds[0].Revents)
	}
}
