//go:build linux || darwin

package mq

import (
	"time"

	"golang.org/x/sys/unix"
)

// Wait drives every member Endpoint until at least one readiness set is
// non-empty or deadline passes. Unlike [Endpoint.Wait], a member landing
// in StateError counts toward readiness immediately — the error set is
// included in the early-exit check, matching the reference's
// mq_poll_wait (which sums acceptable+readable+error members before
// sleeping again). Returns the number of ready members, 0 on timeout, or
// -1 if handling a member's revents this cycle hit the same CONNECTED
// I/O-fatal case [Endpoint.handleRevents] reports for the single-Endpoint
// case (processing of remaining members that cycle is skipped, exactly as
// in the reference).
func (p *PollSet) Wait(deadline time.Time) (int, error) {
	type slot struct {
		ep                 *Endpoint
		readable, writable bool
	}
	slots := make([]slot, 0, len(p.members))
	for ep := range p.members {
		slots = append(slots, slot{ep: ep})
	}
	pfds := make([]unix.PollFd, len(slots))

	for {
		for i := range slots {
			wantR, wantW := slots[i].ep.desiredEvents()
			if fatal := slots[i].ep.handleRevents(slots[i].readable, slots[i].writable); fatal {
				return -1, nil
			}
			pfds[i] = unix.PollFd{Fd: int32(slots[i].ep.lk.fd()), Events: encodePollEvents(wantR, wantW)}
		}

		if ready := len(p.acceptableSet) + len(p.readableSet) + len(p.errorSet); ready > 0 {
			return ready, nil
		}
		if deadlineExpired(deadline) {
			return 0, nil
		}

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
		for i := range slots {
			slots[i].readable, slots[i].writable = decodePollEvents(pfds[i].Revents)
		}
	}
}
