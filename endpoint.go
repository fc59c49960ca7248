package mq

import "time"

// State is an Endpoint's socket lifecycle position.
type State int

const (
	// StateServer is a listening Endpoint produced by [Serve].
	StateServer State = iota
	// StateInProgress is a Connect that has not yet resolved.
	StateInProgress
	// StateConnected is a bidirectional, ready-to-transfer socket.
	StateConnected
	// StateError is a terminal state: the link is poisoned, queues drained.
	StateError
)

func (s State) String() string {
	switch s {
	case StateServer:
		return "server"
	case StateInProgress:
		return "in-progress"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// pendingSend is a Msg mid-transmission: header plus body write cursors.
type pendingSend struct {
	msg    *Msg
	hdr    [headerSize]byte
	hdrPos int
	bufPos int
}

// pendingRecv is a Msg being assembled off the wire.
type pendingRecv struct {
	hdr          [headerSize]byte
	hdrPos       int
	parsedHeader bool
	typ          MsgType
	length       uint64
	buf          []byte
	bufPos       int
}

// Endpoint is one socket's lifecycle: its send queue, in-progress receive,
// and link to at most one [PollSet]. A single concrete type serves all
// three roles — server, in-progress client, connected client — selected by
// State; callers drive transitions by calling [Serve]/[Connect] and then
// repeatedly [Endpoint.Wait].
//
// Endpoint does no internal locking: the scheduling model is
// single-threaded and cooperative. Concurrent calls on the same Endpoint
// from multiple goroutines are undefined behavior.
type Endpoint struct {
	lk     link
	state  State
	err    error
	logger Logger

	maxMessageLength uint64

	sendQueue   []*Msg
	sendCurrent *pendingSend

	recvCurrent *pendingRecv
	recvReady   *Msg

	acceptReady *Endpoint

	pollGroup *PollSet
}

// Serve binds and listens non-blockingly on addr:port, returning a SERVER
// Endpoint. port == 0 binds an ephemeral port, retrievable via
// [Endpoint.Addr].
func Serve(addr string, port int, opts ...EndpointOption) (*Endpoint, error) {
	cfg := resolveEndpointOptions(opts)
	lk, err := serveLink(addr, port, cfg.backlog)
	if err != nil {
		return nil, err
	}
	return &Endpoint{lk: lk, state: StateServer, logger: cfg.logger, maxMessageLength: cfg.maxMessageLength}, nil
}

// Connect initiates a non-blocking connect to addr:port, returning an
// INPROGRESS Endpoint immediately. The connect resolves to CONNECTED or
// ERROR on a later [Endpoint.Wait] (or via its [PollSet], if added to one).
func Connect(addr string, port int, opts ...EndpointOption) (*Endpoint, error) {
	cfg := resolveEndpointOptions(opts)
	lk, err := connectLink(addr, port)
	if err != nil {
		return nil, err
	}
	return &Endpoint{lk: lk, state: StateInProgress, logger: cfg.logger, maxMessageLength: cfg.maxMessageLength}, nil
}

// State returns the Endpoint's current lifecycle state.
func (e *Endpoint) State() State {
	return e.state
}

// Err returns the latched error. It is nil unless State is StateError, and
// may still be nil in StateError after a clean peer close.
func (e *Endpoint) Err() error {
	return e.err
}

// Addr returns the local address the underlying socket is bound to. It is
// mainly useful after Serve(addr, 0, ...) to discover the ephemeral port
// the kernel chose.
func (e *Endpoint) Addr() (ip string, port int, err error) {
	if e.lk == nil {
		return "", 0, ErrUnsupportedPlatform
	}
	return e.lk.localAddr()
}

// Send appends msg to the outbound queue, taking ownership. It never
// blocks; queued bytes are written out during later [Endpoint.Wait] calls.
// The caller must not touch msg again after this call.
func (e *Endpoint) Send(msg *Msg) {
	e.sendQueue = append(e.sendQueue, msg)
}

// Recv returns the buffered, fully-received Msg if any, transferring
// ownership to the caller and clearing the Endpoint's readable latch.
func (e *Endpoint) Recv() *Msg {
	out := e.recvReady
	e.recvReady = nil
	if e.pollGroup != nil {
		delete(e.pollGroup.readableSet, e)
	}
	return out
}

// Accept returns the already-accepted child Endpoint if any, transferring
// ownership to the caller and clearing the acceptable latch.
func (e *Endpoint) Accept() *Endpoint {
	out := e.acceptReady
	e.acceptReady = nil
	if e.pollGroup != nil {
		delete(e.pollGroup.acceptableSet, e)
	}
	return out
}

// Close drives the Endpoint to ERROR, releases every owned Msg and the
// underlying link, and removes it from any PollSet. The Endpoint must not
// be used after Close returns.
func (e *Endpoint) Close() error {
	e.die(nil)
	if e.pollGroup != nil {
		delete(e.pollGroup.members, e)
		delete(e.pollGroup.acceptableSet, e)
		delete(e.pollGroup.readableSet, e)
		delete(e.pollGroup.errorSet, e)
		e.pollGroup = nil
	}
	if e.lk == nil {
		return nil
	}
	err := e.lk.close()
	e.lk = nil
	return err
}

// die transitions the Endpoint to ERROR with the given cause (nil means a
// clean close — err stays nil even though State is StateError), releasing
// every Msg it owns. It mirrors the original reference's mq_die: a pending
// accepted child is fully closed too, and any latent readable/acceptable
// membership is dropped immediately (those Msgs no longer exist to serve).
// A clean close (cause == nil) also drops any existing errorSet membership;
// a non-clean one inserts into it here rather than waiting on the next
// drive cycle's [Endpoint.updatePollGroup] — see DESIGN.md.
func (e *Endpoint) die(cause error) {
	e.state = StateError
	e.err = cause

	if e.acceptReady != nil {
		child := e.acceptReady
		e.acceptReady = nil
		_ = child.Close()
	}

	if e.sendCurrent != nil {
		DeleteMsg(e.sendCurrent.msg)
		e.sendCurrent = nil
	}
	for _, m := range e.sendQueue {
		DeleteMsg(m)
	}
	e.sendQueue = nil
	e.recvCurrent = nil
	DeleteMsg(e.recvReady)
	e.recvReady = nil

	if e.pollGroup != nil {
		delete(e.pollGroup.acceptableSet, e)
		delete(e.pollGroup.readableSet, e)
		if cause == nil {
			delete(e.pollGroup.errorSet, e)
		} else {
			e.pollGroup.errorSet[e] = struct{}{}
		}
	}

	if e.logger != nil && e.logger.Enabled(LevelError) {
		e.logger.Log(LogEvent{Level: LevelError, Message: "mq: endpoint entered error state", Err: cause})
	}
}

// desiredEvents computes the read/write interest for the next poll cycle,
// per state.
func (e *Endpoint) desiredEvents() (wantReadable, wantWritable bool) {
	switch e.state {
	case StateServer:
		return e.acceptReady == nil, false
	case StateInProgress:
		return false, true
	case StateConnected:
		wantWritable = e.sendCurrent != nil || len(e.sendQueue) > 0
		wantReadable = e.recvReady == nil
		return
	default: // StateError
		return false, false
	}
}

// handleRevents processes the readiness observed on the *previous* poll
// iteration (harvested here, after this cycle's desired events have
// already been computed — see DESIGN.md on the poll() drive loop). It
// returns fatal == true only for the specific case the reference
// implementation's mq_wait/mq_poll_wait propagate as an immediate failure:
// a CONNECTED Endpoint's send or receive path hitting a non-transient I/O
// error or a zero-byte read/write (peer close).
func (e *Endpoint) handleRevents(readable, writable bool) (fatal bool) {
	switch e.state {
	case StateInProgress:
		if writable {
			if err := e.lk.pendingError(); err != nil {
				e.die(err)
			} else {
				e.state = StateConnected
				if e.logger != nil && e.logger.Enabled(LevelInfo) {
					e.logger.Log(LogEvent{Level: LevelInfo, Message: "mq: connect resolved"})
				}
			}
		}
	case StateConnected:
		if writable {
			if dead, cause := e.driveSend(); dead {
				e.die(cause)
				fatal = true
			}
		}
		if !fatal && readable {
			if dead, cause := e.driveRecv(); dead {
				e.die(cause)
				fatal = true
			}
		}
	case StateServer:
		if readable && e.acceptReady == nil {
			child, err := e.lk.acceptNonblock()
			if err == nil {
				e.acceptReady = &Endpoint{lk: child, state: StateConnected, logger: e.logger, maxMessageLength: e.maxMessageLength}
			} else if !isTransient(err) && e.logger != nil && e.logger.Enabled(LevelWarn) {
				// A readable SERVER whose accept fails outright is an
				// environment anomaly, not a protocol condition; log and
				// keep the Endpoint usable rather than poisoning it.
				e.logger.Log(LogEvent{Level: LevelWarn, Message: "mq: accept failed on readable server", Err: err})
			}
		}
	case StateError:
		// nothing to do
	}
	e.updatePollGroup()
	return fatal
}

// updatePollGroup only ever inserts into the PollSet's readiness sets.
// Entries are removed by Recv/Accept/Remove/Close, and by [Endpoint.die]
// when the Endpoint enters StateError (which can happen inside a drive
// cycle): die drops the readable/acceptable latches along with the Msgs
// and child they stood for. See SPEC_FULL.md §4.
func (e *Endpoint) updatePollGroup() {
	if e.pollGroup == nil {
		return
	}
	if e.state == StateError {
		e.pollGroup.errorSet[e] = struct{}{}
	}
	if e.recvReady != nil {
		e.pollGroup.readableSet[e] = struct{}{}
	}
	if e.acceptReady != nil {
		e.pollGroup.acceptableSet[e] = struct{}{}
	}
}

// driveSend drains the send queue via non-blocking writes until the socket
// reports a transient condition or the queue empties. dead == true means a
// fatal (non-transient) condition was hit; cause may be nil for a
// zero-byte write (treated like peer close).
func (e *Endpoint) driveSend() (dead bool, cause error) {
	for {
		if e.sendCurrent == nil {
			if len(e.sendQueue) == 0 {
				return false, nil
			}
			msg := e.sendQueue[0]
			e.sendQueue = e.sendQueue[1:]
			e.sendCurrent = &pendingSend{msg: msg, hdr: encodeHeader(msg.typ, uint64(len(msg.buf)))}
		}
		snd := e.sendCurrent

		if snd.hdrPos < headerSize {
			n, err := e.lk.write(snd.hdr[snd.hdrPos:headerSize])
			if err != nil {
				if isTransient(err) {
					return false, nil
				}
				return true, err
			}
			if n <= 0 {
				return true, nil
			}
			snd.hdrPos += n
			continue
		}

		if snd.bufPos < len(snd.msg.buf) {
			n, err := e.lk.write(snd.msg.buf[snd.bufPos:])
			if err != nil {
				if isTransient(err) {
					return false, nil
				}
				return true, err
			}
			if n <= 0 {
				return true, nil
			}
			snd.bufPos += n
			continue
		}

		DeleteMsg(snd.msg)
		e.sendCurrent = nil
	}
}

// driveRecv assembles inbound Msgs via non-blocking reads until recvReady
// is occupied, a transient condition halts it, or a fatal condition is
// hit. It loops past a completed Msg to allow pipelined decode of any
// bytes already buffered by the kernel — see SPEC_FULL.md §4.
func (e *Endpoint) driveRecv() (dead bool, cause error) {
	for e.recvReady == nil {
		if e.recvCurrent == nil {
			e.recvCurrent = &pendingRecv{}
		}
		rcv := e.recvCurrent

		if rcv.hdrPos < headerSize {
			n, err := e.lk.read(rcv.hdr[rcv.hdrPos:headerSize])
			if err != nil {
				if isTransient(err) {
					return false, nil
				}
				return true, err
			}
			if n <= 0 {
				return true, nil
			}
			rcv.hdrPos += n
			continue
		}

		if !rcv.parsedHeader {
			typ, length, ok := decodeHeader(rcv.hdr[:])
			if !ok {
				return true, ErrBadMagic
			}
			if e.maxMessageLength > 0 && length > e.maxMessageLength {
				return true, ErrMessageTooLarge
			}
			rcv.typ = typ
			rcv.length = length
			rcv.buf = make([]byte, length)
			rcv.parsedHeader = true
			continue
		}

		if uint64(rcv.bufPos) < rcv.length {
			n, err := e.lk.read(rcv.buf[rcv.bufPos:])
			if err != nil {
				if isTransient(err) {
					return false, nil
				}
				return true, err
			}
			if n <= 0 {
				return true, nil
			}
			rcv.bufPos += n
			continue
		}

		e.recvReady = &Msg{typ: rcv.typ, buf: rcv.buf}
		e.recvCurrent = nil
	}
	return false, nil
}

// deadlineExpired reports whether deadline has already passed.
func deadlineExpired(deadline time.Time) bool {
	return !time.Now().Before(deadline)
}
