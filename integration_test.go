//go:build linux || darwin

package mq

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFragmentedDelivery writes a message's wire bytes one at a time,
// confirming driveRecv correctly resumes across many partial reads instead
// of assuming a header or payload arrives in one read(2) call.
func TestFragmentedDelivery(t *testing.T) {
	srv, cli := newLoopbackPair(t)
	child := acceptChild(t, srv, cli)

	payload := []byte("fragmented payload")
	hdr := encodeHeader(MsgBuffer, uint64(len(payload)))
	wire := append(hdr[:], payload...)

	ul, ok := cli.lk.(*unixLink)
	require.True(t, ok)

	go func() {
		for _, b := range wire {
			_, _ = ul.write([]byte{b})
			time.Sleep(time.Millisecond)
		}
	}()

	var got *Msg
	driveUntil(t, child, 5*time.Second, func() bool {
		if got == nil {
			got = child.Recv()
		}
		return got != nil
	})
	buf, ok := got.UnwrapBuffer()
	require.True(t, ok)
	require.True(t, bytes.Equal(buf, payload))
}

// TestLargePayloadRoundTrip exercises a payload large enough to require
// several read/write syscalls to fully transfer.
func TestLargePayloadRoundTrip(t *testing.T) {
	srv, cli := newLoopbackPair(t)
	child := acceptChild(t, srv, cli)

	payload := bytes.Repeat([]byte("0123456789abcdef"), 1<<16/16) // 64 KiB
	cli.Send(WrapBuffer(payload))

	var got *Msg
	driveTwoUntil(t, child, cli, 5*time.Second, func() bool {
		if got == nil {
			got = child.Recv()
		}
		return got != nil
	})
	buf, ok := got.UnwrapBuffer()
	require.True(t, ok)
	require.True(t, bytes.Equal(buf, payload))
}

// TestPollSetEndToEndEchoServer drives the server side of a small echo
// exchange (listener and accepted connection) through a PollSet, the way a
// real single-threaded server would; the client is driven by its own
// Endpoint.Wait.
func TestPollSetEndToEndEchoServer(t *testing.T) {
	ps := NewPollSet()
	defer ps.Close()

	srv, err := Serve("127.0.0.1", 0)
	require.NoError(t, err)
	defer srv.Close()
	require.NoError(t, ps.Add(srv, "listener"))

	_, port, err := srv.Addr()
	require.NoError(t, err)

	cli, err := Connect("127.0.0.1", port)
	require.NoError(t, err)
	defer cli.Close()

	var child *Endpoint
	deadline := time.Now().Add(3 * time.Second)
	for child == nil && time.Now().Before(deadline) {
		ps.Wait(time.Now().Add(10 * time.Millisecond))
		if _, ok := ps.Acceptable(); ok {
			child = srv.Accept()
		}
		_, _ = cli.Wait(time.Now().Add(10 * time.Millisecond))
	}
	require.NotNil(t, child)
	defer child.Close()
	require.NoError(t, ps.Add(child, "conn"))

	cli.Send(WrapBuffer([]byte("ping")))

	var request *Msg
	deadline = time.Now().Add(3 * time.Second)
	for request == nil && time.Now().Before(deadline) {
		ps.Wait(time.Now().Add(10 * time.Millisecond))
		if _, ok := ps.Readable(); ok {
			request = child.Recv()
		}
	}
	require.NotNil(t, request)
	buf, _ := request.UnwrapBuffer()
	require.Equal(t, "ping", string(buf))

	child.Send(WrapBuffer(buf))

	var reply *Msg
	deadline = time.Now().Add(3 * time.Second)
	for reply == nil && time.Now().Before(deadline) {
		ps.Wait(time.Now().Add(10 * time.Millisecond))
		_, _ = cli.Wait(time.Now().Add(10 * time.Millisecond))
		reply = cli.Recv()
	}
	require.NotNil(t, reply)
	replyBuf, _ := reply.UnwrapBuffer()
	require.Equal(t, "ping", string(replyBuf))
}

func TestWithLoggerOption(t *testing.T) {
	var events []LogEvent
	logger := &recordingLogger{record: func(ev LogEvent) { events = append(events, ev) }}

	srv, err := Serve("127.0.0.1", 0, WithLogger(logger), WithBacklog(16))
	require.NoError(t, err)
	defer srv.Close()

	_, port, err := srv.Addr()
	require.NoError(t, err)

	cli, err := Connect("127.0.0.1", port, WithLogger(logger))
	require.NoError(t, err)
	defer cli.Close()

	driveTwoUntil(t, srv, cli, 2*time.Second, func() bool {
		return cli.State() == StateConnected
	})
	require.NotEmpty(t, events)
}

type recordingLogger struct {
	record func(LogEvent)
}

func (l *recordingLogger) Log(ev LogEvent) { l.record(ev) }
func (l *recordingLogger) Enabled(LogLevel) bool { return true }
