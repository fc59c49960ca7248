package mq

// link is the minimal non-blocking stream-socket abstraction the core
// consumes from its environment (spec §6): non-blocking serve/connect,
// non-blocking accept, a raw file-descriptor accessor for polling, and
// close. The core never parses addresses beyond what's needed to build
// one of these.
type link interface {
	fd() int
	read(buf []byte) (int, error)
	write(buf []byte) (int, error)
	acceptNonblock() (link, error)
	// pendingError performs the standard SO_ERROR query used to resolve an
	// in-progress non-blocking connect once the socket reports writable.
	pendingError() error
	localAddr() (ip string, port int, err error)
	close() error
}
