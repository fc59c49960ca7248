//go:build linux || darwin

package mq

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// unixLink is the non-blocking BSD-socket backed [link] implementation: a
// full socket lifecycle covering serve, connect, accept, and the SO_ERROR
// query used to resolve a pending connect.
type unixLink struct {
	fdNum int
}

func (l *unixLink) fd() int { return l.fdNum }

func (l *unixLink) read(buf []byte) (int, error) {
	return unix.Read(l.fdNum, buf)
}

func (l *unixLink) write(buf []byte) (int, error) {
	return unix.Write(l.fdNum, buf)
}

func (l *unixLink) close() error {
	return unix.Close(l.fdNum)
}

func (l *unixLink) pendingError() error {
	errno, err := unix.GetsockoptInt(l.fdNum, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if errno == 0 {
		return nil
	}
	return unix.Errno(errno)
}

func (l *unixLink) localAddr() (string, int, error) {
	sa, err := unix.Getsockname(l.fdNum)
	if err != nil {
		return "", 0, err
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return net.IP(a.Addr[:]).String(), a.Port, nil
	case *unix.SockaddrInet6:
		return net.IP(a.Addr[:]).String(), a.Port, nil
	default:
		return "", 0, fmt.Errorf("mq: unsupported socket address type %T", sa)
	}
}

func (l *unixLink) acceptNonblock() (link, error) {
	nfd, _, err := unix.Accept(l.fdNum)
	if err != nil {
		return nil, err
	}
	if err := setNonblockCloexec(nfd); err != nil {
		_ = unix.Close(nfd)
		return nil, err
	}
	return &unixLink{fdNum: nfd}, nil
}

// setNonblockCloexec puts fd into non-blocking mode and sets close-on-exec,
// using fcntl so the same code path works identically on linux and darwin
// (unlike the SOCK_NONBLOCK/SOCK_CLOEXEC socket(2) flags, which are a
// Linux-only extension).
func setNonblockCloexec(fd int) error {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return err
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags|unix.O_NONBLOCK); err != nil {
		return err
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		return err
	}
	return nil
}

func resolveIP(addr string) (net.IP, error) {
	if ip := net.ParseIP(addr); ip != nil {
		return ip, nil
	}
	ipaddr, err := net.ResolveIPAddr("ip", addr)
	if err != nil {
		return nil, err
	}
	return ipaddr.IP, nil
}

func domainFor(ip net.IP) int {
	if ip.To4() != nil {
		return unix.AF_INET
	}
	return unix.AF_INET6
}

func toSockaddr(ip net.IP, port int) (unix.Sockaddr, error) {
	if ip4 := ip.To4(); ip4 != nil {
		sa := &unix.SockaddrInet4{Port: port}
		copy(sa.Addr[:], ip4)
		return sa, nil
	}
	ip16 := ip.To16()
	if ip16 == nil {
		return nil, fmt.Errorf("mq: invalid ip address %q", ip)
	}
	sa := &unix.SockaddrInet6{Port: port}
	copy(sa.Addr[:], ip16)
	return sa, nil
}

func newStreamSocket(domain int) (int, error) {
	fd, err := unix.Socket(domain, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}
	if err := setNonblockCloexec(fd); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

// serveLink binds and listens non-blockingly on addr:port. port == 0 binds
// an ephemeral port; query it back via [unixLink.localAddr].
func serveLink(addr string, port int, backlog int) (link, error) {
	ip, err := resolveIP(addr)
	if err != nil {
		return nil, err
	}
	fd, err := newStreamSocket(domainFor(ip))
	if err != nil {
		return nil, err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	sa, err := toSockaddr(ip, port)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	if err := unix.Listen(fd, backlog); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return &unixLink{fdNum: fd}, nil
}

// connectLink initiates a non-blocking connect to addr:port. It returns
// immediately once the connect is issued; EINPROGRESS (and friends) are not
// treated as failure, per spec — resolution happens later via
// [unixLink.pendingError] once the socket polls writable.
func connectLink(addr string, port int) (link, error) {
	ip, err := resolveIP(addr)
	if err != nil {
		return nil, err
	}
	fd, err := newStreamSocket(domainFor(ip))
	if err != nil {
		return nil, err
	}
	sa, err := toSockaddr(ip, port)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	if err := unix.Connect(fd, sa); err != nil && !isTransient(err) {
		_ = unix.Close(fd)
		return nil, err
	}
	return &unixLink{fdNum: fd}, nil
}
