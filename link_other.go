//go:build !linux && !darwin

package mq

func serveLink(addr string, port int, backlog int) (link, error) {
	return nil, ErrUnsupportedPlatform
}

func connectLink(addr string, port int) (link, error) {
	return nil, ErrUnsupportedPlatform
}
