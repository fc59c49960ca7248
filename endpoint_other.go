//go:build !linux && !darwin

package mq

import "time"

// Wait is unavailable on platforms without a non-blocking socket backend.
func (e *Endpoint) Wait(deadline time.Time) (int, error) {
	return 0, ErrUnsupportedPlatform
}
