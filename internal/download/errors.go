package download

import (
	"context"
	"errors"
	"net"
)

// Sentinel errors for the download package.
var (
	// ErrRateLimited is returned when the remote answers 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound is returned when no job exists under the given ID.
	ErrNotFound = errors.New("download not found")

	// ErrShutdown is returned for work rejected because the queue is
	// shutting down.
	ErrShutdown = errors.New("queue shutting down")

	// ErrInvalidFilename is returned for custom filenames that are empty
	// or attempt path traversal.
	ErrInvalidFilename = errors.New("invalid filename")
)

// Retryable reports whether a transfer failure is transient and worth
// another attempt. Only rate limiting and timeouts qualify; everything
// else fails the job immediately. Classification is by error type, never
// by message text.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
