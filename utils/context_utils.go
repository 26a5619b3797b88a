package utils

import "golang.org/x/net/context"

// CheckContextDone reports whether ctx was cancelled or timed out, without blocking.
func CheckContextDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
