package ports

import "context"

// LoginLimiter tracks failed login attempts per username so repeated
// failures inside a window can be rejected before any password work is done.
type LoginLimiter interface {
	// IsLocked reports whether the username has exceeded the failure budget.
	IsLocked(ctx context.Context, username string) (bool, error)
	// RecordFailure counts one failed attempt and returns the running total.
	RecordFailure(ctx context.Context, username string) (int, error)
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
