package out

import "context"

// Notifier delivers one reminder. Implementations must not block the caller
// beyond their own timeout.
type Notifier interface {
	Notify(ctx context.Context, goal string, elapsedMin int) error
}
