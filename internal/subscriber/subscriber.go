package subscriber

import "time"

// Subscriber is a persisted newsletter subscription.
// Email is stored exactly as received after trimming; matching is case-sensitive.
type Subscriber struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}
