package usecase

import "time"

const (
	// DefaultStoreTimeout is the maximum duration for a single ledger
	// store operation. The write lock is held across store calls, so a
	// stalled store would otherwise block the wallet indefinitely.
	DefaultStoreTimeout = 10 * time.Second
)
