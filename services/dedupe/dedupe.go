package dedupe

import (
	"time"
)

// Store represents the persistent set of already-surfaced course URLs.
// Keys only ever accumulate: once a URL has been recorded it stays
// recorded for the lifetime of the store, so a course is never
// notified twice.
type Store interface {
	// IsNew reports whether the URL has not been surfaced before
	IsNew(url string) bool

	// Record marks a URL as surfaced. Re-recording an existing URL
	// only refreshes its timestamp.
	Record(url string, seenAt time.Time)

	// Size returns the number of recorded URLs
	Size() int

	// Load reads the store from its backing document; a missing
	// document yields an empty store
	Load() error

	// Persist writes the full store back to its backing document.
	// Called once per run, after all candidates are processed.
	Persist() error
}
