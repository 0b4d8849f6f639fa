package notifier

// Notifier represents the delivery channel for composed notification
// messages. Destinations are opaque handles resolved from the category
// configuration.
type Notifier interface {
	// Send delivers text to a destination handle
	Send(destination string, text string) error

	// Close closes the notifier connection
	Close() error
}
