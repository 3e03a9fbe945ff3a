// Package notify is the best-effort out-of-band alert channel. Delivery is
// never guaranteed and a failed send must never block whatever raised it.
package notify

// Notifier delivers a short alert to the user outside the app.
type Notifier interface {
	Notify(title, body string) error
}

// Nop discards every alert. Used when no channel is configured.
type Nop struct{}

func (Nop) Notify(title, body string) error { return nil }
