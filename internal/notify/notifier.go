// Package notify delivers claim status-change messages to chat backends.
// Delivery is fire-and-forget: the claim lifecycle never blocks on it.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Notification is a status-change message for a claim.
type Notification struct {
	// Channel is the operator-configured target channel identifier
	Channel string

	ClaimCode string
	Status    string
	Ship      string
	Payout    string
	Recipient string // character or username the claim belongs to
	Reason    string // rejection reason, when applicable
}

// Text renders the notification as a single chat message.
func (n Notification) Text() string {
	msg := fmt.Sprintf("SRP request %s (%s) is now %s", n.ClaimCode, n.Ship, n.Status)
	if n.Recipient != "" {
		msg += " for " + n.Recipient
	}
	if n.Payout != "" {
		msg += ", payout " + n.Payout
	}
	if n.Reason != "" {
		msg += "\nReason: " + n.Reason
	}
	return msg
}

// BackendError wraps a delivery failure of a single backend. The dispatcher
// treats it as "try the next backend"; any other error type aborts dispatch.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s notification failed: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Notifier is one outbound notification backend.
type Notifier interface {
	// Name returns the backend name ("discord", "slack")
	Name() string

	// Send delivers the notification, returning a *BackendError on failure
	Send(ctx context.Context, n Notification) error
}

// Dispatcher tries an ordered list of backends, stopping at the first
// success. The order is fixed at startup from configuration.
type Dispatcher struct {
	backends []Notifier
}

// NewDispatcher creates a dispatcher over the given backends, in order.
func NewDispatcher(backends ...Notifier) *Dispatcher {
	return &Dispatcher{backends: backends}
}

// Enabled returns true if at least one backend is registered.
func (d *Dispatcher) Enabled() bool {
	return d != nil && len(d.backends) > 0
}

// Dispatch delivers the notification through the first backend that
// succeeds. A backend's own BackendError moves on to the next backend;
// any other error aborts. An empty channel disables dispatch silently.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	if !d.Enabled() || n.Channel == "" {
		return nil
	}

	var lastErr error
	for _, backend := range d.backends {
		err := backend.Send(ctx, n)
		if err == nil {
			return nil
		}

		var be *BackendError
		if !errors.As(err, &be) {
			return err
		}

		log.Printf("Notify: backend %s failed, trying next: %v", backend.Name(), err)
		lastErr = err
	}

	return lastErr
}
