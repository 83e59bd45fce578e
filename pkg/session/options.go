package session

import (
	"github.com/sbp-robotics/sbp-go/pkg/log"
)

// config holds the session configuration.
type config struct {
	id      string
	name    string
	logger  log.Logger
	onState func(oldState, newState State)
}

// Option is a functional option for configuring a Session.
type Option func(*config)

// WithLogger sets a protocol event logger for the session.
//
// Example:
//
//	fl, _ := log.NewFileLogger("session.sbplog")
//	sess := session.New(tr, session.WithLogger(fl))
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithID sets the session identifier used in log events.
// Defaults to a random UUID.
func WithID(id string) Option {
	return func(c *config) {
		if id != "" {
			c.id = id
		}
	}
}

// WithDeviceName sets the advertised device name recorded in log
// events (e.g., "SB-9A3F").
func WithDeviceName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithStateCallback sets a callback invoked after every state change.
// The callback runs synchronously on the goroutine driving the
// transition; it must not call back into the session.
func WithStateCallback(fn func(oldState, newState State)) Option {
	return func(c *config) {
		c.onState = fn
	}
}
