package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.Endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", event.Endpoint))
	}
	if event.DeviceName != "" {
		attrs = append(attrs, slog.String("device_name", event.DeviceName))
	}

	// Add type-specific attributes
	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Command != nil:
		attrs = append(attrs, slog.String("command", event.Command.Name.String()))
		if event.Command.Speed != nil {
			attrs = append(attrs, slog.Int("speed", *event.Command.Speed))
		}
		if event.Command.Heading != nil {
			attrs = append(attrs, slog.Int("heading", *event.Command.Heading))
		}
		if event.Command.Reverse != nil {
			attrs = append(attrs, slog.Bool("reverse", *event.Command.Reverse))
		}
		if event.Command.X != nil {
			attrs = append(attrs, slog.Int("x", *event.Command.X))
		}
		if event.Command.Y != nil {
			attrs = append(attrs, slog.Int("y", *event.Command.Y))
		}
		if event.Command.R != nil {
			attrs = append(attrs, slog.Int("r", *event.Command.R))
		}
		if event.Command.G != nil {
			attrs = append(attrs, slog.Int("g", *event.Command.G))
		}
		if event.Command.B != nil {
			attrs = append(attrs, slog.Int("b", *event.Command.B))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
