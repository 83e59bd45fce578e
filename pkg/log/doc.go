// Package log provides structured protocol logging for the toy driver.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, packet, session).
// It is separate from operational logging - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	sess := session.New(tr, session.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/sbp/session.sbplog")
//	sess := session.New(tr, session.WithLogger(fl))
//
//	// Both: use MultiLogger
//	sess := session.New(tr, session.WithLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	)))
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: Raw frame bytes (FrameEvent)
//   - Packet: Decoded commands (CommandEvent)
//   - Session: State changes (StateChangeEvent)
//
// Errors at any layer have a dedicated event type.
//
// # File Format
//
// Log files use CBOR encoding with .sbplog extension. The sbp-log CLI tool
// provides viewing, filtering, and export capabilities.
package log
