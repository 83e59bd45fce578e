// Package session manages the connection and power lifecycle of a toy.
//
// A Session owns one transport connection and exposes the command API
// (wake, drive, LED control). It tracks connection and power state as a
// single enumeration, so invalid combinations like "awake but
// disconnected" cannot be represented:
//
//	              Connect           link up              wake ok
//	 DISCONNECTED ───────► CONNECTING ───► CONNECTED_ASLEEP ───► CONNECTED_AWAKE
//	      ▲                    │                  │                     │
//	      │               open failed            │                     │
//	      ├────────────────────┘                 │                     │
//	      └─────────────── Disconnect ───────────┴─────────────────────┘
//
// Connect chains into a wake automatically: after the link is up the
// session sends the wake frame, and on success ends in CONNECTED_AWAKE.
// A failed wake write leaves the session in CONNECTED_ASLEEP; callers
// retry with Wake.
//
// Drive, SetMainLED and SetMatrixLED are guarded: they fail with
// ErrNotAwake unless the session is in CONNECTED_AWAKE, and write
// nothing to the transport.
//
// # Concurrency
//
// The command channel is fire-and-forget with no acknowledgment
// correlation, so the session issues at most one write at a time.
// Callers must serialize command calls; state accessors are safe from
// any goroutine.
package session
