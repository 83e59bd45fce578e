// Package packet implements the framed binary packet format spoken by
// Sphero BOLT Plus robots over their API characteristic.
//
// Every command travels in a single frame:
//
//	┌──────┬────────────────────┬─────────────┬──────────┬──────┐
//	│ SOP  │ header             │ payload     │ checksum │ EOP  │
//	│ 0x8D │ command-specific   │ per command │ 1 byte   │ 0xD8 │
//	└──────┴────────────────────┴─────────────┴──────────┴──────┘
//
// The checksum covers header and payload only (SOP and EOP excluded):
// the bytes are summed modulo 256 and the low byte is inverted. It is an
// integrity check against transmission corruption, not a cryptographic
// digest.
//
// The codec is deliberately agnostic to where the header ends and the
// payload begins; both Frame and Parse treat the body as one opaque byte
// sequence. Command semantics live in the command package.
//
// All functions in this package are pure: no I/O, no state.
package packet
