// Package command builds the framed control packets understood by a
// Sphero BOLT Plus: wake, drive, main LED color, and matrix pixel
// color.
//
// Builders never fail. Every numeric argument is clamped to its valid
// range before encoding — out-of-range input is silently corrected,
// never rejected. This mirrors the behavior of the device's existing
// drivers and must be preserved for compatibility with calling code
// that relies on it.
//
// The package is pure: builders return complete frames ready to be
// written to the device's API characteristic, and perform no I/O.
package command
