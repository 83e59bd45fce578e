// Package scan discovers nearby BOLT Plus toys.
//
// A toy is recognized by two advertisement properties: its local name starts
// with "SB-" and its advertised services include the Sphero GATT service
// UUID. Anything else seen during discovery is dropped.
//
// Results are ordered strongest signal first, which in practice means
// nearest first. Each result carries an approximate distance derived from
// RSSI via a log-distance path loss fit; BLE advertisements rarely include a
// calibrated transmit power, so the estimate is an ordering hint, not a
// measurement.
//
// Scanning is a convenience around Transport.Discover and is independent of
// the session layer: a caller may connect to any endpoint string without
// scanning first.
package scan
