// Package wire encodes and decodes the three frame types that travel over
// the untrusted transport: Message ('m'), Introduction ('i'), and Reply
// ('r'). Frames are not length-prefixed; the transport is assumed to
// deliver them already delimited. Decoding never performs cryptographic
// work itself — it only validates shape and dispatches on the type tag.
package wire
