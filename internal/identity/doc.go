// Package identity derives the stable, short participant identifier used
// on the wire in place of a full signing public key.
package identity
