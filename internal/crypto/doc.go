// Package crypto wraps the four cryptographic primitives the topic state
// machine is built on: Ed25519 signing, Ed25519-to-Curve25519 conversion,
// an asymmetric NaCl box between an ephemeral key and a recipient's
// converted signing key, and a symmetric NaCl secretbox. Nothing here
// knows about frames or participants; it only ever sees bytes and keys.
package crypto
