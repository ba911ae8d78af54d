// Package trust holds the flat, in-memory mapping from participant ID to
// signing public key a Participant uses to verify incoming messages. It
// performs no cryptographic work and enforces no ordering, expiry, or
// revocation policy — those are explicitly out of scope.
package trust
