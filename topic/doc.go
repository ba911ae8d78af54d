// Package topic implements the Participant state machine: the public
// surface of the library. A Participant encodes and decodes messages under
// a shared topic key, and runs the two-message discovery handshake that
// lets a newcomer obtain that key from an existing member. It is
// synchronous, single-threaded, and holds no transport of its own — it
// only ever produces and consumes opaque frames.
package topic
