package topic

import "errors"

// Error taxonomy. Every operation's failures are one of these, surfaced to
// the caller unchanged: the core performs no retry, no logging, and no
// silent recovery beyond the two documented soft-return paths (decode's
// ignore_untrusted, and parse_reply's already-set-key / wrong-recipient
// cases).
var (
	// ErrMalformed means a frame was too short, carried an unrecognised
	// type tag, or had a field whose length did not match the wire
	// layout. Raised before any cryptographic work.
	ErrMalformed = errors.New("topic: malformed frame")

	// ErrIntroductionReceived signals that Decode was handed an
	// Introduction frame; the caller is expected to call ConstructReply.
	ErrIntroductionReceived = errors.New("topic: received an introduction")

	// ErrReplyReceived signals that Decode was handed a Reply frame; the
	// caller is expected to call ParseReply.
	ErrReplyReceived = errors.New("topic: received an introduction reply")

	// ErrUntrustedKey means the sender's ID was not found in the trust
	// set and ignore_untrusted was false.
	ErrUntrustedKey = errors.New("topic: verification key for participant not found")

	// ErrBadSignature means a signature check failed against a key the
	// caller trusts, or a key the frame itself binds (an Introduction's
	// self-signed ephemeral key, a Reply's encryption key).
	ErrBadSignature = errors.New("topic: signature verification failed")

	// ErrNoKey means the operation requires the topic key and it has not
	// yet been set.
	ErrNoKey = errors.New("topic: topic key is not set")

	// ErrBadCiphertext means authenticated decryption failed.
	ErrBadCiphertext = errors.New("topic: ciphertext authentication failed")

	// ErrNoPendingIntro means a Reply arrived but no Introduction is
	// currently pending.
	ErrNoPendingIntro = errors.New("topic: no introduction is pending")
)
