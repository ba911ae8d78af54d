package topic

import (
	"crypto/ed25519"
	"fmt"

	"stringphone/internal/crypto"
	"stringphone/internal/identity"
	"stringphone/internal/trust"
	"stringphone/internal/wire"
)

// Participant carries all state for one party in a topic: its long-term
// signing identity, the (optional) shared topic key, the set of trusted
// verification keys, and at most one pending ephemeral keypair from an
// in-flight introduction. It is not safe for concurrent use.
type Participant struct {
	seed []byte
	priv ed25519.PrivateKey
	pub  [32]byte
	id   identity.ID

	topicKey []byte

	trust *trust.Set

	pendingEphemeralPub  *[32]byte
	pendingEphemeralPriv *[32]byte
}

// New constructs a Participant. A nil seed is replaced with a freshly
// generated one; a nil topicKey leaves the participant in the
// discovery-eligible state (Encode and ConstructReply will fail with
// ErrNoKey until one is set via ParseReply or supplied here).
func New(seed, topicKey []byte) (*Participant, error) {
	if seed == nil {
		generated, err := crypto.GenerateSigningKeySeed()
		if err != nil {
			return nil, err
		}
		seed = generated
	}
	if len(seed) != crypto.SigningKeySeedSize {
		return nil, fmt.Errorf("topic: signing key seed must be %d bytes, got %d", crypto.SigningKeySeedSize, len(seed))
	}

	priv, err := crypto.PrivateKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	pubBytes, err := crypto.PublicKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	id, err := identity.FromSigningPublicKey(pubBytes)
	if err != nil {
		return nil, err
	}

	if topicKey != nil && len(topicKey) != crypto.TopicKeySize {
		return nil, fmt.Errorf("topic: topic key must be %d bytes, got %d", crypto.TopicKeySize, len(topicKey))
	}

	p := &Participant{
		seed:  append([]byte(nil), seed...),
		priv:  priv,
		id:    id,
		trust: trust.NewSet(),
	}
	copy(p.pub[:], pubBytes)
	if topicKey != nil {
		p.topicKey = append([]byte(nil), topicKey...)
	}
	return p, nil
}

// PublicKey returns the participant's long-term Ed25519 verification key.
func (p *Participant) PublicKey() [32]byte { return p.pub }

// ID returns the participant's 16-byte ID, derived from PublicKey.
func (p *Participant) ID() identity.ID { return p.id }

// HasTopicKey reports whether the topic key is set.
func (p *Participant) HasTopicKey() bool { return p.topicKey != nil }

// TopicKey returns a copy of the topic key, or nil if it is not yet set.
func (p *Participant) TopicKey() []byte {
	if p.topicKey == nil {
		return nil
	}
	return append([]byte(nil), p.topicKey...)
}

// Seed returns a copy of the participant's long-term signing key seed.
// Callers wishing to resume this identity across a restart must persist
// it alongside the topic key and trust set.
func (p *Participant) Seed() []byte {
	return append([]byte(nil), p.seed...)
}

// AddParticipant adds signingPub to the trust set.
func (p *Participant) AddParticipant(signingPub []byte) error {
	_, err := p.trust.Add(signingPub)
	return err
}

// RemoveParticipant removes id from the trust set. No-op if absent.
func (p *Participant) RemoveParticipant(id identity.ID) {
	p.trust.Remove(id)
}

// Participants returns a copy of the trusted id-to-key mapping.
func (p *Participant) Participants() map[identity.ID][]byte {
	return p.trust.Participants()
}

// Encode encrypts and signs plaintext for broadcast.
func (p *Participant) Encode(plaintext []byte) ([]byte, error) {
	if p.topicKey == nil {
		return nil, ErrNoKey
	}
	ciphertext, err := crypto.SecretBoxSeal(p.topicKey, plaintext)
	if err != nil {
		return nil, err
	}

	body := make([]byte, 0, identity.Size+len(ciphertext))
	body = append(body, p.id[:]...)
	body = append(body, ciphertext...)

	sig, err := crypto.Sign(p.seed, body)
	if err != nil {
		return nil, err
	}
	var sigArr [crypto.SignatureSize]byte
	copy(sigArr[:], sig)

	return wire.EncodeMessage(sigArr, p.id, ciphertext), nil
}

// Decode dispatches frame by its type tag. A Message is authenticated
// (unless naive) and decrypted. An Introduction or Reply is never decoded
// here: it fails with ErrIntroductionReceived / ErrReplyReceived so the
// caller can invoke ConstructReply / ParseReply. naive skips both trust
// lookup and signature verification. ignore_untrusted, when the sender is
// unknown, returns (nil, nil) instead of ErrUntrustedKey; it never
// suppresses ErrBadSignature, since a trusted ID with a bad signature is
// an attack, not mere unfamiliarity.
func (p *Participant) Decode(frame []byte, naive, ignoreUntrusted bool) ([]byte, error) {
	tag, err := wire.Tag(frame)
	if err != nil {
		return nil, ErrMalformed
	}

	switch tag {
	case wire.TagIntroduction:
		return nil, ErrIntroductionReceived
	case wire.TagReply:
		return nil, ErrReplyReceived
	case wire.TagMessage:
		return p.decodeMessage(frame, naive, ignoreUntrusted)
	default:
		return nil, ErrMalformed
	}
}

func (p *Participant) decodeMessage(frame []byte, naive, ignoreUntrusted bool) ([]byte, error) {
	m, err := wire.DecodeMessage(frame)
	if err != nil {
		return nil, ErrMalformed
	}

	if !naive {
		signingPub, ok := p.trust.Lookup(m.SenderID)
		if !ok {
			if ignoreUntrusted {
				return nil, nil
			}
			return nil, ErrUntrustedKey
		}
		if !crypto.Verify(signingPub, m.SignedBody(), m.Signature[:]) {
			return nil, ErrBadSignature
		}
	}

	if p.topicKey == nil {
		return nil, ErrNoKey
	}

	plaintext, err := crypto.SecretBoxOpen(p.topicKey, m.Ciphertext)
	if err != nil {
		return nil, ErrBadCiphertext
	}
	return plaintext, nil
}

// ConstructIntro generates a fresh ephemeral Curve25519 keypair, overwriting
// any previously pending one, and returns an Introduction frame binding it
// to this participant's long-term signing key.
func (p *Participant) ConstructIntro() ([]byte, error) {
	ephPub, ephPriv, err := crypto.GenerateEphemeralBoxKeyPair()
	if err != nil {
		return nil, err
	}
	p.pendingEphemeralPub = ephPub
	p.pendingEphemeralPriv = ephPriv

	sig, err := crypto.Sign(p.seed, ephPub[:])
	if err != nil {
		return nil, err
	}
	var sigArr [crypto.SignatureSize]byte
	copy(sigArr[:], sig)

	return wire.EncodeIntroduction(p.pub, sigArr, *ephPub), nil
}

// ConstructReply answers an Introduction with the topic key, encrypted to
// the introducer's ephemeral key. It is the only barrier against a spoofed
// ephemeral key, and is mandatory even though the replier has no prior
// trust relationship with the introducer.
func (p *Participant) ConstructReply(introFrame []byte) ([]byte, error) {
	if p.topicKey == nil {
		return nil, ErrNoKey
	}

	intro, err := wire.DecodeIntroduction(introFrame)
	if err != nil {
		return nil, ErrMalformed
	}

	if !crypto.Verify(intro.SigningPublicKey[:], intro.EphemeralPublicKey[:], intro.Signature[:]) {
		return nil, ErrBadSignature
	}

	recipientID, err := identity.FromSigningPublicKey(intro.SigningPublicKey[:])
	if err != nil {
		return nil, err
	}

	replierCurvePriv, err := crypto.SigningPrivateKeyToCurve25519(p.priv)
	if err != nil {
		return nil, err
	}
	replierCurvePub, err := crypto.SigningPublicKeyToCurve25519(p.pub[:])
	if err != nil {
		return nil, err
	}

	sealed, err := crypto.BoxSeal(&intro.EphemeralPublicKey, replierCurvePriv, p.topicKey)
	if err != nil {
		return nil, err
	}
	var sealedArr [crypto.BoxNonceSize + crypto.TopicKeySize + crypto.BoxOverhead]byte
	copy(sealedArr[:], sealed)

	return wire.EncodeReply(recipientID, sealedArr, *replierCurvePub, p.pub), nil
}

// ParseReply consumes a Reply frame. It returns true only when the reply
// was addressed to this participant and yielded a new topic key: an
// already-set topic key, or a reply addressed to someone else, return
// false without mutating state (neither is an error).
func (p *Participant) ParseReply(replyFrame []byte) (bool, error) {
	reply, err := wire.DecodeReply(replyFrame)
	if err != nil {
		return false, ErrMalformed
	}

	if p.topicKey != nil {
		return false, nil
	}
	if p.pendingEphemeralPriv == nil {
		return false, ErrNoPendingIntro
	}
	if reply.RecipientID != p.id {
		return false, nil
	}

	derivedCurvePub, err := crypto.SigningPublicKeyToCurve25519(reply.SigningKey[:])
	if err != nil {
		return false, err
	}
	if *derivedCurvePub != reply.EncryptionKey {
		return false, ErrBadSignature
	}

	topicKey, err := crypto.BoxOpen(&reply.EncryptionKey, p.pendingEphemeralPriv, reply.EncryptedTopicKey[:])
	if err != nil {
		return false, ErrBadCiphertext
	}

	p.topicKey = topicKey
	p.pendingEphemeralPub = nil
	p.pendingEphemeralPriv = nil
	return true, nil
}
