package wire

import (
	"errors"

	"stringphone/internal/crypto"
	"stringphone/internal/identity"
)

// Type tags, one ASCII byte each.
const (
	TagMessage      byte = 'm'
	TagIntroduction byte = 'i'
	TagReply        byte = 'r'
)

const (
	signingPublicKeySize  = 32
	encryptionKeySize     = 32
	encryptedTopicKeySize = crypto.BoxNonceSize + crypto.TopicKeySize + crypto.BoxOverhead // 72

	// MinMessageSize is the smallest a Message frame can be: tag, signature,
	// sender ID, and a secretbox of the empty plaintext.
	MinMessageSize = 1 + crypto.SignatureSize + identity.Size + crypto.SecretBoxNonceSize + crypto.SecretBoxOverhead
	// IntroductionSize is the fixed size of an Introduction frame.
	IntroductionSize = 1 + signingPublicKeySize + crypto.SignatureSize + encryptionKeySize
	// ReplySize is the fixed size of a Reply frame.
	ReplySize = 1 + identity.Size + encryptedTopicKeySize + encryptionKeySize + signingPublicKeySize
)

// ErrMalformed is returned when a frame is too short, carries an unknown
// type tag where one is required, or has a field whose length does not
// match the wire layout. It is always raised before any cryptographic work.
var ErrMalformed = errors.New("wire: malformed frame")

// Tag returns the type tag of frame, or ErrMalformed if frame is empty.
func Tag(frame []byte) (byte, error) {
	if len(frame) < 1 {
		return 0, ErrMalformed
	}
	return frame[0], nil
}

// Message is a decoded Message frame.
type Message struct {
	Signature  [crypto.SignatureSize]byte
	SenderID   identity.ID
	Ciphertext []byte
}

// SignedBody returns the bytes the Message signature covers: sender ID
// concatenated with the ciphertext, in frame order.
func (m *Message) SignedBody() []byte {
	body := make([]byte, 0, identity.Size+len(m.Ciphertext))
	body = append(body, m.SenderID[:]...)
	body = append(body, m.Ciphertext...)
	return body
}

// EncodeMessage assembles a Message frame: tag || signature || sender_id ||
// ciphertext.
func EncodeMessage(signature [crypto.SignatureSize]byte, senderID identity.ID, ciphertext []byte) []byte {
	out := make([]byte, 0, MinMessageSize-crypto.SecretBoxNonceSize-crypto.SecretBoxOverhead+len(ciphertext))
	out = append(out, TagMessage)
	out = append(out, signature[:]...)
	out = append(out, senderID[:]...)
	out = append(out, ciphertext...)
	return out
}

// DecodeMessage validates and unpacks a Message frame. It never looks at a
// trust set or verifies anything cryptographic.
func DecodeMessage(frame []byte) (*Message, error) {
	if len(frame) < MinMessageSize || frame[0] != TagMessage {
		return nil, ErrMalformed
	}
	var m Message
	off := 1
	copy(m.Signature[:], frame[off:off+crypto.SignatureSize])
	off += crypto.SignatureSize
	copy(m.SenderID[:], frame[off:off+identity.Size])
	off += identity.Size
	m.Ciphertext = append([]byte(nil), frame[off:]...)
	return &m, nil
}

// Introduction is a decoded Introduction frame.
type Introduction struct {
	SigningPublicKey   [signingPublicKeySize]byte
	Signature          [crypto.SignatureSize]byte
	EphemeralPublicKey [encryptionKeySize]byte
}

// EncodeIntroduction assembles an Introduction frame: tag ||
// sender_signing_pub || signature || ephemeral_enc_pub. The signature
// covers only ephemeral_enc_pub.
func EncodeIntroduction(signingPub [signingPublicKeySize]byte, signature [crypto.SignatureSize]byte, ephemeralPub [encryptionKeySize]byte) []byte {
	out := make([]byte, 0, IntroductionSize)
	out = append(out, TagIntroduction)
	out = append(out, signingPub[:]...)
	out = append(out, signature[:]...)
	out = append(out, ephemeralPub[:]...)
	return out
}

// DecodeIntroduction validates and unpacks an Introduction frame.
func DecodeIntroduction(frame []byte) (*Introduction, error) {
	if len(frame) != IntroductionSize || frame[0] != TagIntroduction {
		return nil, ErrMalformed
	}
	var intro Introduction
	off := 1
	copy(intro.SigningPublicKey[:], frame[off:off+signingPublicKeySize])
	off += signingPublicKeySize
	copy(intro.Signature[:], frame[off:off+crypto.SignatureSize])
	off += crypto.SignatureSize
	copy(intro.EphemeralPublicKey[:], frame[off:off+encryptionKeySize])
	return &intro, nil
}

// Reply is a decoded Reply frame.
type Reply struct {
	RecipientID       identity.ID
	EncryptedTopicKey [encryptedTopicKeySize]byte
	EncryptionKey     [encryptionKeySize]byte
	SigningKey        [signingPublicKeySize]byte
}

// EncodeReply assembles a Reply frame: tag || recipient_id ||
// encrypted_topic_key || encryption_key || signing_key.
func EncodeReply(recipientID identity.ID, encryptedTopicKey [encryptedTopicKeySize]byte, encryptionKey [encryptionKeySize]byte, signingKey [signingPublicKeySize]byte) []byte {
	out := make([]byte, 0, ReplySize)
	out = append(out, TagReply)
	out = append(out, recipientID[:]...)
	out = append(out, encryptedTopicKey[:]...)
	out = append(out, encryptionKey[:]...)
	out = append(out, signingKey[:]...)
	return out
}

// DecodeReply validates and unpacks a Reply frame.
func DecodeReply(frame []byte) (*Reply, error) {
	if len(frame) != ReplySize || frame[0] != TagReply {
		return nil, ErrMalformed
	}
	var r Reply
	off := 1
	copy(r.RecipientID[:], frame[off:off+identity.Size])
	off += identity.Size
	copy(r.EncryptedTopicKey[:], frame[off:off+encryptedTopicKeySize])
	off += encryptedTopicKeySize
	copy(r.EncryptionKey[:], frame[off:off+encryptionKeySize])
	off += encryptionKeySize
	copy(r.SigningKey[:], frame[off:off+signingPublicKeySize])
	return &r, nil
}
