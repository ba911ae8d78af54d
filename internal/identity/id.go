package identity

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Size is the length, in bytes, of a participant ID.
const Size = 16

// ID is a short, collision-resistant identifier for a participant, derived
// from its Ed25519 signing public key. It is never stored independently of
// that key; it is always recomputed by FromSigningPublicKey.
type ID [Size]byte

// FromSigningPublicKey derives the participant ID for a 32-byte Ed25519
// verification key: the first 16 bytes of its BLAKE2b-128 digest.
func FromSigningPublicKey(signingPub []byte) (ID, error) {
	if len(signingPub) != ed25519.PublicKeySize {
		return ID{}, fmt.Errorf("identity: signing public key must be %d bytes, got %d", ed25519.PublicKeySize, len(signingPub))
	}
	h, err := blake2b.New(Size, nil)
	if err != nil {
		return ID{}, fmt.Errorf("identity: blake2b-128: %w", err)
	}
	h.Write(signingPub)

	var id ID
	copy(id[:], h.Sum(nil))
	return id, nil
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}
