package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// BoxNonceSize is the size, in bytes, of a NaCl box nonce.
const BoxNonceSize = 24

// BoxOverhead is the Poly1305 authenticator size NaCl box appends.
const BoxOverhead = box.Overhead

// GenerateEphemeralBoxKeyPair generates a fresh Curve25519 keypair for use
// as the ephemeral side of a box, such as the one carried in an
// Introduction frame.
func GenerateEphemeralBoxKeyPair() (publicKey, privateKey *[32]byte, err error) {
	publicKey, privateKey, err = box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("crypto: generate ephemeral box keypair: %w", err)
	}
	return publicKey, privateKey, nil
}

// BoxSeal encrypts plaintext to recipientPub using the sender's privateKey,
// drawing a fresh random nonce. The output is nonce || tag || ciphertext,
// the NaCl box layout (the Poly1305 tag leads the sealed box).
func BoxSeal(recipientPub, privateKey *[32]byte, plaintext []byte) ([]byte, error) {
	var nonce [BoxNonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("crypto: box nonce: %w", err)
	}
	sealed := box.Seal(nil, plaintext, &nonce, recipientPub, privateKey)
	out := make([]byte, 0, BoxNonceSize+len(sealed))
	out = append(out, nonce[:]...)
	out = append(out, sealed...)
	return out, nil
}

// BoxOpen authenticates and decrypts a blob produced by BoxSeal, addressed
// from senderPub to the holder of privateKey.
func BoxOpen(senderPub, privateKey *[32]byte, sealed []byte) ([]byte, error) {
	if len(sealed) < BoxNonceSize+BoxOverhead {
		return nil, fmt.Errorf("crypto: sealed box too short")
	}
	var nonce [BoxNonceSize]byte
	copy(nonce[:], sealed[:BoxNonceSize])
	plaintext, ok := box.Open(nil, sealed[BoxNonceSize:], &nonce, senderPub, privateKey)
	if !ok {
		return nil, fmt.Errorf("crypto: box authentication failed")
	}
	return plaintext, nil
}
