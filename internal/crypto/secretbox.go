package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// TopicKeySize is the size, in bytes, of the shared symmetric topic key.
const TopicKeySize = 32

// SecretBoxNonceSize is the size, in bytes, of a NaCl secretbox nonce.
const SecretBoxNonceSize = 24

// SecretBoxOverhead is the Poly1305 authenticator size NaCl secretbox appends.
const SecretBoxOverhead = secretbox.Overhead

// GenerateTopicKey returns a fresh, CSPRNG-sourced topic key.
func GenerateTopicKey() ([]byte, error) {
	key := make([]byte, TopicKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("crypto: generate topic key: %w", err)
	}
	return key, nil
}

// SecretBoxSeal authenticates and encrypts plaintext under topicKey, drawing
// a fresh random nonce for every call. The output is nonce || tag ||
// ciphertext, the NaCl secretbox wire convention (the Poly1305 tag leads
// the sealed box).
func SecretBoxSeal(topicKey, plaintext []byte) ([]byte, error) {
	if len(topicKey) != TopicKeySize {
		return nil, fmt.Errorf("crypto: topic key must be %d bytes, got %d", TopicKeySize, len(topicKey))
	}
	var key [TopicKeySize]byte
	copy(key[:], topicKey)

	var nonce [SecretBoxNonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("crypto: secretbox nonce: %w", err)
	}

	sealed := secretbox.Seal(nil, plaintext, &nonce, &key)
	out := make([]byte, 0, SecretBoxNonceSize+len(sealed))
	out = append(out, nonce[:]...)
	out = append(out, sealed...)
	return out, nil
}

// SecretBoxOpen authenticates and decrypts a blob produced by SecretBoxSeal.
func SecretBoxOpen(topicKey, sealed []byte) ([]byte, error) {
	if len(topicKey) != TopicKeySize {
		return nil, fmt.Errorf("crypto: topic key must be %d bytes, got %d", TopicKeySize, len(topicKey))
	}
	if len(sealed) < SecretBoxNonceSize+SecretBoxOverhead {
		return nil, fmt.Errorf("crypto: sealed secretbox too short")
	}
	var key [TopicKeySize]byte
	copy(key[:], topicKey)

	var nonce [SecretBoxNonceSize]byte
	copy(nonce[:], sealed[:SecretBoxNonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[SecretBoxNonceSize:], &nonce, &key)
	if !ok {
		return nil, fmt.Errorf("crypto: secretbox authentication failed")
	}
	return plaintext, nil
}
