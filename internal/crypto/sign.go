package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// SigningKeySeedSize is the size, in bytes, of the seed that deterministically
// produces an Ed25519 keypair.
const SigningKeySeedSize = ed25519.SeedSize

// SignatureSize is the size, in bytes, of a detached Ed25519 signature.
const SignatureSize = ed25519.SignatureSize

// GenerateSigningKeySeed returns a fresh, CSPRNG-sourced signing key seed.
func GenerateSigningKeySeed() ([]byte, error) {
	seed := make([]byte, SigningKeySeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("crypto: generate signing key seed: %w", err)
	}
	return seed, nil
}

// PublicKeyFromSeed derives the 32-byte Ed25519 verification key for seed.
func PublicKeyFromSeed(seed []byte) ([]byte, error) {
	if len(seed) != SigningKeySeedSize {
		return nil, fmt.Errorf("crypto: signing key seed must be %d bytes, got %d", SigningKeySeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("crypto: unexpected public key type")
	}
	return []byte(pub), nil
}

// Sign produces a detached signature over message using the key derived
// from seed.
func Sign(seed, message []byte) ([]byte, error) {
	if len(seed) != SigningKeySeedSize {
		return nil, fmt.Errorf("crypto: signing key seed must be %d bytes, got %d", SigningKeySeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return ed25519.Sign(priv, message), nil
}

// Verify reports whether signature is a valid Ed25519 signature over message
// under publicKey. Verification is constant-time with respect to signature,
// as guaranteed by crypto/ed25519.
func Verify(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != SignatureSize {
		return false
	}
	return ed25519.Verify(publicKey, message, signature)
}

// PrivateKeyFromSeed returns the full 64-byte Ed25519 private key (seed ||
// public key) for seed, in the layout extra25519 expects.
func PrivateKeyFromSeed(seed []byte) (ed25519.PrivateKey, error) {
	if len(seed) != SigningKeySeedSize {
		return nil, fmt.Errorf("crypto: signing key seed must be %d bytes, got %d", SigningKeySeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}
