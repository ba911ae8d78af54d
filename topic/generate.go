package topic

import "stringphone/internal/crypto"

// GenerateSigningKeySeed returns a fresh, CSPRNG-sourced 32-byte seed
// suitable for New.
func GenerateSigningKeySeed() ([]byte, error) {
	return crypto.GenerateSigningKeySeed()
}

// GenerateTopicKey returns a fresh, CSPRNG-sourced 32-byte topic key
// suitable for New or for distributing out-of-band to a topic's first
// participants.
func GenerateTopicKey() ([]byte, error) {
	return crypto.GenerateTopicKey()
}
