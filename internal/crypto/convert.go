package crypto

import (
	"crypto/ed25519"
	"fmt"

	"github.com/katzenpost/core/crypto/extra25519"
)

// SigningPublicKeyToCurve25519 converts an Ed25519 verification key to the
// Curve25519 public point used for the reply's asymmetric box, via the
// standard birational map.
func SigningPublicKeyToCurve25519(signingPub []byte) (*[32]byte, error) {
	if len(signingPub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("crypto: signing public key must be %d bytes, got %d", ed25519.PublicKeySize, len(signingPub))
	}
	var edPub, curvePub [32]byte
	copy(edPub[:], signingPub)
	if !extra25519.PublicKeyToCurve25519(&curvePub, &edPub) {
		return nil, fmt.Errorf("crypto: signing public key is not convertible to Curve25519")
	}
	return &curvePub, nil
}

// SigningPrivateKeyToCurve25519 converts a full Ed25519 private key (seed ||
// public key, as produced by PrivateKeyFromSeed) to the Curve25519 scalar
// used to decrypt a reply addressed to us.
func SigningPrivateKeyToCurve25519(signingPriv ed25519.PrivateKey) (*[32]byte, error) {
	if len(signingPriv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("crypto: signing private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(signingPriv))
	}
	var edPriv [64]byte
	copy(edPriv[:], signingPriv)
	var curvePriv [32]byte
	extra25519.PrivateKeyToCurve25519(&curvePriv, &edPriv)
	return &curvePriv, nil
}
