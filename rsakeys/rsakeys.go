// Package rsakeys produces plain (non-circuit) RSA fixtures for the proof
// pipeline: key generation, public-key derivation, PKCS#1 v1.5 signing and
// SHA-256 hashing.
package rsakeys

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"github.com/zkrsa/circuits/utils"
)

// Generate samples a fresh RSA private key of the given modulus bit length.
func Generate(bits int) (*rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	return priv, nil
}

// Public derives the public key from a private key.
func Public(priv *rsa.PrivateKey) *rsa.PublicKey {
	return &priv.PublicKey
}

// Sign produces a PKCS#1 v1.5 SHA-256 signature in the usual big-endian
// byte order.
func Sign(priv *rsa.PrivateKey, msg []byte) ([]byte, error) {
	digest := Hash(msg)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig, nil
}

// Hash is the fixture-side SHA-256.
func Hash(msg []byte) [sha256.Size]byte {
	return sha256.Sum256(msg)
}

// ModulusLE encodes the public modulus in the pipeline's little-endian
// boundary order.
func ModulusLE(pub *rsa.PublicKey) ([]byte, error) {
	return utils.BigToLE(pub.N, pub.Size())
}

// SignatureLE reverses a big-endian signature into the pipeline's
// little-endian boundary order.
func SignatureLE(sig []byte) []byte {
	le := make([]byte, len(sig))
	for i := range sig {
		le[len(sig)-1-i] = sig[i]
	}
	return le
}
