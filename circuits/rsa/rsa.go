package rsa

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"

	"github.com/zkrsa/circuits/circuits/bigint"
)

// DefaultExponent is the usual RSA public exponent.
const DefaultExponent = 65537

// PublicKey is an RSA public key inside the circuit: a Fresh limb-decomposed
// modulus and a fixed or variable exponent.
type PublicKey struct {
	N bigint.Element
	E bigint.Exponent
}

// Signature wraps a limb-decomposed RSA signature.
type Signature struct {
	S bigint.Element
}

// Verify constrains sig^e mod n to equal the PKCS#1 v1.5 padded SHA-256
// digest. The digest bytes come from the hash gadget (or from the witness in
// trusted-digest mode) and must already be byte-range-checked. Only canonical
// signatures are accepted: sig < n, so sig + k*n aliases fail to solve.
func Verify(api frontend.API, chip *bigint.Chip, pub PublicKey, digest []uints.U8, sig Signature) error {
	if err := chip.AssertLessThan(sig.S, pub.N); err != nil {
		return err
	}
	em, err := chip.PowMod(sig.S, pub.E, pub.N)
	if err != nil {
		return err
	}

	cfg := chip.Config()
	expected, err := PaddedDigestLimbs(api, digest, cfg.NbLimbs*cfg.LimbWidth, cfg.LimbWidth)
	if err != nil {
		return err
	}

	// Padded-digest limbs are byte compositions, bounded below 2^limbWidth
	// by construction.
	return chip.AssertEqual(em, bigint.Element{Limbs: expected, Range: bigint.Fresh})
}
