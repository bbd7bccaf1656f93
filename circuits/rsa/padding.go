package rsa

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
)

// Hardcoded DER prefix for SHA-256 with RSASSA-PKCS1-v1_5
var Sha256DerPrefix = [19]byte{
	0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
}

// DigestLen is the SHA-256 digest size in bytes.
const DigestLen = 32

// PaddedDigestLimbs builds the little-endian limbs of the expected encoded
// message EM = 0x00 0x01 0xFF..0xFF 0x00 || DER || digest for a modulus of
// modulusBits bits. Everything except the digest bytes is a
// construction-time constant, so the limbs are cheap linear combinations.
func PaddedDigestLimbs(api frontend.API, digest []uints.U8, modulusBits, limbWidth uint) ([]frontend.Variable, error) {
	if len(digest) != DigestLen {
		return nil, fmt.Errorf("expected %d digest bytes, got %d", DigestLen, len(digest))
	}
	if limbWidth%8 != 0 || limbWidth == 0 || modulusBits%limbWidth != 0 {
		return nil, fmt.Errorf("limb width %d incompatible with %d-bit modulus", limbWidth, modulusBits)
	}
	emLen := int(modulusBits / 8)
	padLen := emLen - 3 - len(Sha256DerPrefix) - DigestLen
	if padLen < 8 {
		return nil, fmt.Errorf("%d-bit modulus too short for PKCS#1 v1.5 padding", modulusBits)
	}

	// Big-endian encoded message.
	em := make([]frontend.Variable, emLen)
	em[0] = 0x00
	em[1] = 0x01
	off := 2
	for range padLen {
		em[off] = 0xff
		off++
	}
	em[off] = 0x00
	off++
	for _, b := range Sha256DerPrefix {
		em[off] = b
		off++
	}
	for i := range digest {
		em[off] = digest[i].Val
		off++
	}

	// Fold bytes into limbs, least significant byte first.
	bytesPerLimb := int(limbWidth / 8)
	limbs := make([]frontend.Variable, emLen/bytesPerLimb)
	for j := range limbs {
		var limb frontend.Variable = 0
		for b := range bytesPerLimb {
			coef := new(big.Int).Lsh(big.NewInt(1), uint(8*b))
			limb = api.Add(limb, api.Mul(em[emLen-1-(j*bytesPerLimb+b)], coef))
		}
		limbs[j] = limb
	}
	return limbs, nil
}
