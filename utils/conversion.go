package utils

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
)

// BigFromLE interprets buf as a little-endian unsigned integer. Boundary
// encodings of moduli and signatures are little-endian regardless of the
// limb ordering used inside the circuits.
func BigFromLE(buf []byte) *big.Int {
	be := make([]byte, len(buf))
	for i := range buf {
		be[len(buf)-1-i] = buf[i]
	}
	return new(big.Int).SetBytes(be)
}

// BigToLE encodes v as a little-endian buffer of exactly size bytes.
func BigToLE(v *big.Int, size int) ([]byte, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("cannot encode negative value")
	}
	if (v.BitLen()+7)/8 > size {
		return nil, fmt.Errorf("value of %d bits does not fit in %d bytes", v.BitLen(), size)
	}
	be := v.FillBytes(make([]byte, size))
	le := make([]byte, size)
	for i := range be {
		le[size-1-i] = be[i]
	}
	return le, nil
}

// LimbVariables converts codec limbs to circuit witness values.
func LimbVariables(limbs []*big.Int) []frontend.Variable {
	vars := make([]frontend.Variable, len(limbs))
	for i := range limbs {
		vars[i] = limbs[i]
	}
	return vars
}

// BytesToU8 builds a fixed-size byte witness, zero padded past len(b).
func BytesToU8(b []byte, size int) ([]uints.U8, error) {
	if len(b) > size {
		return nil, fmt.Errorf("%d bytes exceed witness size %d", len(b), size)
	}
	out := make([]uints.U8, size)
	for i := range out {
		out[i] = uints.NewU8(0)
	}
	for i := range b {
		out[i] = uints.NewU8(b[i])
	}
	return out, nil
}
