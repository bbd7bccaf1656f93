package bigint

import (
	"fmt"
	"math/big"
)

// Decompose splits v into nbLimbs little-endian limbs of limbWidth bits each.
// It fails if v is negative or does not fit in nbLimbs*limbWidth bits.
func Decompose(v *big.Int, nbLimbs, limbWidth uint) ([]*big.Int, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("cannot decompose negative value")
	}
	if uint(v.BitLen()) > nbLimbs*limbWidth {
		return nil, fmt.Errorf("value of %d bits out of range for %d limbs of %d bits", v.BitLen(), nbLimbs, limbWidth)
	}

	mask := new(big.Int).Lsh(big.NewInt(1), limbWidth)
	mask.Sub(mask, big.NewInt(1))

	limbs := make([]*big.Int, nbLimbs)
	rest := new(big.Int).Set(v)
	for i := range limbs {
		limbs[i] = new(big.Int).And(rest, mask)
		rest.Rsh(rest, limbWidth)
	}

	return limbs, nil
}

// Recompose is the inverse of Decompose: it evaluates the little-endian limbs
// at base 2^limbWidth. Limbs are not required to be reduced below 2^limbWidth,
// which lets the hints reuse it on overflowed limb arrays.
func Recompose(limbs []*big.Int, limbWidth uint) *big.Int {
	res := new(big.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		res.Lsh(res, limbWidth)
		res.Add(res, limbs[i])
	}
	return res
}
