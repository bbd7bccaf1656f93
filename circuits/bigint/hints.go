package bigint

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
)

func init() {
	solver.RegisterHint(Hints()...)
}

// Hints returns the solver hints the chip relies on, so callers can pass them
// explicitly with solver.WithHints when they do not want to rely on the global
// registry.
func Hints() []solver.Hint {
	return []solver.Hint{QuoRemHint, DecomposeHint, CarryHint, BorrowSubHint}
}

// QuoRemHint computes q and r with a*b = q*n + r and r < n from the limb
// decompositions of n, a and b.
//
// inputs:  [limbWidth, nbLimbs, nbQuoLimbs, n..., a..., b...]
// outputs: [q... (nbQuoLimbs), r... (nbLimbs)]
func QuoRemHint(_ *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) < 3 {
		return fmt.Errorf("expected at least 3 inputs, got %d", len(inputs))
	}
	w := uint(inputs[0].Uint64())
	nbLimbs := int(inputs[1].Int64())
	nbQuoLimbs := int(inputs[2].Int64())
	if len(inputs) != 3+3*nbLimbs {
		return fmt.Errorf("expected %d inputs, got %d", 3+3*nbLimbs, len(inputs))
	}
	if len(outputs) != nbQuoLimbs+nbLimbs {
		return fmt.Errorf("expected %d outputs, got %d", nbQuoLimbs+nbLimbs, len(outputs))
	}

	n := Recompose(inputs[3:3+nbLimbs], w)
	a := Recompose(inputs[3+nbLimbs:3+2*nbLimbs], w)
	b := Recompose(inputs[3+2*nbLimbs:], w)
	if n.Sign() == 0 {
		return fmt.Errorf("zero modulus")
	}

	quo, rem := new(big.Int).QuoRem(new(big.Int).Mul(a, b), n, new(big.Int))
	quoLimbs, err := Decompose(quo, uint(nbQuoLimbs), w)
	if err != nil {
		return fmt.Errorf("decompose quotient: %w", err)
	}
	remLimbs, err := Decompose(rem, uint(nbLimbs), w)
	if err != nil {
		return fmt.Errorf("decompose remainder: %w", err)
	}

	for i := range quoLimbs {
		outputs[i].Set(quoLimbs[i])
	}
	for i := range remLimbs {
		outputs[nbQuoLimbs+i].Set(remLimbs[i])
	}
	return nil
}

// DecomposeHint re-decomposes an overflowed limb array into limbWidth-bit
// limbs of the same value. The output limb count is fixed by the caller.
//
// inputs:  [limbWidth, x...]
// outputs: [fresh limbs of x]
func DecomposeHint(_ *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) < 2 {
		return fmt.Errorf("expected at least 2 inputs, got %d", len(inputs))
	}
	w := uint(inputs[0].Uint64())
	v := Recompose(inputs[1:], w)
	limbs, err := Decompose(v, uint(len(outputs)), w)
	if err != nil {
		return fmt.Errorf("decompose: %w", err)
	}
	for i := range limbs {
		outputs[i].Set(limbs[i])
	}
	return nil
}

// CarryHint computes the running carries that witness the equality of two
// limb polynomials x and y evaluated at 2^limbWidth. Carries may be negative;
// they are reduced into the field by the solver and bounded by range checks
// in the circuit.
//
// inputs:  [limbWidth, nbX, x... (nbX), y...]
// outputs: [carries (max(len(x), len(y)) - 1)]
func CarryHint(_ *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) < 2 {
		return fmt.Errorf("expected at least 2 inputs, got %d", len(inputs))
	}
	w := uint(inputs[0].Uint64())
	nbX := int(inputs[1].Int64())
	if nbX < 0 || 2+nbX > len(inputs) {
		return fmt.Errorf("invalid x limb count %d", nbX)
	}
	x := inputs[2 : 2+nbX]
	y := inputs[2+nbX:]
	n := max(len(x), len(y))
	if len(outputs) != n-1 {
		return fmt.Errorf("expected %d outputs, got %d", n-1, len(outputs))
	}

	carry := new(big.Int)
	for i := range n - 1 {
		carry.Add(carry, limbAt(x, i))
		carry.Sub(carry, limbAt(y, i))
		carry.Rsh(carry, w)
		outputs[i].Set(carry)
	}
	return nil
}

// BorrowSubHint computes d = b - 1 - a over the limb decompositions of b and
// a. It fails when a >= b, in which case the caller's less-than relation is
// unsatisfiable anyway.
//
// inputs:  [limbWidth, nbLimbs, b..., a...]
// outputs: [d... (nbLimbs)]
func BorrowSubHint(_ *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) < 2 {
		return fmt.Errorf("expected at least 2 inputs, got %d", len(inputs))
	}
	w := uint(inputs[0].Uint64())
	nbLimbs := int(inputs[1].Int64())
	if len(inputs) != 2+2*nbLimbs || len(outputs) != nbLimbs {
		return fmt.Errorf("unexpected input/output count")
	}

	b := Recompose(inputs[2:2+nbLimbs], w)
	a := Recompose(inputs[2+nbLimbs:], w)
	d := new(big.Int).Sub(b, a)
	d.Sub(d, big.NewInt(1))
	if d.Sign() < 0 {
		return fmt.Errorf("value is not below the bound")
	}
	limbs, err := Decompose(d, uint(nbLimbs), w)
	if err != nil {
		return fmt.Errorf("decompose difference: %w", err)
	}
	for i := range limbs {
		outputs[i].Set(limbs[i])
	}
	return nil
}

func limbAt(limbs []*big.Int, i int) *big.Int {
	if i >= len(limbs) {
		return big.NewInt(0)
	}
	return limbs[i]
}
