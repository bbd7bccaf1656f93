package bigint

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/rangecheck"
)

// RangeType tracks whether the per-limb bound of an Element is currently
// guaranteed.
type RangeType uint8

const (
	// Fresh limbs are individually range-checked below 2^limbWidth.
	Fresh RangeType = iota
	// Muled limbs come out of a multiplication (or a non-normalized
	// addition) and may exceed 2^limbWidth. A Muled element must go through
	// Refresh, or be consumed by ModMul, before it can feed another
	// multiplication.
	Muled
)

// Element is a big integer held as little-endian limbs of circuit values.
type Element struct {
	Limbs []frontend.Variable
	Range RangeType
}

type Config struct {
	LimbWidth uint
	NbLimbs   uint
}

// Chip implements constrained big-integer arithmetic over limb-decomposed
// values. Misuse of the Fresh/Muled discipline is reported as a Go error at
// circuit construction time; witness values violating a range or equality
// constraint make the circuit unsatisfiable at solving time.
type Chip struct {
	api   frontend.API
	rchk  frontend.Rangechecker
	cfg   Config
	shift *big.Int
}

func New(api frontend.API, cfg Config) *Chip {
	return &Chip{
		api:   api,
		rchk:  rangecheck.New(api),
		cfg:   cfg,
		shift: new(big.Int).Lsh(big.NewInt(1), cfg.LimbWidth),
	}
}

func (c *Chip) Config() Config { return c.cfg }

// Assign range-checks every limb below 2^limbWidth and returns a Fresh
// element.
func (c *Chip) Assign(limbs []frontend.Variable) (Element, error) {
	if uint(len(limbs)) != c.cfg.NbLimbs {
		return Element{}, fmt.Errorf("expected %d limbs, got %d", c.cfg.NbLimbs, len(limbs))
	}
	for _, l := range limbs {
		c.rchk.Check(l, int(c.cfg.LimbWidth))
	}
	return Element{Limbs: limbs, Range: Fresh}, nil
}

// AssignConstant decomposes a construction-time constant. Constant limbs are
// bounded by the codec, so no range constraints are emitted.
func (c *Chip) AssignConstant(v *big.Int) (Element, error) {
	limbs, err := Decompose(v, c.cfg.NbLimbs, c.cfg.LimbWidth)
	if err != nil {
		return Element{}, err
	}
	vars := make([]frontend.Variable, len(limbs))
	for i := range limbs {
		vars[i] = limbs[i]
	}
	return Element{Limbs: vars, Range: Fresh}, nil
}

// Add is a limb-wise addition without carry normalization. The result is not
// Fresh: limbs may reach 2^(limbWidth+1), so it must be refreshed before
// feeding a multiplication.
func (c *Chip) Add(a, b Element) Element {
	n := max(len(a.Limbs), len(b.Limbs))
	limbs := make([]frontend.Variable, n)
	for i := range limbs {
		limbs[i] = c.api.Add(limbOrZero(a.Limbs, i), limbOrZero(b.Limbs, i))
	}
	return Element{Limbs: limbs, Range: Muled}
}

// Mul is a schoolbook limb multiplication producing len(a)+len(b)-1 limbs by
// convolution. Both operands must be Fresh; the result is Muled and must not
// feed another multiplication without a refresh.
func (c *Chip) Mul(a, b Element) (Element, error) {
	if a.Range != Fresh || b.Range != Fresh {
		return Element{}, fmt.Errorf("mul operands must be fresh; refresh the result of a previous multiplication first")
	}
	limbs := make([]frontend.Variable, len(a.Limbs)+len(b.Limbs)-1)
	for i := range limbs {
		limbs[i] = frontend.Variable(0)
	}
	for i := range a.Limbs {
		for j := range b.Limbs {
			limbs[i+j] = c.api.MulAcc(limbs[i+j], a.Limbs[i], b.Limbs[j])
		}
	}
	return Element{Limbs: limbs, Range: Muled}, nil
}

// Refresh re-decomposes an overflowed limb array into range-checked
// limbWidth-bit limbs of the same value, bridging Muled back to Fresh. The
// auxiliary limbs come from a hint and are constrained against the original
// value by a carry-propagated limb equality.
func (c *Chip) Refresh(x Element) (Element, error) {
	if x.Range == Fresh {
		return x, nil
	}
	// One extra limb absorbs the aggregate overflow of any element the chip
	// produces (convolution of fresh limbs or non-normalized additions).
	nbOut := len(x.Limbs) + 1
	ins := make([]frontend.Variable, 0, 1+len(x.Limbs))
	ins = append(ins, int(c.cfg.LimbWidth))
	ins = append(ins, x.Limbs...)
	out, err := c.api.NewHint(DecomposeHint, nbOut, ins...)
	if err != nil {
		return Element{}, fmt.Errorf("decompose hint: %w", err)
	}
	for _, l := range out {
		c.rchk.Check(l, int(c.cfg.LimbWidth))
	}
	if err := c.assertLimbsEquality(x.Limbs, out); err != nil {
		return Element{}, err
	}
	return Element{Limbs: out, Range: Fresh}, nil
}

// ModMul computes r with a*b = q*n + r and r < n, returning r as a Fresh
// element. Quotient and remainder are hint witnesses bound by per-limb range
// checks; the product identity is enforced on the expanded limb polynomials
// with carry propagation.
func (c *Chip) ModMul(a, b, n Element) (Element, error) {
	if a.Range != Fresh || b.Range != Fresh || n.Range != Fresh {
		return Element{}, fmt.Errorf("modmul operands must be fresh")
	}
	L := int(c.cfg.NbLimbs)
	if len(a.Limbs) != L || len(b.Limbs) != L || len(n.Limbs) != L {
		return Element{}, fmt.Errorf("modmul operands must have %d limbs", L)
	}

	// The quotient of a full-width product by a full-width modulus fits in
	// one limb more than the operands.
	nbQuo := L + 1
	ins := make([]frontend.Variable, 0, 3+3*L)
	ins = append(ins, int(c.cfg.LimbWidth), L, nbQuo)
	ins = append(ins, n.Limbs...)
	ins = append(ins, a.Limbs...)
	ins = append(ins, b.Limbs...)
	out, err := c.api.NewHint(QuoRemHint, nbQuo+L, ins...)
	if err != nil {
		return Element{}, fmt.Errorf("quorem hint: %w", err)
	}
	for _, l := range out {
		c.rchk.Check(l, int(c.cfg.LimbWidth))
	}
	quo := Element{Limbs: out[:nbQuo], Range: Fresh}
	rem := Element{Limbs: out[nbQuo:], Range: Fresh}

	lhs, err := c.Mul(a, b)
	if err != nil {
		return Element{}, err
	}
	qn, err := c.Mul(quo, n)
	if err != nil {
		return Element{}, err
	}
	rhs := c.Add(qn, rem)
	if err := c.assertLimbsEquality(lhs.Limbs, rhs.Limbs); err != nil {
		return Element{}, err
	}
	if err := c.AssertLessThan(rem, n); err != nil {
		return Element{}, err
	}
	return rem, nil
}

// Exponent is either a construction-time constant (unrolled, no selection
// gates) or a circuit value of a declared bit length (one conditional
// multiply per bit).
type Exponent struct {
	fixed  *big.Int
	v      frontend.Variable
	nbBits int
}

func FixedExponent(e *big.Int) Exponent {
	return Exponent{fixed: e}
}

func VarExponent(e frontend.Variable, nbBits int) Exponent {
	return Exponent{v: e, nbBits: nbBits}
}

// PowMod computes base^exp mod n by square-and-multiply, most significant
// exponent bit first, every step going through ModMul.
func (c *Chip) PowMod(base Element, exp Exponent, n Element) (Element, error) {
	if base.Range != Fresh || n.Range != Fresh {
		return Element{}, fmt.Errorf("powmod operands must be fresh")
	}

	if exp.fixed != nil {
		if exp.fixed.Sign() <= 0 {
			return Element{}, fmt.Errorf("fixed exponent must be positive")
		}
		acc := base
		var err error
		for i := exp.fixed.BitLen() - 2; i >= 0; i-- {
			if acc, err = c.ModMul(acc, acc, n); err != nil {
				return Element{}, err
			}
			if exp.fixed.Bit(i) == 1 {
				if acc, err = c.ModMul(acc, base, n); err != nil {
					return Element{}, err
				}
			}
		}
		return acc, nil
	}

	if exp.nbBits <= 0 {
		return Element{}, fmt.Errorf("variable exponent needs a positive bit length")
	}
	expBits := c.api.ToBinary(exp.v, exp.nbBits)
	acc, err := c.AssignConstant(big.NewInt(1))
	if err != nil {
		return Element{}, err
	}
	for i := exp.nbBits - 1; i >= 0; i-- {
		if acc, err = c.ModMul(acc, acc, n); err != nil {
			return Element{}, err
		}
		mul, err := c.ModMul(acc, base, n)
		if err != nil {
			return Element{}, err
		}
		acc = c.Select(expBits[i], mul, acc)
	}
	return acc, nil
}

// Select returns t when sel is 1 and f otherwise, limb-wise. Both branches
// must have the same limb count and range tag.
func (c *Chip) Select(sel frontend.Variable, t, f Element) Element {
	limbs := make([]frontend.Variable, len(t.Limbs))
	for i := range limbs {
		limbs[i] = c.api.Select(sel, t.Limbs[i], f.Limbs[i])
	}
	return Element{Limbs: limbs, Range: t.Range}
}

// AssertEqual enforces limb-wise equality of two Fresh elements.
func (c *Chip) AssertEqual(a, b Element) error {
	if a.Range != Fresh || b.Range != Fresh {
		return fmt.Errorf("equality operands must be fresh")
	}
	if len(a.Limbs) != len(b.Limbs) {
		return fmt.Errorf("limb count mismatch: %d != %d", len(a.Limbs), len(b.Limbs))
	}
	for i := range a.Limbs {
		c.api.AssertIsEqual(a.Limbs[i], b.Limbs[i])
	}
	return nil
}

// AssertLessThan enforces a < b for Fresh elements of equal limb count by
// exhibiting d = b - 1 - a as a range-checked witness.
func (c *Chip) AssertLessThan(a, b Element) error {
	if a.Range != Fresh || b.Range != Fresh {
		return fmt.Errorf("comparison operands must be fresh")
	}
	if len(a.Limbs) != len(b.Limbs) {
		return fmt.Errorf("limb count mismatch: %d != %d", len(a.Limbs), len(b.Limbs))
	}
	L := len(a.Limbs)
	ins := make([]frontend.Variable, 0, 2+2*L)
	ins = append(ins, int(c.cfg.LimbWidth), L)
	ins = append(ins, b.Limbs...)
	ins = append(ins, a.Limbs...)
	d, err := c.api.NewHint(BorrowSubHint, L, ins...)
	if err != nil {
		return fmt.Errorf("borrow hint: %w", err)
	}
	for _, l := range d {
		c.rchk.Check(l, int(c.cfg.LimbWidth))
	}
	// a + d + 1 == b
	sum := make([]frontend.Variable, L)
	for i := range sum {
		sum[i] = c.api.Add(a.Limbs[i], d[i])
	}
	sum[0] = c.api.Add(sum[0], 1)
	return c.assertLimbsEquality(sum, b.Limbs)
}

// assertLimbsEquality enforces that two (possibly overflowed) limb arrays
// evaluate to the same integer at base 2^limbWidth. Running carries come from
// a hint; each carry is range-checked in a signed window so the telescoped
// field equation implies integer equality.
func (c *Chip) assertLimbsEquality(x, y []frontend.Variable) error {
	n := max(len(x), len(y))
	if n == 0 {
		return nil
	}
	carryBits := int(c.cfg.LimbWidth) + bits.Len(uint(n)) + 2
	if n == 1 {
		c.api.AssertIsEqual(limbOrZero(x, 0), limbOrZero(y, 0))
		return nil
	}

	ins := make([]frontend.Variable, 0, 2+len(x)+len(y))
	ins = append(ins, int(c.cfg.LimbWidth), len(x))
	ins = append(ins, x...)
	ins = append(ins, y...)
	carries, err := c.api.NewHint(CarryHint, n-1, ins...)
	if err != nil {
		return fmt.Errorf("carry hint: %w", err)
	}

	offset := new(big.Int).Lsh(big.NewInt(1), uint(carryBits))
	var prev frontend.Variable = 0
	for i := range n - 1 {
		lhs := c.api.Add(limbOrZero(x, i), prev)
		rhs := c.api.Add(limbOrZero(y, i), c.api.Mul(carries[i], c.shift))
		c.api.AssertIsEqual(lhs, rhs)
		c.rchk.Check(c.api.Add(carries[i], offset), carryBits+1)
		prev = carries[i]
	}
	c.api.AssertIsEqual(c.api.Add(limbOrZero(x, n-1), prev), limbOrZero(y, n-1))
	return nil
}

func limbOrZero(limbs []frontend.Variable, i int) frontend.Variable {
	if i >= len(limbs) {
		return 0
	}
	return limbs[i]
}
