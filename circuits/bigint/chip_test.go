package bigint

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
)

// Small limb geometry keeps the solver fast while still exercising carries
// across several limbs.
var testCfg = Config{LimbWidth: 16, NbLimbs: 4}

func limbVars(t *testing.T, v *big.Int, nbLimbs, w uint) []frontend.Variable {
	t.Helper()
	limbs, err := Decompose(v, nbLimbs, w)
	require.NoError(t, err)
	vars := make([]frontend.Variable, len(limbs))
	for i := range limbs {
		vars[i] = limbs[i]
	}
	return vars
}

type modMulCircuit struct {
	A, B, N []frontend.Variable
	Want    []frontend.Variable

	cfg Config
}

func (c *modMulCircuit) Define(api frontend.API) error {
	chip := New(api, c.cfg)
	a, err := chip.Assign(c.A)
	if err != nil {
		return err
	}
	b, err := chip.Assign(c.B)
	if err != nil {
		return err
	}
	n, err := chip.Assign(c.N)
	if err != nil {
		return err
	}
	r, err := chip.ModMul(a, b, n)
	if err != nil {
		return err
	}
	want, err := chip.Assign(c.Want)
	if err != nil {
		return err
	}
	return chip.AssertEqual(r, want)
}

func newModMulCircuit(cfg Config) *modMulCircuit {
	return &modMulCircuit{
		A:    make([]frontend.Variable, cfg.NbLimbs),
		B:    make([]frontend.Variable, cfg.NbLimbs),
		N:    make([]frontend.Variable, cfg.NbLimbs),
		Want: make([]frontend.Variable, cfg.NbLimbs),
		cfg:  cfg,
	}
}

func TestModMul(t *testing.T) {
	n, _ := new(big.Int).SetString("fedcba9876543211", 16)
	a, _ := new(big.Int).SetString("0123456789abcdef", 16)
	b, _ := new(big.Int).SetString("deadbeefcafef00d", 16)
	want := new(big.Int).Mod(new(big.Int).Mul(a, b), n)

	assignment := newModMulCircuit(testCfg)
	assignment.A = limbVars(t, a, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.B = limbVars(t, b, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.N = limbVars(t, n, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.Want = limbVars(t, want, testCfg.NbLimbs, testCfg.LimbWidth)

	require.NoError(t, test.IsSolved(newModMulCircuit(testCfg), assignment, ecc.BN254.ScalarField()))
}

func TestModMulRejectsWrongResult(t *testing.T) {
	n, _ := new(big.Int).SetString("fedcba9876543211", 16)
	a, _ := new(big.Int).SetString("0123456789abcdef", 16)
	b, _ := new(big.Int).SetString("deadbeefcafef00d", 16)
	want := new(big.Int).Mod(new(big.Int).Mul(a, b), n)
	want.Add(want, big.NewInt(1))

	assignment := newModMulCircuit(testCfg)
	assignment.A = limbVars(t, a, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.B = limbVars(t, b, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.N = limbVars(t, n, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.Want = limbVars(t, want, testCfg.NbLimbs, testCfg.LimbWidth)

	require.Error(t, test.IsSolved(newModMulCircuit(testCfg), assignment, ecc.BN254.ScalarField()))
}

type powModCircuit struct {
	Base, N []frontend.Variable
	Want    []frontend.Variable

	cfg Config
	exp *big.Int
}

func (c *powModCircuit) Define(api frontend.API) error {
	chip := New(api, c.cfg)
	base, err := chip.Assign(c.Base)
	if err != nil {
		return err
	}
	n, err := chip.Assign(c.N)
	if err != nil {
		return err
	}
	r, err := chip.PowMod(base, FixedExponent(c.exp), n)
	if err != nil {
		return err
	}
	want, err := chip.Assign(c.Want)
	if err != nil {
		return err
	}
	return chip.AssertEqual(r, want)
}

func newPowModCircuit(cfg Config, exp *big.Int) *powModCircuit {
	return &powModCircuit{
		Base: make([]frontend.Variable, cfg.NbLimbs),
		N:    make([]frontend.Variable, cfg.NbLimbs),
		Want: make([]frontend.Variable, cfg.NbLimbs),
		cfg:  cfg,
		exp:  exp,
	}
}

func TestPowModFixed65537(t *testing.T) {
	exp := big.NewInt(65537)
	n, _ := new(big.Int).SetString("fedcba9876543211", 16)
	base, _ := new(big.Int).SetString("0123456789abcdef", 16)
	want := new(big.Int).Exp(base, exp, n)

	assignment := newPowModCircuit(testCfg, exp)
	assignment.Base = limbVars(t, base, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.N = limbVars(t, n, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.Want = limbVars(t, want, testCfg.NbLimbs, testCfg.LimbWidth)

	require.NoError(t, test.IsSolved(newPowModCircuit(testCfg, exp), assignment, ecc.BN254.ScalarField()))
}

type varPowModCircuit struct {
	Base, N []frontend.Variable
	E       frontend.Variable
	Want    []frontend.Variable

	cfg    Config
	nbBits int
}

func (c *varPowModCircuit) Define(api frontend.API) error {
	chip := New(api, c.cfg)
	base, err := chip.Assign(c.Base)
	if err != nil {
		return err
	}
	n, err := chip.Assign(c.N)
	if err != nil {
		return err
	}
	r, err := chip.PowMod(base, VarExponent(c.E, c.nbBits), n)
	if err != nil {
		return err
	}
	want, err := chip.Assign(c.Want)
	if err != nil {
		return err
	}
	return chip.AssertEqual(r, want)
}

func newVarPowModCircuit(cfg Config, nbBits int) *varPowModCircuit {
	return &varPowModCircuit{
		Base:   make([]frontend.Variable, cfg.NbLimbs),
		N:      make([]frontend.Variable, cfg.NbLimbs),
		Want:   make([]frontend.Variable, cfg.NbLimbs),
		cfg:    cfg,
		nbBits: nbBits,
	}
}

func TestPowModVariableExponent(t *testing.T) {
	exp := big.NewInt(65537)
	n, _ := new(big.Int).SetString("fedcba9876543211", 16)
	base, _ := new(big.Int).SetString("0123456789abcdef", 16)
	want := new(big.Int).Exp(base, exp, n)

	assignment := newVarPowModCircuit(testCfg, 17)
	assignment.Base = limbVars(t, base, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.N = limbVars(t, n, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.E = exp
	assignment.Want = limbVars(t, want, testCfg.NbLimbs, testCfg.LimbWidth)

	require.NoError(t, test.IsSolved(newVarPowModCircuit(testCfg, 17), assignment, ecc.BN254.ScalarField()))
}

type refreshCircuit struct {
	A, B []frontend.Variable
	// Want carries one limb more than the operands: the refreshed sum.
	Want []frontend.Variable

	cfg Config
}

func (c *refreshCircuit) Define(api frontend.API) error {
	chip := New(api, c.cfg)
	a, err := chip.Assign(c.A)
	if err != nil {
		return err
	}
	b, err := chip.Assign(c.B)
	if err != nil {
		return err
	}
	sum, err := chip.Refresh(chip.Add(a, b))
	if err != nil {
		return err
	}
	return chip.AssertEqual(sum, Element{Limbs: c.Want, Range: Fresh})
}

func newRefreshCircuit(cfg Config) *refreshCircuit {
	return &refreshCircuit{
		A:    make([]frontend.Variable, cfg.NbLimbs),
		B:    make([]frontend.Variable, cfg.NbLimbs),
		Want: make([]frontend.Variable, cfg.NbLimbs+1),
		cfg:  cfg,
	}
}

func TestRefreshNormalizesAddition(t *testing.T) {
	a, _ := new(big.Int).SetString("ffffffffffffffff", 16)
	b, _ := new(big.Int).SetString("fedcba9876543211", 16)
	sum := new(big.Int).Add(a, b)

	assignment := newRefreshCircuit(testCfg)
	assignment.A = limbVars(t, a, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.B = limbVars(t, b, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.Want = limbVars(t, sum, testCfg.NbLimbs+1, testCfg.LimbWidth)

	require.NoError(t, test.IsSolved(newRefreshCircuit(testCfg), assignment, ecc.BN254.ScalarField()))
}

type muledMulCircuit struct {
	A, B []frontend.Variable

	cfg Config
}

func (c *muledMulCircuit) Define(api frontend.API) error {
	chip := New(api, c.cfg)
	a, err := chip.Assign(c.A)
	if err != nil {
		return err
	}
	b, err := chip.Assign(c.B)
	if err != nil {
		return err
	}
	m, err := chip.Mul(a, b)
	if err != nil {
		return err
	}
	// Multiplying an unrefreshed product must be rejected at construction.
	_, err = chip.Mul(m, m)
	return err
}

func TestMulRequiresFreshOperands(t *testing.T) {
	skeleton := &muledMulCircuit{
		A:   make([]frontend.Variable, testCfg.NbLimbs),
		B:   make([]frontend.Variable, testCfg.NbLimbs),
		cfg: testCfg,
	}
	assignment := &muledMulCircuit{
		A:   limbVars(t, big.NewInt(3), testCfg.NbLimbs, testCfg.LimbWidth),
		B:   limbVars(t, big.NewInt(5), testCfg.NbLimbs, testCfg.LimbWidth),
		cfg: testCfg,
	}
	require.Error(t, test.IsSolved(skeleton, assignment, ecc.BN254.ScalarField()))
}

type lessThanCircuit struct {
	A, B []frontend.Variable

	cfg Config
}

func (c *lessThanCircuit) Define(api frontend.API) error {
	chip := New(api, c.cfg)
	a, err := chip.Assign(c.A)
	if err != nil {
		return err
	}
	b, err := chip.Assign(c.B)
	if err != nil {
		return err
	}
	return chip.AssertLessThan(a, b)
}

func newLessThanCircuit(cfg Config) *lessThanCircuit {
	return &lessThanCircuit{
		A:   make([]frontend.Variable, cfg.NbLimbs),
		B:   make([]frontend.Variable, cfg.NbLimbs),
		cfg: cfg,
	}
}

func TestAssertLessThan(t *testing.T) {
	b, _ := new(big.Int).SetString("fedcba9876543211", 16)
	a := new(big.Int).Sub(b, big.NewInt(1))

	assignment := newLessThanCircuit(testCfg)
	assignment.A = limbVars(t, a, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.B = limbVars(t, b, testCfg.NbLimbs, testCfg.LimbWidth)
	require.NoError(t, test.IsSolved(newLessThanCircuit(testCfg), assignment, ecc.BN254.ScalarField()))
}

func TestAssertLessThanRejectsEqual(t *testing.T) {
	b, _ := new(big.Int).SetString("fedcba9876543211", 16)

	assignment := newLessThanCircuit(testCfg)
	assignment.A = limbVars(t, b, testCfg.NbLimbs, testCfg.LimbWidth)
	assignment.B = limbVars(t, b, testCfg.NbLimbs, testCfg.LimbWidth)
	require.Error(t, test.IsSolved(newLessThanCircuit(testCfg), assignment, ecc.BN254.ScalarField()))
}
