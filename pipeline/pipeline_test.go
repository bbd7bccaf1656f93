package pipeline

import (
	"bytes"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/stretchr/testify/require"

	"github.com/zkrsa/circuits/circuits"
	"github.com/zkrsa/circuits/rsakeys"
)

// Every stock shape must compile within its declared row capacity, or Setup
// can never succeed for it. Compile-only, so it runs in the short suite too.
func TestStockShapesFitRowCapacity(t *testing.T) {
	for _, shape := range circuits.Shapes() {
		t.Run(shape.String(), func(t *testing.T) {
			ccs, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, circuits.NewPkcs1v15Circuit(shape))
			require.NoError(t, err)
			require.LessOrEqual(t, ccs.GetNbConstraints(), 1<<shape.K,
				"%s needs %d constraints", shape, ccs.GetNbConstraints())
		})
	}
}

func TestBuildAssignmentRangeViolations(t *testing.T) {
	shape := circuits.Shape1024x64
	modulusLE := make([]byte, 128)
	modulusLE[127] = 0x80 // high bit of a 1024-bit modulus
	signatureLE := make([]byte, 128)
	signatureLE[0] = 0x2a

	_, err := buildAssignment(shape, modulusLE, make([]byte, shape.MaxMsgLen+1), signatureLE)
	require.ErrorIs(t, err, ErrRangeViolation)

	oversized := make([]byte, 129)
	oversized[128] = 0x01
	_, err = buildAssignment(shape, oversized, []byte("msg"), signatureLE)
	require.ErrorIs(t, err, ErrRangeViolation)

	_, err = buildAssignment(shape, modulusLE, []byte("msg"), oversized)
	require.ErrorIs(t, err, ErrRangeViolation)

	assignment, err := buildAssignment(shape, modulusLE, []byte("msg"), signatureLE)
	require.NoError(t, err)
	require.Len(t, assignment.Modulus, int(shape.NbLimbs()))
	require.Len(t, assignment.Signature, int(shape.NbLimbs()))
	require.Len(t, assignment.Message, int(shape.MaxMsgLen))
}

func TestPipelineEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("full setup/prove/verify cycle")
	}
	shape := circuits.Shape1024x64

	artifacts, err := Setup(shape, SeededEntropy([]byte("pipeline-test")))
	require.NoError(t, err)

	priv, err := rsakeys.Generate(int(shape.ModulusBits))
	require.NoError(t, err)
	message := []byte("a short signed message")
	sig, err := rsakeys.Sign(priv, message)
	require.NoError(t, err)
	modulusLE, err := rsakeys.ModulusLE(rsakeys.Public(priv))
	require.NoError(t, err)
	signatureLE := rsakeys.SignatureLE(sig)

	proof, err := Prove(artifacts.Params, artifacts.ProvingKey, shape, modulusLE, message, signatureLE)
	require.NoError(t, err)

	valid, err := Verify(artifacts.Params, artifacts.VerifyingKey, proof, shape)
	require.NoError(t, err)
	require.True(t, valid)

	// Artifacts are bound to their shape at every boundary.
	_, err = Prove(artifacts.Params, artifacts.ProvingKey, circuits.Shape1024x128, modulusLE, message, signatureLE)
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Verify(artifacts.Params, artifacts.VerifyingKey, proof, circuits.Shape1024x128)
	require.ErrorIs(t, err, ErrShapeMismatch)

	// A bad witness is caught by the self-check, before proving.
	tampered := append([]byte(nil), signatureLE...)
	tampered[10] ^= 0x01
	_, err = Prove(artifacts.Params, artifacts.ProvingKey, shape, modulusLE, message, tampered)
	require.ErrorIs(t, err, ErrUnsatisfiedCircuit)
}

func TestSetupDeterministicForSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("runs setup twice")
	}
	shape := circuits.Shape1024x64

	a, err := Setup(shape, SeededEntropy([]byte("ceremony")))
	require.NoError(t, err)
	b, err := Setup(shape, SeededEntropy([]byte("ceremony")))
	require.NoError(t, err)

	require.True(t, bytes.Equal(a.Params, b.Params))
	require.True(t, bytes.Equal(a.ProvingKey, b.ProvingKey))
	require.True(t, bytes.Equal(a.VerifyingKey, b.VerifyingKey))
}
