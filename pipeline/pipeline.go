// Package pipeline drives the setup/prove/verify lifecycle of the RSA
// verification circuits over the PLONK backend. Artifacts cross its
// boundary as shape-tagged byte buffers and are immutable after creation,
// so they can be shared by concurrent Prove and Verify calls.
package pipeline

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test"
	"github.com/consensys/gnark/test/unsafekzg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zkrsa/circuits/circuits"
	"github.com/zkrsa/circuits/circuits/bigint"
	"github.com/zkrsa/circuits/utils"
)

var logger zerolog.Logger = log.With().Str("component", "pipeline").Logger()

// Artifacts holds the serialized outputs of Setup: the compiled circuit
// parameters and the proving/verifying key pair, each in a shape-tagged
// envelope.
type Artifacts struct {
	Params       []byte
	ProvingKey   []byte
	VerifyingKey []byte
}

// Setup compiles the circuit for the shape, derives a KZG SRS sized to its
// row capacity from the entropy source, and runs the backend key
// generation. The result is deterministic for a deterministic entropy
// source.
func Setup(shape circuits.Shape, entropy io.Reader) (*Artifacts, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	start := time.Now()
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, circuits.NewPkcs1v15Circuit(shape))
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %v", ErrBackend, err)
	}
	if ccs.GetNbConstraints() > 1<<shape.K {
		return nil, fmt.Errorf("%w: %d constraints exceed the shape capacity 2^%d", ErrBackend, ccs.GetNbConstraints(), shape.K)
	}
	logger.Info().
		Stringer("shape", shape).
		Int("constraints", ccs.GetNbConstraints()).
		Dur("took", time.Since(start)).
		Msg("circuit compiled")

	tau, err := rand.Int(entropy, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("%w: entropy: %v", ErrBackend, err)
	}
	srs, srsLagrange, err := unsafekzg.NewSRS(ccs, unsafekzg.WithToxicValue(tau))
	if err != nil {
		return nil, fmt.Errorf("%w: srs: %v", ErrBackend, err)
	}

	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, fmt.Errorf("%w: setup: %v", ErrBackend, err)
	}

	var paramsBuf, pkBuf, vkBuf bytes.Buffer
	if _, err := ccs.WriteTo(&paramsBuf); err != nil {
		return nil, fmt.Errorf("%w: serialize parameters: %v", ErrBackend, err)
	}
	if _, err := pk.WriteRawTo(&pkBuf); err != nil {
		return nil, fmt.Errorf("%w: serialize proving key: %v", ErrBackend, err)
	}
	if _, err := vk.WriteRawTo(&vkBuf); err != nil {
		return nil, fmt.Errorf("%w: serialize verifying key: %v", ErrBackend, err)
	}

	return &Artifacts{
		Params:       wrapArtifact(kindParams, shape, paramsBuf.Bytes()),
		ProvingKey:   wrapArtifact(kindProvingKey, shape, pkBuf.Bytes()),
		VerifyingKey: wrapArtifact(kindVerifyingKey, shape, vkBuf.Bytes()),
	}, nil
}

// Prove builds the witness for a concrete (public key, message, signature)
// triple, self-checks it against the circuit, and runs the backend prover.
// Modulus and signature cross the boundary as little-endian byte buffers.
// Proving is randomized: two proofs over the same witness are valid but not
// bit-identical.
func Prove(params, provingKey []byte, shape circuits.Shape, modulusLE, message, signatureLE []byte) ([]byte, error) {
	paramsPayload, err := unwrapArtifact(kindParams, shape, params)
	if err != nil {
		return nil, err
	}
	pkPayload, err := unwrapArtifact(kindProvingKey, shape, provingKey)
	if err != nil {
		return nil, err
	}

	ccs := plonk.NewCS(ecc.BN254)
	if _, err := ccs.ReadFrom(bytes.NewReader(paramsPayload)); err != nil {
		return nil, fmt.Errorf("%w: parameters: %v", ErrParse, err)
	}
	pk := plonk.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(bytes.NewReader(pkPayload)); err != nil {
		return nil, fmt.Errorf("%w: proving key: %v", ErrParse, err)
	}

	assignment, err := buildAssignment(shape, modulusLE, message, signatureLE)
	if err != nil {
		return nil, err
	}

	// Self-check before the expensive proving step: a witness that does not
	// satisfy the circuit must fail here with a diagnostic, never produce a
	// garbage proof.
	if err := test.IsSolved(circuits.NewPkcs1v15Circuit(shape), assignment, ecc.BN254.ScalarField()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsatisfiedCircuit, err)
	}

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("%w: witness: %v", ErrBackend, err)
	}

	start := time.Now()
	proof, err := plonk.Prove(ccs, pk, witness,
		backend.WithSolverOptions(solver.WithHints(bigint.Hints()...)))
	if err != nil {
		return nil, fmt.Errorf("%w: prove: %v", ErrBackend, err)
	}
	logger.Info().Stringer("shape", shape).Dur("took", time.Since(start)).Msg("proof generated")

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: serialize proof: %v", ErrBackend, err)
	}
	return wrapArtifact(kindProof, shape, buf.Bytes()), nil
}

// Verify recomputes the proof's commitments against the verifying key. A
// cryptographically invalid proof yields (false, nil); malformed buffers
// and shape mismatches are errors.
func Verify(params, verifyingKey, proof []byte, shape circuits.Shape) (bool, error) {
	if _, err := unwrapArtifact(kindParams, shape, params); err != nil {
		return false, err
	}
	vkPayload, err := unwrapArtifact(kindVerifyingKey, shape, verifyingKey)
	if err != nil {
		return false, err
	}
	proofPayload, err := unwrapArtifact(kindProof, shape, proof)
	if err != nil {
		return false, err
	}

	vk := plonk.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(vkPayload)); err != nil {
		return false, fmt.Errorf("%w: verifying key: %v", ErrParse, err)
	}
	backendProof := plonk.NewProof(ecc.BN254)
	if _, err := backendProof.ReadFrom(bytes.NewReader(proofPayload)); err != nil {
		return false, fmt.Errorf("%w: proof: %v", ErrParse, err)
	}

	// The stock circuits have no public inputs; the public witness is the
	// empty assignment of the shape's skeleton.
	publicWitness, err := frontend.NewWitness(circuits.NewPkcs1v15Circuit(shape), ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("%w: public witness: %v", ErrBackend, err)
	}

	if err := plonk.Verify(backendProof, vk, publicWitness); err != nil {
		logger.Debug().Stringer("shape", shape).Err(err).Msg("proof rejected")
		return false, nil
	}
	return true, nil
}

// buildAssignment converts boundary byte buffers into the circuit's limb and
// byte witnesses, enforcing the shape's size bounds first.
func buildAssignment(shape circuits.Shape, modulusLE, message, signatureLE []byte) (*circuits.Pkcs1v15Circuit, error) {
	if uint(len(message)) > shape.MaxMsgLen {
		return nil, fmt.Errorf("%w: message of %d bytes exceeds the shape maximum %d", ErrRangeViolation, len(message), shape.MaxMsgLen)
	}
	modulus := utils.BigFromLE(modulusLE)
	signature := utils.BigFromLE(signatureLE)
	if uint(modulus.BitLen()) > shape.ModulusBits {
		return nil, fmt.Errorf("%w: modulus of %d bits exceeds the shape's %d", ErrRangeViolation, modulus.BitLen(), shape.ModulusBits)
	}
	if uint(signature.BitLen()) > shape.ModulusBits {
		return nil, fmt.Errorf("%w: signature of %d bits exceeds the shape's %d", ErrRangeViolation, signature.BitLen(), shape.ModulusBits)
	}

	modulusLimbs, err := bigint.Decompose(modulus, shape.NbLimbs(), circuits.LimbWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRangeViolation, err)
	}
	signatureLimbs, err := bigint.Decompose(signature, shape.NbLimbs(), circuits.LimbWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRangeViolation, err)
	}

	assignment := circuits.NewPkcs1v15Circuit(shape)
	assignment.Modulus = utils.LimbVariables(modulusLimbs)
	assignment.Signature = utils.LimbVariables(signatureLimbs)
	assignment.MsgLen = len(message)

	if shape.HashInCircuit {
		msgWitness, err := utils.BytesToU8(message, int(shape.MaxMsgLen))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRangeViolation, err)
		}
		assignment.Message = msgWitness
	} else {
		digest := sha256.Sum256(message)
		digestWitness, err := utils.BytesToU8(digest[:], len(digest))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRangeViolation, err)
		}
		assignment.Digest = digestWitness
	}
	return assignment, nil
}
