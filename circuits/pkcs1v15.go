package circuits

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
	"github.com/consensys/gnark/std/math/uints"

	"github.com/zkrsa/circuits/circuits/bigint"
	"github.com/zkrsa/circuits/circuits/rsa"
)

// Pkcs1v15Circuit proves knowledge of a (public key, message, signature)
// triple satisfying RSA PKCS#1 v1.5 with SHA-256. Everything is a private
// witness: the statement is existential and there are no public inputs in
// the stock configuration.
type Pkcs1v15Circuit struct {
	Modulus   []frontend.Variable
	Signature []frontend.Variable
	Message   []uints.U8
	MsgLen    frontend.Variable

	// Digest is only present when the shape disables in-circuit hashing; it
	// is then trusted to be the SHA-256 digest of the message.
	Digest []uints.U8

	shape Shape
}

// NewPkcs1v15Circuit sizes a circuit skeleton (or an assignment template)
// for the given shape. One builder serves every shape; the tuple is checked
// at runtime instead of being baked into distinct circuit types.
func NewPkcs1v15Circuit(shape Shape) *Pkcs1v15Circuit {
	c := &Pkcs1v15Circuit{
		Modulus:   make([]frontend.Variable, shape.NbLimbs()),
		Signature: make([]frontend.Variable, shape.NbLimbs()),
		shape:     shape,
	}
	if shape.HashInCircuit {
		c.Message = make([]uints.U8, shape.MaxMsgLen)
	} else {
		c.Digest = make([]uints.U8, rsa.DigestLen)
	}
	return c
}

func (c *Pkcs1v15Circuit) Shape() Shape { return c.shape }

func (c *Pkcs1v15Circuit) Define(api frontend.API) error {
	if err := c.shape.Validate(); err != nil {
		return err
	}

	chip := bigint.New(api, bigint.Config{LimbWidth: LimbWidth, NbLimbs: c.shape.NbLimbs()})
	modulus, err := chip.Assign(c.Modulus)
	if err != nil {
		return err
	}
	signature, err := chip.Assign(c.Signature)
	if err != nil {
		return err
	}

	digest, err := c.digest(api)
	if err != nil {
		return err
	}

	pub := rsa.PublicKey{N: modulus, E: bigint.FixedExponent(big.NewInt(rsa.DefaultExponent))}
	return rsa.Verify(api, chip, pub, digest, rsa.Signature{S: signature})
}

// digest recomputes the SHA-256 digest of the message in-circuit, or
// byte-checks the trusted witness digest when the shape disables hashing.
func (c *Pkcs1v15Circuit) digest(api frontend.API) ([]uints.U8, error) {
	if c.shape.HashInCircuit {
		if uint(len(c.Message)) != c.shape.MaxMsgLen {
			return nil, fmt.Errorf("expected %d message bytes, got %d", c.shape.MaxMsgLen, len(c.Message))
		}
		sha, err := sha2.New(api)
		if err != nil {
			return nil, err
		}
		sha.Write(c.Message)
		return sha.FixedLengthSum(c.MsgLen), nil
	}

	if len(c.Digest) != rsa.DigestLen {
		return nil, fmt.Errorf("expected %d digest bytes, got %d", rsa.DigestLen, len(c.Digest))
	}
	field, err := uints.New[uints.U32](api)
	if err != nil {
		return nil, err
	}
	digest := make([]uints.U8, len(c.Digest))
	for i := range c.Digest {
		digest[i] = field.ByteValueOf(c.Digest[i].Val)
	}
	// The message stays off-circuit in this mode; still pin the declared
	// length so the witness layout matches the skeleton.
	api.AssertIsLessOrEqual(c.MsgLen, int(c.shape.MaxMsgLen))
	return digest, nil
}
