package pipeline

import "errors"

var (
	// ErrParse reports a malformed serialized artifact or input buffer.
	ErrParse = errors.New("malformed artifact")

	// ErrShapeMismatch reports artifacts whose circuit shapes disagree.
	ErrShapeMismatch = errors.New("circuit shape mismatch")

	// ErrRangeViolation reports a key, signature or message exceeding the
	// shape's configured bounds.
	ErrRangeViolation = errors.New("value out of range for circuit shape")

	// ErrUnsatisfiedCircuit reports a witness that does not satisfy the
	// circuit relation, e.g. a signature that does not actually verify.
	ErrUnsatisfiedCircuit = errors.New("witness does not satisfy the circuit")

	// ErrBackend reports an internal proof-system failure, e.g. insufficient
	// parameter capacity.
	ErrBackend = errors.New("proof backend failure")
)
