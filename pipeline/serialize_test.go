package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkrsa/circuits/circuits"
)

func TestArtifactRoundTrip(t *testing.T) {
	payload := []byte("not a real proving key")
	buf := wrapArtifact(kindProvingKey, circuits.Shape1024x64, payload)

	got, err := unwrapArtifact(kindProvingKey, circuits.Shape1024x64, buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestArtifactKindMismatch(t *testing.T) {
	buf := wrapArtifact(kindProvingKey, circuits.Shape1024x64, []byte("payload"))
	_, err := unwrapArtifact(kindVerifyingKey, circuits.Shape1024x64, buf)
	require.ErrorIs(t, err, ErrParse)
}

func TestArtifactShapeMismatch(t *testing.T) {
	buf := wrapArtifact(kindParams, circuits.Shape1024x64, []byte("payload"))
	_, err := unwrapArtifact(kindParams, circuits.Shape1024x128, buf)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestArtifactUnknownShape(t *testing.T) {
	custom := circuits.Shape{K: 19, ModulusBits: 2048, MaxMsgLen: 32, HashInCircuit: true}
	buf := wrapArtifact(kindParams, custom, []byte("payload"))
	_, err := unwrapArtifact(kindParams, circuits.Shape1024x64, buf)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestArtifactMalformed(t *testing.T) {
	buf := wrapArtifact(kindProof, circuits.Shape1024x64, []byte("payload"))

	truncated := buf[:headerLen-1]
	_, err := unwrapArtifact(kindProof, circuits.Shape1024x64, truncated)
	require.ErrorIs(t, err, ErrParse)

	badMagic := append([]byte(nil), buf...)
	badMagic[0] = 'X'
	_, err = unwrapArtifact(kindProof, circuits.Shape1024x64, badMagic)
	require.ErrorIs(t, err, ErrParse)

	badVersion := append([]byte(nil), buf...)
	badVersion[4] = artifactVersion + 1
	_, err = unwrapArtifact(kindProof, circuits.Shape1024x64, badVersion)
	require.ErrorIs(t, err, ErrParse)
}
