package pipeline

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeededEntropyDeterministic(t *testing.T) {
	a := make([]byte, 100)
	b := make([]byte, 100)
	_, err := io.ReadFull(SeededEntropy([]byte("seed")), a)
	require.NoError(t, err)
	_, err = io.ReadFull(SeededEntropy([]byte("seed")), b)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c := make([]byte, 100)
	_, err = io.ReadFull(SeededEntropy([]byte("other seed")), c)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestSeededEntropyStreams(t *testing.T) {
	// Reading in two chunks must equal reading at once.
	r := SeededEntropy([]byte("seed"))
	head := make([]byte, 7)
	tail := make([]byte, 93)
	_, err := io.ReadFull(r, head)
	require.NoError(t, err)
	_, err = io.ReadFull(r, tail)
	require.NoError(t, err)

	all := make([]byte, 100)
	_, err = io.ReadFull(SeededEntropy([]byte("seed")), all)
	require.NoError(t, err)
	require.Equal(t, all, append(head, tail...))
}
