package circuits

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShapeIDRoundTrip(t *testing.T) {
	seen := make(map[uint32]Shape)
	for _, s := range Shapes() {
		require.NoError(t, s.Validate())

		id := s.ID()
		prev, dup := seen[id]
		require.False(t, dup, "shapes %s and %s collide on id %#x", prev, s, id)
		seen[id] = s

		got, ok := ShapeByID(id)
		require.True(t, ok)
		require.Equal(t, s, got)
	}
}

func TestShapeByIDUnknown(t *testing.T) {
	_, ok := ShapeByID(0xdeadbeef)
	require.False(t, ok)
}

func TestShapeValidate(t *testing.T) {
	require.Error(t, Shape{K: 17, ModulusBits: 1000, MaxMsgLen: 64}.Validate())
	require.Error(t, Shape{K: 17, ModulusBits: 1024, MaxMsgLen: 0}.Validate())
	require.Error(t, Shape{K: 0, ModulusBits: 1024, MaxMsgLen: 64}.Validate())
	require.Error(t, Shape{K: 29, ModulusBits: 1024, MaxMsgLen: 64}.Validate())
	require.NoError(t, Shape{K: 17, ModulusBits: 2048, MaxMsgLen: 64, HashInCircuit: true}.Validate())
}

func TestShapeNbLimbs(t *testing.T) {
	require.Equal(t, uint(16), Shape1024x64.NbLimbs())
	require.Equal(t, uint(32), Shape{ModulusBits: 2048}.NbLimbs())
}
