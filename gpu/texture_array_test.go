package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgba8(width, height uint32) []uint8 {
	return make([]uint8, width*height*4)
}

func TestTextureArrayBuilderIndexStability(t *testing.T) {
	b := NewTextureArrayBuilder()

	idA, indexA, err := b.Add(rgba8(8, 8), 8, 8)
	require.NoError(t, err)
	idB, indexB, err := b.Add(rgba8(8, 8), 8, 8)
	require.NoError(t, err)
	idC, indexC, err := b.Add(rgba8(8, 8), 8, 8)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), indexA)
	assert.Equal(t, uint32(1), indexB)
	assert.Equal(t, uint32(2), indexC)
	assert.Equal(t, 3, b.Len())

	// Handles stay resolvable after later registrations.
	for _, tc := range []struct {
		id   TextureId
		want uint32
	}{
		{idA, 0}, {idB, 1}, {idC, 2},
	} {
		got, ok := b.Index(tc.id)
		require.True(t, ok)
		assert.Equal(t, tc.want, got)
	}
}

func TestTextureArrayBuilderUniqueHandles(t *testing.T) {
	b := NewTextureArrayBuilder()
	idA, _, err := b.Add(rgba8(4, 4), 4, 4)
	require.NoError(t, err)
	idB, _, err := b.Add(rgba8(4, 4), 4, 4)
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB)
}

func TestTextureArrayBuilderRejectsZeroExtent(t *testing.T) {
	b := NewTextureArrayBuilder()
	_, _, err := b.Add(nil, 0, 8)
	assert.Error(t, err)
	_, _, err = b.Add(nil, 8, 0)
	assert.Error(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestTextureArrayBuilderRejectsWrongByteLength(t *testing.T) {
	b := NewTextureArrayBuilder()
	_, _, err := b.Add(make([]uint8, 8*8*3), 8, 8)
	assert.Error(t, err)

	_, _, err = b.Add(make([]uint8, 8*8*4+1), 8, 8)
	assert.Error(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestTextureArrayBuilderRejectsExtentMismatch(t *testing.T) {
	b := NewTextureArrayBuilder()
	_, _, err := b.Add(rgba8(8, 8), 8, 8)
	require.NoError(t, err)

	_, _, err = b.Add(rgba8(4, 4), 4, 4)
	assert.Error(t, err)
	assert.Equal(t, 1, b.Len())

	got, _, err := b.Add(rgba8(8, 8), 8, 8)
	require.NoError(t, err)
	index, ok := b.Index(got)
	require.True(t, ok)
	assert.Equal(t, uint32(1), index)
}

func TestUnknownTextureId(t *testing.T) {
	b := NewTextureArrayBuilder()
	_, ok := b.Index(TextureId("nope"))
	assert.False(t, ok)
}
