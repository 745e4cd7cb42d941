package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestZeroSizeCollapsesQuad(t *testing.T) {
	inst := Instance{
		Size:    0,
		Pos:     mgl32.Vec2{7.5, -3.25},
		Texture: 2,
		Color:   mgl32.Vec4{1, 1, 1, 1},
	}
	proj := mgl32.Ident4()

	for i, v := range QuadVertices() {
		out := TransformVertex(proj, v, inst)
		want := mgl32.Vec4{inst.Pos.X(), inst.Pos.Y(), 0, 1}
		assert.Equal(t, want, out.ClipPos, "corner %d must collapse to the particle position", i)
	}
}

func TestIdentityProjectionAtOrigin(t *testing.T) {
	inst := Instance{Size: 1, Pos: mgl32.Vec2{0, 0}}
	proj := mgl32.Ident4()

	for i, v := range QuadVertices() {
		out := TransformVertex(proj, v, inst)
		want := mgl32.Vec4{v.Pos.X(), v.Pos.Y(), 0, 1}
		assert.Equal(t, want, out.ClipPos, "corner %d must be the raw quad position with z=0, w=1", i)
	}
}

func TestTransformScalesThenTranslates(t *testing.T) {
	inst := Instance{Size: 2, Pos: mgl32.Vec2{10, 20}}
	v := Vertex{Pos: mgl32.Vec2{1, -1}, UV: mgl32.Vec2{1, 1}}

	out := TransformVertex(mgl32.Ident4(), v, inst)
	assert.Equal(t, mgl32.Vec4{12, 18, 0, 1}, out.ClipPos)
}

func TestPassthroughAttributesVerbatim(t *testing.T) {
	inst := Instance{
		Size:    3,
		Pos:     mgl32.Vec2{1, 2},
		Texture: 4,
		Color:   mgl32.Vec4{0.1, 0.2, 0.3, 0.4},
	}
	v := Vertex{Pos: mgl32.Vec2{-1, 1}, UV: mgl32.Vec2{0.25, 0.75}}

	out := TransformVertex(mgl32.Ident4(), v, inst)
	assert.Equal(t, v.UV, out.UV)
	assert.Equal(t, inst.Texture, out.Texture)
	assert.Equal(t, inst.Color, out.Color)
}

func TestProjectionMapsViewRectToClipSpace(t *testing.T) {
	proj := Projection(mgl32.Vec2{10, 5}, mgl32.Vec2{4, 2})

	corners := []struct {
		world mgl32.Vec2
		clip  mgl32.Vec2
	}{
		{mgl32.Vec2{10, 5}, mgl32.Vec2{0, 0}},
		{mgl32.Vec2{6, 3}, mgl32.Vec2{-1, -1}},
		{mgl32.Vec2{14, 7}, mgl32.Vec2{1, 1}},
	}
	for _, c := range corners {
		clip := proj.Mul4x1(mgl32.Vec4{c.world.X(), c.world.Y(), 0, 1})
		assert.InDelta(t, c.clip.X(), clip.X(), 1e-6)
		assert.InDelta(t, c.clip.Y(), clip.Y(), 1e-6)
		assert.InDelta(t, 1.0, clip.W(), 1e-6)
	}
}
