package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidTexture(c mgl32.Vec4) *Texture {
	t := NewTexture(1, 1)
	t.Fill(c)
	return t
}

func TestRasterizeTilesFourQuadsWithoutOverlap(t *testing.T) {
	target := NewPixmap(4, 4)
	proj := Projection(mgl32.Vec2{2, 2}, mgl32.Vec2{2, 2})

	colors := []mgl32.Vec4{
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
		{1, 1, 0, 1},
	}
	textures := make([]*Texture, len(colors))
	for i, c := range colors {
		textures[i] = solidTexture(c)
	}

	// Four size-1 quads (2 world units across) tiling the 4x4 world rect,
	// tint alpha 0 so each region shows its layer color untouched.
	instances := []Instance{
		{Size: 1, Pos: mgl32.Vec2{1, 1}, Texture: 0, Color: mgl32.Vec4{1, 1, 1, 0}},
		{Size: 1, Pos: mgl32.Vec2{3, 1}, Texture: 1, Color: mgl32.Vec4{1, 1, 1, 0}},
		{Size: 1, Pos: mgl32.Vec2{1, 3}, Texture: 2, Color: mgl32.Vec4{1, 1, 1, 0}},
		{Size: 1, Pos: mgl32.Vec2{3, 3}, Texture: 3, Color: mgl32.Vec4{1, 1, 1, 0}},
	}
	Rasterize(target, proj, instances, textures)

	// World y points up, pixel y points down: the instance at (1,1) lands in
	// the bottom-left pixel block.
	expect := func(x0, y0 int, want mgl32.Vec4) {
		for y := y0; y < y0+2; y++ {
			for x := x0; x < x0+2; x++ {
				require.Equal(t, want, target.Get(x, y), "pixel (%d,%d)", x, y)
			}
		}
	}
	expect(0, 2, colors[0])
	expect(2, 2, colors[1])
	expect(0, 0, colors[2])
	expect(2, 0, colors[3])
}

func TestRasterizeZeroSizeCoversNothing(t *testing.T) {
	target := NewPixmap(4, 4)
	target.Clear(mgl32.Vec4{0, 0, 0, 1})
	proj := Projection(mgl32.Vec2{2, 2}, mgl32.Vec2{2, 2})

	instances := []Instance{
		{Size: 0, Pos: mgl32.Vec2{2, 2}, Texture: 0, Color: mgl32.Vec4{1, 1, 1, 1}},
	}
	Rasterize(target, proj, instances, []*Texture{solidTexture(mgl32.Vec4{1, 0, 0, 1})})

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, target.Get(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestRasterizeTargetBlend(t *testing.T) {
	target := NewPixmap(2, 2)
	target.Clear(mgl32.Vec4{0, 0, 1, 1})
	proj := Projection(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1})

	// A half-transparent red quad over a blue target: color blends src-over,
	// alpha takes the max.
	instances := []Instance{
		{Size: 1, Pos: mgl32.Vec2{0, 0}, Texture: 0, Color: mgl32.Vec4{1, 1, 1, 0}},
	}
	Rasterize(target, proj, instances, []*Texture{solidTexture(mgl32.Vec4{1, 0, 0, 0.5})})

	got := target.Get(0, 0)
	assert.InDelta(t, 0.5, got.X(), 1e-6)
	assert.InDelta(t, 0.0, got.Y(), 1e-6)
	assert.InDelta(t, 0.5, got.Z(), 1e-6)
	assert.InDelta(t, 1.0, got.W(), 1e-6)
}

func TestRasterizeClipsToTarget(t *testing.T) {
	target := NewPixmap(2, 2)
	proj := Projection(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1})

	// Quad four times larger than the view; must fill the target and not
	// panic on out-of-range spans.
	instances := []Instance{
		{Size: 4, Pos: mgl32.Vec2{0, 0}, Texture: 0, Color: mgl32.Vec4{1, 1, 1, 0}},
	}
	Rasterize(target, proj, instances, []*Texture{solidTexture(mgl32.Vec4{0, 1, 0, 1})})

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, target.Get(x, y))
		}
	}
}
