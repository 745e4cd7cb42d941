package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Rasterize runs the whole reference pipeline for one draw call: every
// instance's quad is transformed, scan-converted, composited against the
// texture set and blended into the target. It mirrors what the GPU does with
// the embedded shader and the pass's blend state, at pixel-center sampling
// precision.
//
// The quad never rotates, so each transformed quad is an axis-aligned
// rectangle in screen space and uv interpolation reduces to a linear map
// across it. Pixels are covered when their center falls inside the half-open
// rect, which keeps adjacent quads exactly non-overlapping.
func Rasterize(target *Pixmap, proj mgl32.Mat4, instances []Instance, textures []*Texture) {
	quad := QuadVertices()
	w := float32(target.Width())
	h := float32(target.Height())

	for _, inst := range instances {
		// Corner 0 carries uv (0,0), corner 2 carries uv (1,1).
		p0 := toScreen(TransformVertex(proj, quad[0], inst).ClipPos, w, h)
		p2 := toScreen(TransformVertex(proj, quad[2], inst).ClipPos, w, h)

		x0, x1 := p0.X(), p2.X()
		y0, y1 := p0.Y(), p2.Y()
		minX, maxX := minMax(x0, x1)
		minY, maxY := minMax(y0, y1)
		if maxX-minX == 0 || maxY-minY == 0 {
			continue // degenerate quad covers no pixel centers
		}

		startX, endX := clampSpan(minX, maxX, target.Width())
		startY, endY := clampSpan(minY, maxY, target.Height())
		for py := startY; py < endY; py++ {
			for px := startX; px < endX; px++ {
				cx := float32(px) + 0.5
				cy := float32(py) + 0.5
				if cx < minX || cx >= maxX || cy < minY || cy >= maxY {
					continue
				}
				frag := Varyings{
					UV:      mgl32.Vec2{(cx - x0) / (x1 - x0), (cy - y0) / (y1 - y0)},
					Texture: inst.Texture,
					Color:   inst.Color,
				}
				src := CompositeFragment(frag, textures)
				target.Set(px, py, blendTarget(src, target.Get(px, py)))
			}
		}
	}
}

// toScreen applies the perspective divide and the NDC-to-pixel mapping
// (y flipped, origin top-left).
func toScreen(clip mgl32.Vec4, w, h float32) mgl32.Vec2 {
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return mgl32.Vec2{(ndcX + 1) * 0.5 * w, (1 - ndcY) * 0.5 * h}
}

// blendTarget applies the pass's color-target blend state: color src-alpha
// over, alpha one/one with max.
func blendTarget(src, dst mgl32.Vec4) mgl32.Vec4 {
	a := src.W()
	return mgl32.Vec4{
		src.X()*a + dst.X()*(1-a),
		src.Y()*a + dst.Y()*(1-a),
		src.Z()*a + dst.Z()*(1-a),
		maxf(src.W(), dst.W()),
	}
}

// clampSpan converts a float pixel span to loop bounds clipped to the target.
func clampSpan(min, max float32, limit int) (int, int) {
	start := int(min)
	if min < 0 {
		start = 0
	}
	end := int(max) + 1
	if end > limit {
		end = limit
	}
	return start, end
}

func minMax(a, b float32) (float32, float32) {
	if a <= b {
		return a, b
	}
	return b, a
}

func maxf(a, b float32) float32 {
	if a >= b {
		return a
	}
	return b
}
