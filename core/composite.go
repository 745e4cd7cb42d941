package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Texture is a CPU-side texel grid, the reference stand-in for one layer of
// the GPU texture array. Texels are RGBA floats in [0,1].
type Texture struct {
	Width  int
	Height int
	Texels []mgl32.Vec4
}

// NewTexture allocates a zeroed (fully transparent) texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Texels: make([]mgl32.Vec4, width*height),
	}
}

// Set writes one texel. Out-of-range coordinates are ignored.
func (t *Texture) Set(x, y int, c mgl32.Vec4) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Texels[y*t.Width+x] = c
}

// Fill sets every texel to c.
func (t *Texture) Fill(c mgl32.Vec4) {
	for i := range t.Texels {
		t.Texels[i] = c
	}
}

// Sample reads the texture at normalized uv with clamp-to-edge addressing
// and nearest filtering. Filtering quality is a sampler concern on the GPU
// path; the reference keeps sampling exact so tests can compare colors
// without tolerance for filter kernels.
func (t *Texture) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	x := int(uv.X() * float32(t.Width))
	y := int(uv.Y() * float32(t.Height))
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return t.Texels[y*t.Width+x]
}

// BlendTint is the CPU reference of the fragment stage blend in
// particles.wgsl: mix(sampled, tint, sampled.a * tint.a). The factor
// multiplies both alphas so the tint only takes over where the source texel
// carries coverage and the tint itself carries opacity. This is the
// pipeline's defining rule; it is deliberately not a conventional alpha-over.
func BlendTint(sampled, tint mgl32.Vec4) mgl32.Vec4 {
	f := sampled.W() * tint.W()
	return mix4(sampled, tint, f)
}

// CompositeFragment is the CPU reference of the whole fragment stage: sample
// the indexed texture, then apply the tint blend. The index must be a valid
// index into textures; that contract is the caller's to uphold, exactly as on
// the GPU path.
func CompositeFragment(v Varyings, textures []*Texture) mgl32.Vec4 {
	sampled := textures[v.Texture].Sample(v.UV)
	return BlendTint(sampled, v.Color)
}

// mix4 is WGSL mix() over vec4: a*(1-t) + b*t per component.
func mix4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
