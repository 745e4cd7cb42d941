package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Particle is the external particle system's view of one live particle. The
// render pipeline only ever reads it; creation, movement and destruction
// happen on the caller's side, once per frame.
type Particle struct {
	Pos     mgl32.Vec2
	Radius  float32
	Texture uint32
	Color   mgl32.Vec4
}

// Instance matches the per-instance vertex buffer layout in particles.wgsl:
// struct InstanceInput { f32 size; vec2 pos; u32 texture; vec4 color; }
// Locations 2..5, stride 32 bytes, stepped once per instance.
type Instance struct {
	Size    float32
	Pos     mgl32.Vec2
	Texture uint32
	Color   mgl32.Vec4
}

// NewInstance packs one particle into its per-draw attribute set.
func NewInstance(p Particle) Instance {
	return Instance{
		Size:    p.Radius,
		Pos:     p.Pos,
		Texture: p.Texture,
		Color:   p.Color,
	}
}

// CollectInstances packs a particle slice into the instance buffer layout,
// reusing dst's backing array when it is large enough.
func CollectInstances(dst []Instance, particles []Particle) []Instance {
	dst = dst[:0]
	for _, p := range particles {
		dst = append(dst, NewInstance(p))
	}
	return dst
}
