package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Varyings is the record one vertex invocation hands to rasterization:
// clip-space position plus the interpolated per-instance attributes. Texture
// is flat-interpolated (never blended between vertices).
type Varyings struct {
	ClipPos mgl32.Vec4
	UV      mgl32.Vec2
	Texture uint32
	Color   mgl32.Vec4
}

// Projection builds the clip-from-world matrix for a view rectangle centered
// on center, halfExtent away from it on each axis. This is what the host
// uploads as the per-frame projection uniform.
func Projection(center mgl32.Vec2, halfExtent mgl32.Vec2) mgl32.Mat4 {
	return mgl32.Ortho(
		center.X()-halfExtent.X(), center.X()+halfExtent.X(),
		center.Y()-halfExtent.Y(), center.Y()+halfExtent.Y(),
		-1, 1,
	)
}

// TransformVertex is the CPU reference of the vertex stage in particles.wgsl:
// uniform scale by the instance size, translate to the instance position,
// project to clip space. The passthrough attributes are copied verbatim.
// Arithmetic is closed over finite inputs; NaN/Inf propagate as-is.
func TransformVertex(proj mgl32.Mat4, v Vertex, inst Instance) Varyings {
	world := v.Pos.Mul(inst.Size).Add(inst.Pos)
	clip := proj.Mul4x1(mgl32.Vec4{world.X(), world.Y(), 0, 1})
	return Varyings{
		ClipPos: clip,
		UV:      v.UV,
		Texture: inst.Texture,
		Color:   inst.Color,
	}
}
