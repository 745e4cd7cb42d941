package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one corner of the shared particle quad: local position plus
// texture coordinate. The same four vertices are reused by every instance in
// a draw call.
type Vertex struct {
	Pos mgl32.Vec2
	UV  mgl32.Vec2
}

// QuadVertices returns the canonical unit quad, centered on the origin so
// that scaling by the instance size keeps the particle position at the quad
// center. Winding matches QuadIndices.
func QuadVertices() [4]Vertex {
	return [4]Vertex{
		{Pos: mgl32.Vec2{-1, 1}, UV: mgl32.Vec2{0, 0}},
		{Pos: mgl32.Vec2{-1, -1}, UV: mgl32.Vec2{0, 1}},
		{Pos: mgl32.Vec2{1, -1}, UV: mgl32.Vec2{1, 1}},
		{Pos: mgl32.Vec2{1, 1}, UV: mgl32.Vec2{1, 0}},
	}
}

// QuadIndices returns the two triangles 0-1-3 and 3-1-2.
func QuadIndices() [6]uint32 {
	return [6]uint32{0, 1, 3, 3, 1, 2}
}
