package core

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// The GPU reads instances straight out of Go memory, so the struct layout is
// part of the wire contract with the shader.
func TestInstanceMemoryLayout(t *testing.T) {
	var inst Instance
	if size := unsafe.Sizeof(inst); size != 32 {
		t.Fatalf("Instance stride changed: got %d bytes, want 32", size)
	}
	offsets := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Size", unsafe.Offsetof(inst.Size), 0},
		{"Pos", unsafe.Offsetof(inst.Pos), 4},
		{"Texture", unsafe.Offsetof(inst.Texture), 12},
		{"Color", unsafe.Offsetof(inst.Color), 16},
	}
	for _, o := range offsets {
		if o.got != o.want {
			t.Errorf("Instance.%s at offset %d, want %d", o.name, o.got, o.want)
		}
	}
}

func TestVertexMemoryLayout(t *testing.T) {
	var v Vertex
	if size := unsafe.Sizeof(v); size != 16 {
		t.Fatalf("Vertex stride changed: got %d bytes, want 16", size)
	}
	if off := unsafe.Offsetof(v.UV); off != 8 {
		t.Errorf("Vertex.UV at offset %d, want 8", off)
	}
}

func TestNewInstanceMapsParticleFields(t *testing.T) {
	p := Particle{
		Pos:     mgl32.Vec2{3, 4},
		Radius:  1.5,
		Texture: 7,
		Color:   mgl32.Vec4{0.1, 0.2, 0.3, 0.4},
	}
	inst := NewInstance(p)
	if inst.Size != p.Radius || inst.Pos != p.Pos || inst.Texture != p.Texture || inst.Color != p.Color {
		t.Errorf("instance %+v does not mirror particle %+v", inst, p)
	}
}

func TestCollectInstancesReusesBacking(t *testing.T) {
	particles := []Particle{
		{Radius: 1, Texture: 0},
		{Radius: 2, Texture: 1},
	}
	dst := make([]Instance, 0, 8)
	out := CollectInstances(dst, particles)
	if len(out) != 2 {
		t.Fatalf("got %d instances, want 2", len(out))
	}
	if cap(out) != 8 {
		t.Errorf("backing array was reallocated: cap %d, want 8", cap(out))
	}
	if out[0].Size != 1 || out[1].Size != 2 {
		t.Errorf("instances out of order: %+v", out)
	}
}
