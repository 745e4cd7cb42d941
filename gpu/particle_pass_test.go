package gpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

// The buffer layouts are the contract between core.Vertex/core.Instance and
// the shader's @location declarations; these tests pin them down without a
// device.

func TestQuadVertexLayout(t *testing.T) {
	layout := quadVertexLayout()
	if layout.ArrayStride != 16 {
		t.Errorf("vertex stride %d, want 16", layout.ArrayStride)
	}
	if layout.StepMode != wgpu.VertexStepModeVertex {
		t.Errorf("vertex buffer must step per vertex")
	}
	want := []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
	}
	if len(layout.Attributes) != len(want) {
		t.Fatalf("got %d attributes, want %d", len(layout.Attributes), len(want))
	}
	for i, attr := range layout.Attributes {
		if attr != want[i] {
			t.Errorf("attribute %d = %+v, want %+v", i, attr, want[i])
		}
	}
}

func TestInstanceLayout(t *testing.T) {
	layout := instanceLayout()
	if layout.ArrayStride != 32 {
		t.Errorf("instance stride %d, want 32", layout.ArrayStride)
	}
	if layout.StepMode != wgpu.VertexStepModeInstance {
		t.Errorf("instance buffer must step per instance")
	}
	want := []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32, Offset: 0, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 4, ShaderLocation: 3},
		{Format: wgpu.VertexFormatUint32, Offset: 12, ShaderLocation: 4},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 5},
	}
	if len(layout.Attributes) != len(want) {
		t.Fatalf("got %d attributes, want %d", len(layout.Attributes), len(want))
	}
	for i, attr := range layout.Attributes {
		if attr != want[i] {
			t.Errorf("attribute %d = %+v, want %+v", i, attr, want[i])
		}
	}
}

func TestLayoutLocationsAreDisjoint(t *testing.T) {
	seen := map[uint32]bool{}
	for _, layout := range []wgpu.VertexBufferLayout{quadVertexLayout(), instanceLayout()} {
		for _, attr := range layout.Attributes {
			if seen[attr.ShaderLocation] {
				t.Errorf("shader location %d bound twice", attr.ShaderLocation)
			}
			seen[attr.ShaderLocation] = true
		}
	}
}
