package gpu

import (
	"fmt"
	"unsafe"

	"github.com/DangerousVegetable/smog/core"
	"github.com/DangerousVegetable/smog/shaders"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const projectionUniformSize = uint64(unsafe.Sizeof(mgl32.Mat4{}))

// ParticleRenderPass draws every live particle in one instanced call: the
// shared unit quad steps per vertex, the particle attributes step per
// instance, and the fragment stage composites against the texture array.
type ParticleRenderPass struct {
	Pipeline *wgpu.RenderPipeline

	VertexBuffer *wgpu.Buffer
	IndexBuffer  *wgpu.Buffer

	UniformBuffer    *wgpu.Buffer
	UniformBindGroup *wgpu.BindGroup
	TextureBindGroup *wgpu.BindGroup

	InstanceBuffer *wgpu.Buffer
	InstanceCap    uint32
	InstanceCount  uint32

	Device *wgpu.Device
}

// quadVertexLayout describes the static quad buffer: locations 0 (pos) and
// 1 (uv), stepped per vertex.
func quadVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(core.Vertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		},
	}
}

// instanceLayout describes the particle buffer: locations 2 (size), 3 (pos),
// 4 (texture index), 5 (tint), stepped per instance.
func instanceLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(core.Instance{})),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32, Offset: 0, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 4, ShaderLocation: 3},
			{Format: wgpu.VertexFormatUint32, Offset: 12, ShaderLocation: 4},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 5},
		},
	}
}

// NewParticleRenderPass builds the pipeline against the surface format and
// binds the given texture array. The projection uniform starts as identity;
// call UpdateProjection before the first frame.
func NewParticleRenderPass(device *wgpu.Device, format wgpu.TextureFormat, textures *TextureArray) (*ParticleRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticleShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticlesWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	// Group 0: projection uniform.
	uniformBgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ParticleUniformBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: projectionUniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	// Group 1: texture array plus the shared sampler.
	textureBgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ParticleTextureBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2DArray,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{uniformBgl, textureBgl},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ParticlePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				quadVertexLayout(),
				instanceLayout(),
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationMax,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOne,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	p := &ParticleRenderPass{
		Pipeline: pipeline,
		Device:   device,
	}

	// Static quad geometry, uploaded once.
	vertices := core.QuadVertices()
	vSize := uint64(len(vertices)) * uint64(unsafe.Sizeof(core.Vertex{}))
	p.VertexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "ParticleQuadVertexBuffer",
		Contents: unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), vSize),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, err
	}

	indices := core.QuadIndices()
	p.IndexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "ParticleQuadIndexBuffer",
		Contents: wgpu.ToBytes(indices[:]),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return nil, err
	}

	p.UniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticleProjectionBuffer",
		Size:  projectionUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	p.UniformBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ParticleUniformBG",
		Layout: uniformBgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.UniformBuffer, Size: projectionUniformSize},
		},
	})
	if err != nil {
		return nil, err
	}

	p.TextureBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ParticleTextureBG",
		Layout: textureBgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: textures.View},
			{Binding: 1, Sampler: textures.Sampler},
		},
	})
	if err != nil {
		return nil, err
	}

	proj := mgl32.Ident4()
	p.UpdateProjection(device.GetQueue(), proj)

	return p, nil
}

// UpdateProjection writes the clip-from-world matrix into the uniform
// buffer. Call once per frame, before the draw that consumes it.
func (p *ParticleRenderPass) UpdateProjection(queue *wgpu.Queue, proj mgl32.Mat4) {
	queue.WriteBuffer(p.UniformBuffer, 0,
		unsafe.Slice((*byte)(unsafe.Pointer(&proj)), projectionUniformSize))
}

// Update uploads this frame's instances, growing the instance buffer with
// headroom when it runs out of capacity.
func (p *ParticleRenderPass) Update(queue *wgpu.Queue, instances []core.Instance) error {
	p.InstanceCount = uint32(len(instances))
	if p.InstanceCount == 0 {
		return nil
	}

	instanceSize := uint64(unsafe.Sizeof(core.Instance{}))
	if p.InstanceBuffer == nil || p.InstanceCap < p.InstanceCount {
		if p.InstanceBuffer != nil {
			p.InstanceBuffer.Release()
		}
		p.InstanceCap = p.InstanceCount + 256 // headroom to avoid per-frame reallocation
		buf, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "ParticleInstanceBuffer",
			Size:  uint64(p.InstanceCap) * instanceSize,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to grow instance buffer to %d: %w", p.InstanceCap, err)
		}
		p.InstanceBuffer = buf
	}

	sizeBytes := uint64(p.InstanceCount) * instanceSize
	queue.WriteBuffer(p.InstanceBuffer, 0,
		unsafe.Slice((*byte)(unsafe.Pointer(&instances[0])), sizeBytes))
	return nil
}

// Draw records the single instanced draw for this frame. No-op when there
// are no live particles.
func (p *ParticleRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.InstanceCount == 0 || p.InstanceBuffer == nil {
		return
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.UniformBindGroup, nil)
	pass.SetBindGroup(1, p.TextureBindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())
	pass.SetIndexBuffer(p.IndexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(6, p.InstanceCount, 0, 0, 0)
}
