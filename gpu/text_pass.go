package gpu

import (
	"image"
	"unsafe"

	"github.com/DangerousVegetable/smog/core"
	"github.com/DangerousVegetable/smog/shaders"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextOverlayPass draws the debug text on top of the particle output. The
// glyph atlas is uploaded once as an R8 texture; vertices are rebuilt by the
// host whenever the overlay content changes.
type TextOverlayPass struct {
	Pipeline  *wgpu.RenderPipeline
	BindGroup *wgpu.BindGroup

	VertexBuffer *wgpu.Buffer
	VertexCount  uint32

	Device *wgpu.Device
}

func NewTextOverlayPass(device *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat, atlas *image.Alpha) (*TextOverlayPass, error) {
	w := atlas.Bounds().Dx()
	h := atlas.Bounds().Dy()

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "TextAtlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	err = queue.WriteTexture(tex.AsImageCopy(), atlas.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(atlas.Stride),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})
	if err != nil {
		return nil, err
	}
	atlasView, err := tex.CreateView(nil)
	if err != nil {
		return nil, err
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}

	textMod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "TextShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer textMod.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "TextPipeline",
		Vertex: wgpu.VertexState{
			Module:     textMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     textMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TextBG",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: atlasView},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		return nil, err
	}

	return &TextOverlayPass{
		Pipeline:  pipeline,
		BindGroup: bindGroup,
		Device:    device,
	}, nil
}

// Update uploads this frame's overlay vertices.
func (p *TextOverlayPass) Update(queue *wgpu.Queue, vertices []core.TextVertex) {
	p.VertexCount = uint32(len(vertices))
	if p.VertexCount == 0 {
		return
	}

	vSize := uint64(len(vertices)) * uint64(unsafe.Sizeof(core.TextVertex{}))
	if p.VertexBuffer == nil || p.VertexBuffer.GetSize() < vSize {
		if p.VertexBuffer != nil {
			p.VertexBuffer.Release()
		}
		var err error
		p.VertexBuffer, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "TextVertexBuffer",
			Size:  vSize,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
	}
	queue.WriteBuffer(p.VertexBuffer, 0,
		unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), vSize))
}

// Draw records the overlay draw; call after the particle pass so the text
// stays on top.
func (p *TextOverlayPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.VertexCount == 0 || p.VertexBuffer == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.Draw(p.VertexCount, 1, 0, 0)
}
