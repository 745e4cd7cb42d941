package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// TextureId is the stable handle returned when a texture is registered.
type TextureId string

// TextureArrayBuilder accumulates same-extent RGBA8 textures on the CPU and
// assigns each one a stable layer index. Indices are handed out in
// registration order and never move, which is what lets particle instances
// carry a raw index across frames.
type TextureArrayBuilder struct {
	width   uint32
	height  uint32
	layers  [][]uint8
	indices map[TextureId]uint32
}

func NewTextureArrayBuilder() *TextureArrayBuilder {
	return &TextureArrayBuilder{
		indices: make(map[TextureId]uint32),
	}
}

// Add registers one pre-decoded RGBA8 texture (4 bytes per texel, row-major)
// and returns its handle and layer index. The first texture fixes the array
// extent; later textures must match it exactly.
func (b *TextureArrayBuilder) Add(texels []uint8, width, height uint32) (TextureId, uint32, error) {
	if width == 0 || height == 0 {
		return "", 0, fmt.Errorf("texture extent must be non-zero, got %dx%d", width, height)
	}
	if uint32(len(texels)) != width*height*4 {
		return "", 0, fmt.Errorf("texel data is %d bytes, want %d for %dx%d RGBA8",
			len(texels), width*height*4, width, height)
	}
	if len(b.layers) == 0 {
		b.width = width
		b.height = height
	} else if width != b.width || height != b.height {
		return "", 0, fmt.Errorf("texture extent %dx%d does not match array extent %dx%d",
			width, height, b.width, b.height)
	}

	id := TextureId(uuid.NewString())
	index := uint32(len(b.layers))
	b.layers = append(b.layers, texels)
	b.indices[id] = index
	return id, index, nil
}

// Index resolves a handle back to its layer index.
func (b *TextureArrayBuilder) Index(id TextureId) (uint32, bool) {
	index, ok := b.indices[id]
	return index, ok
}

// Len returns the number of registered textures.
func (b *TextureArrayBuilder) Len() int {
	return len(b.layers)
}

// TextureArray is the GPU side of the binding: one layered RGBA8 texture,
// its array view and the shared filtering sampler, bound at group 1.
type TextureArray struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Sampler *wgpu.Sampler
	Layers  uint32
}

// Upload creates the layered texture, writes every registered layer and
// builds the array view plus the shared sampler.
func (b *TextureArrayBuilder) Upload(device *wgpu.Device, queue *wgpu.Queue) (*TextureArray, error) {
	if len(b.layers) == 0 {
		return nil, fmt.Errorf("texture array needs at least one texture")
	}

	layers := uint32(len(b.layers))
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Particle Texture Array",
		Size:          wgpu.Extent3D{Width: b.width, Height: b.height, DepthOrArrayLayers: layers},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture array: %w", err)
	}

	for layer, texels := range b.layers {
		err = queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  texture,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{Z: uint32(layer)},
				Aspect:   wgpu.TextureAspectAll,
			},
			texels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  b.width * 4,
				RowsPerImage: b.height,
			},
			&wgpu.Extent3D{Width: b.width, Height: b.height, DepthOrArrayLayers: 1},
		)
		if err != nil {
			texture.Release()
			return nil, fmt.Errorf("failed to write texture layer %d: %w", layer, err)
		}
	}

	view, err := texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           "Particle Texture Array View",
		Format:          wgpu.TextureFormatRGBA8Unorm,
		Dimension:       wgpu.TextureViewDimension2DArray,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: layers,
	})
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("failed to create array view: %w", err)
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		texture.Release()
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	return &TextureArray{
		Texture: texture,
		View:    view,
		Sampler: sampler,
		Layers:  layers,
	}, nil
}

func (t *TextureArray) Release() {
	if t.Sampler != nil {
		t.Sampler.Release()
	}
	if t.View != nil {
		t.View.Release()
	}
	if t.Texture != nil {
		t.Texture.Release()
	}
}
