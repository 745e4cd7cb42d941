package app

import (
	"fmt"
	"runtime"

	"github.com/DangerousVegetable/smog/core"
	"github.com/DangerousVegetable/smog/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Config is the host-side configuration for the render harness.
type Config struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	// FontPath selects an OpenType font for the debug overlay. Empty uses
	// the builtin fixed face.
	FontPath string

	Debug bool

	ClearColor wgpu.Color

	Logger Logger
}

// App owns the window, the wgpu device and the render passes, and drives one
// draw submission per frame. It plays the "external collaborator" role the
// pipeline assumes: producing the projection uniform, the instance buffer
// contents and the texture bindings.
type App struct {
	Window *glfw.Window

	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	Textures     *gpu.TextureArray
	ParticlePass *gpu.ParticleRenderPass
	TextPass     *gpu.TextOverlayPass
	TextRenderer *core.TextRenderer

	Log Logger

	clearColor wgpu.Color
	debug      bool
	instances  []core.Instance
	textItems  []core.TextItem

	lastRenderTime float64
	frameCount     int
	fpsTime        float64
	FPS            float64
}

// New opens the window, brings up the wgpu device, uploads the texture set
// and builds the render passes. The texture builder must hold at least one
// texture; particle texture indices refer to its layer order.
func New(cfg Config, textures *gpu.TextureArrayBuilder) (*App, error) {
	runtime.LockOSThread()

	log := cfg.Logger
	if log == nil {
		log = NewNopLogger()
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to init glfw: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // no OpenGL context; wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.WindowWidth, cfg.WindowHeight, cfg.WindowTitle, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	queue := device.GetQueue()

	width, height := win.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	surfaceConfig := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, surfaceConfig)

	textureArray, err := textures.Upload(device, queue)
	if err != nil {
		return nil, fmt.Errorf("failed to upload texture array: %w", err)
	}

	particlePass, err := gpu.NewParticleRenderPass(device, surfaceConfig.Format, textureArray)
	if err != nil {
		return nil, fmt.Errorf("failed to create particle pass: %w", err)
	}

	var textRenderer *core.TextRenderer
	if cfg.FontPath != "" {
		textRenderer, err = core.NewTextRenderer(cfg.FontPath, 16)
		if err != nil {
			log.Warnf("falling back to builtin overlay font: %v", err)
			textRenderer = nil
		}
	}
	if textRenderer == nil {
		textRenderer = core.NewBasicTextRenderer()
	}
	textPass, err := gpu.NewTextOverlayPass(device, queue, surfaceConfig.Format, textRenderer.AtlasImage)
	if err != nil {
		return nil, fmt.Errorf("failed to create text pass: %w", err)
	}

	a := &App{
		Window:       win,
		Instance:     instance,
		Surface:      surface,
		Adapter:      adapter,
		Device:       device,
		Queue:        queue,
		Config:       surfaceConfig,
		Textures:     textureArray,
		ParticlePass: particlePass,
		TextPass:     textPass,
		TextRenderer: textRenderer,
		Log:          log,
		clearColor:   cfg.ClearColor,
		debug:        cfg.Debug,
	}

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		a.Resize(w, h)
	})

	log.Infof("renderer up: %dx%d, %d texture layers", width, height, textureArray.Layers)
	return a, nil
}

// SetView uploads the projection for a view rectangle around center.
func (a *App) SetView(center mgl32.Vec2, halfExtent mgl32.Vec2) {
	a.ParticlePass.UpdateProjection(a.Queue, core.Projection(center, halfExtent))
}

// Submit packs this frame's particles and uploads the instance buffer. The
// particle slice is owned by the caller and only read here.
func (a *App) Submit(particles []core.Particle) error {
	a.instances = core.CollectInstances(a.instances, particles)
	return a.ParticlePass.Update(a.Queue, a.instances)
}

// DrawText queues one overlay string for the next Render, in pixels from the
// top-left corner.
func (a *App) DrawText(text string, x, y float32, scale float32, color [4]float32) {
	a.textItems = append(a.textItems, core.TextItem{
		Text:     text,
		Position: [2]float32{x, y},
		Scale:    scale,
		Color:    color,
	})
}

// Render records and submits one frame: clear, particle pass, text overlay.
func (a *App) Render() {
	if a.debug {
		a.DrawText(fmt.Sprintf("FPS: %.1f  particles: %d", a.FPS, a.ParticlePass.InstanceCount),
			10, 10, 1.0, [4]float32{1, 1, 0, 1})
	}
	if len(a.textItems) > 0 {
		vertices := a.TextRenderer.BuildVertices(a.textItems, int(a.Config.Width), int(a.Config.Height))
		a.TextPass.Update(a.Queue, vertices)
	} else {
		a.TextPass.Update(a.Queue, nil)
	}
	a.textItems = a.textItems[:0]

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: a.clearColor,
		}},
	})
	a.ParticlePass.Draw(pass)
	a.TextPass.Draw(pass)
	if err := pass.End(); err != nil {
		a.Log.Errorf("render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	now := glfw.GetTime()
	if a.lastRenderTime > 0 {
		a.frameCount++
		a.fpsTime += now - a.lastRenderTime
		if a.fpsTime >= 1.0 {
			a.FPS = float64(a.frameCount) / a.fpsTime
			a.frameCount = 0
			a.fpsTime = 0
		}
	}
	a.lastRenderTime = now
}

// Resize reconfigures the surface for a new framebuffer size.
func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
}

// ShouldClose reports whether the window has been asked to close.
func (a *App) ShouldClose() bool {
	return a.Window.ShouldClose()
}

// PollEvents pumps window events; call once per frame on the main thread.
func (a *App) PollEvents() {
	glfw.PollEvents()
}
