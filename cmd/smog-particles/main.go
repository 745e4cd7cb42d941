// Command smog-particles renders an animated particle field with the
// instanced particle pipeline. It plays every host role the pipeline leaves
// external: it generates the textures, owns the particle array, animates the
// tints and produces the projection.
package main

import (
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/DangerousVegetable/smog/app"
	"github.com/DangerousVegetable/smog/core"
	"github.com/DangerousVegetable/smog/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/joho/godotenv"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const textureSize = 64

func main() {
	// Optional .env overrides; defaults are fine without one.
	_ = godotenv.Load()

	logger := app.NewDefaultLogger("smog", envBool("SMOG_DEBUG", true))

	textures := gpu.NewTextureArrayBuilder()
	for _, texels := range [][]uint8{discTexels(), ringTexels(), squareTexels()} {
		if _, _, err := textures.Add(texels, textureSize, textureSize); err != nil {
			logger.Errorf("texture registration failed: %v", err)
			os.Exit(1)
		}
	}

	a, err := app.New(app.Config{
		WindowWidth:  envInt("SMOG_WINDOW_WIDTH", 1024),
		WindowHeight: envInt("SMOG_WINDOW_HEIGHT", 768),
		WindowTitle:  "smog particles",
		Debug:        envBool("SMOG_DEBUG", true),
		ClearColor:   wgpu.Color{R: 0.02, G: 0.02, B: 0.05, A: 1},
		Logger:       logger,
	}, textures)
	if err != nil {
		logger.Errorf("startup failed: %v", err)
		os.Exit(1)
	}

	field := newParticleField(envInt("SMOG_PARTICLES", 2000), uint32(textures.Len()))
	a.SetView(mgl32.Vec2{0, 0}, mgl32.Vec2{40, 30})

	lastTime := glfw.GetTime()
	for !a.ShouldClose() {
		a.PollEvents()

		now := glfw.GetTime()
		dt := float32(now - lastTime)
		lastTime = now

		field.animate(dt)
		if err := a.Submit(field.particles); err != nil {
			logger.Errorf("submit failed: %v", err)
			return
		}
		a.Render()
	}
}

// particleField is a static particle layout whose tint alpha and size pulse
// with tweens. There is no simulation here; the field just produces the
// per-frame input the pipeline consumes.
type particleField struct {
	particles []core.Particle
	radii     []float32
	alpha     *gween.Tween
	scale     *gween.Tween
	fadingOut bool
}

func newParticleField(count int, textureCount uint32) *particleField {
	rng := rand.New(rand.NewSource(42))
	f := &particleField{
		particles: make([]core.Particle, count),
		radii:     make([]float32, count),
		alpha:     gween.New(0.2, 1.0, 2.5, ease.InOutQuad),
		scale:     gween.New(0.8, 1.2, 2.5, ease.InOutSine),
		fadingOut: false,
	}
	for i := range f.particles {
		radius := 0.3 + rng.Float32()*0.5
		angle := rng.Float64() * 2 * math.Pi
		dist := math.Sqrt(rng.Float64()) * 35
		f.radii[i] = radius
		f.particles[i] = core.Particle{
			Pos: mgl32.Vec2{
				float32(math.Cos(angle) * dist),
				float32(math.Sin(angle)*dist) * 0.75,
			},
			Radius:  radius,
			Texture: rng.Uint32() % textureCount,
			Color: mgl32.Vec4{
				0.5 + rng.Float32()*0.5,
				0.3 + rng.Float32()*0.5,
				0.6 + rng.Float32()*0.4,
				1,
			},
		}
	}
	return f
}

func (f *particleField) animate(dt float32) {
	alpha, alphaDone := f.alpha.Update(dt)
	scale, scaleDone := f.scale.Update(dt)
	if alphaDone {
		if f.fadingOut {
			f.alpha = gween.New(0.2, 1.0, 2.5, ease.InOutQuad)
		} else {
			f.alpha = gween.New(1.0, 0.2, 2.5, ease.InOutQuad)
		}
		f.fadingOut = !f.fadingOut
	}
	if scaleDone {
		f.scale = gween.New(scale, 2.0-scale, 2.5, ease.InOutSine)
	}

	for i := range f.particles {
		f.particles[i].Color[3] = alpha
		f.particles[i].Radius = f.radii[i] * scale
	}
}

// discTexels is a soft circular sprite: opaque center, alpha rolling off
// quadratically at the rim.
func discTexels() []uint8 {
	return makeTexels(func(dx, dy float32) (float32, float32) {
		d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		a := 1 - d*d
		if a < 0 {
			a = 0
		}
		return 1, a
	})
}

// ringTexels is a thin bright ring.
func ringTexels() []uint8 {
	return makeTexels(func(dx, dy float32) (float32, float32) {
		d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		a := 1 - float32(math.Abs(float64(d-0.7)))*6
		if a < 0 {
			a = 0
		}
		return 1, a
	})
}

// squareTexels is a filled square with a hard edge.
func squareTexels() []uint8 {
	return makeTexels(func(dx, dy float32) (float32, float32) {
		if math.Abs(float64(dx)) < 0.8 && math.Abs(float64(dy)) < 0.8 {
			return 0.9, 1
		}
		return 0, 0
	})
}

// makeTexels evaluates shade over [-1,1]^2 and packs a white-luminance RGBA8
// grid; shade returns (luminance, alpha) for a texel center.
func makeTexels(shade func(dx, dy float32) (float32, float32)) []uint8 {
	texels := make([]uint8, textureSize*textureSize*4)
	for y := 0; y < textureSize; y++ {
		for x := 0; x < textureSize; x++ {
			dx := (float32(x)+0.5)/textureSize*2 - 1
			dy := (float32(y)+0.5)/textureSize*2 - 1
			lum, a := shade(dx, dy)
			i := (y*textureSize + x) * 4
			v := uint8(lum*a*255 + 0.5)
			texels[i] = v
			texels[i+1] = v
			texels[i+2] = v
			texels[i+3] = uint8(a*255 + 0.5)
		}
	}
	return texels
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
