package core

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Pixmap is a float RGBA color target for the software reference pipeline.
type Pixmap struct {
	width  int
	height int
	pixels []mgl32.Vec4
}

// NewPixmap allocates a transparent-black target.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		pixels: make([]mgl32.Vec4, width*height),
	}
}

func (p *Pixmap) Width() int  { return p.width }
func (p *Pixmap) Height() int { return p.height }

// Get returns the pixel at (x, y); transparent black outside the target.
func (p *Pixmap) Get(x, y int) mgl32.Vec4 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return mgl32.Vec4{}
	}
	return p.pixels[y*p.width+x]
}

// Set overwrites the pixel at (x, y). Out-of-range writes are dropped.
func (p *Pixmap) Set(x, y int, c mgl32.Vec4) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.pixels[y*p.width+x] = c
}

// Clear sets every pixel to c.
func (p *Pixmap) Clear(c mgl32.Vec4) {
	for i := range p.pixels {
		p.pixels[i] = c
	}
}

// ToImage converts the target to an 8-bit RGBA image, clamping each channel.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			c := p.pixels[y*p.width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: clampByte(c.X()),
				G: clampByte(c.Y()),
				B: clampByte(c.Z()),
				A: clampByte(c.W()),
			})
		}
	}
	return img
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
