package core

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextVertex is one screen-space vertex of the debug overlay, in NDC.
type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// TextItem is one string queued for the overlay, positioned in pixels from
// the top-left corner.
type TextItem struct {
	Text     string
	Position [2]float32
	Scale    float32
	Color    [4]float32
}

type glyphInfo struct {
	uvMin [2]float32
	uvMax [2]float32
	size  [2]float32
	off   [2]float32
	adv   float32
}

// TextRenderer rasterizes a glyph atlas once and turns TextItems into overlay
// vertices each frame. The atlas is an alpha-only image uploaded by the text
// pass as an R8 texture.
type TextRenderer struct {
	AtlasImage *image.Alpha

	glyphs     map[rune]glyphInfo
	ascent     float32
	lineHeight float32
}

const textAtlasSize = 256

// NewBasicTextRenderer builds the atlas from the builtin fixed 7x13 face.
// No font file is needed, which keeps the overlay available in tests and
// headless tools.
func NewBasicTextRenderer() *TextRenderer {
	return newTextRenderer(basicfont.Face7x13)
}

// NewTextRenderer builds the atlas from an OpenType font file at the given
// point size.
func NewTextRenderer(fontPath string, fontSize float64) (*TextRenderer, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	return newTextRenderer(face), nil
}

func newTextRenderer(face font.Face) *TextRenderer {
	atlas := image.NewAlpha(image.Rect(0, 0, textAtlasSize, textAtlasSize))
	glyphs := make(map[rune]glyphInfo)

	x, y := 2, 2
	rowHeight := 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w := mask.Bounds().Dx()
		h := mask.Bounds().Dy()

		if x+w >= textAtlasSize {
			x = 2
			y += rowHeight + 2
			rowHeight = 0
		}
		if y+h >= textAtlasSize {
			break
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, mask.Bounds().Min, draw.Src)
		glyphs[r] = glyphInfo{
			uvMin: [2]float32{float32(x) / textAtlasSize, float32(y) / textAtlasSize},
			uvMax: [2]float32{float32(x+w) / textAtlasSize, float32(y+h) / textAtlasSize},
			size:  [2]float32{float32(w), float32(h)},
			off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			adv:   float32(adv) / 64.0,
		}

		x += w + 2
		if h > rowHeight {
			rowHeight = h
		}
	}

	metrics := face.Metrics()
	return &TextRenderer{
		AtlasImage: atlas,
		glyphs:     glyphs,
		ascent:     float32(metrics.Ascent.Ceil()),
		lineHeight: float32(metrics.Height.Ceil()),
	}
}

// BuildVertices converts queued items into two triangles per glyph, mapping
// pixel positions to NDC for the given framebuffer size.
func (tr *TextRenderer) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	vertices := make([]TextVertex, 0, len(items)*6)
	sw := float32(screenW)
	sh := float32(screenH)

	for _, item := range items {
		startX := item.Position[0]
		posX := startX
		posY := item.Position[1] + tr.ascent*item.Scale

		for _, r := range item.Text {
			if r == '\n' {
				posX = startX
				posY += tr.lineHeight * item.Scale
				continue
			}
			g, ok := tr.glyphs[r]
			if !ok {
				continue
			}

			x0 := (posX+g.off[0]*item.Scale)/sw*2.0 - 1.0
			y0 := 1.0 - (posY+g.off[1]*item.Scale)/sh*2.0
			x1 := (posX+(g.off[0]+g.size[0])*item.Scale)/sw*2.0 - 1.0
			y1 := 1.0 - (posY+(g.off[1]+g.size[1])*item.Scale)/sh*2.0

			vertices = append(vertices,
				TextVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{g.uvMin[0], g.uvMin[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{g.uvMax[0], g.uvMax[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: item.Color},
			)

			posX += g.adv * item.Scale
		}
	}
	return vertices
}

// MeasureText returns the pixel width and height the text would occupy.
func (tr *TextRenderer) MeasureText(text string, scale float32) (float32, float32) {
	if tr == nil {
		return 0, 0
	}
	maxW := float32(0)
	currentW := float32(0)
	lines := 1
	for _, r := range text {
		if r == '\n' {
			if currentW > maxW {
				maxW = currentW
			}
			currentW = 0
			lines++
			continue
		}
		g, ok := tr.glyphs[r]
		if !ok {
			continue
		}
		currentW += g.adv * scale
	}
	if currentW > maxW {
		maxW = currentW
	}
	return maxW, tr.lineHeight * scale * float32(lines)
}
