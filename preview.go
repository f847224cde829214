package mqsprite

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Ebitengine bridge for editors that preview animations. These helpers
// upload decoded rasters to GPU images; they require an initialized
// Ebitengine graphics context and must not be called before the game
// loop is running.

// RasterImage uploads a raster as an Ebitengine image.
func RasterImage(r *Raster) *ebiten.Image {
	if r == nil {
		return nil
	}
	return ebiten.NewImageFromImage(r.RGBA())
}

// FrameImage uploads a frame's raster as an Ebitengine image.
func FrameImage(f *Frame) *ebiten.Image {
	if f == nil {
		return nil
	}
	return RasterImage(f.Raster)
}

// ModeImages uploads every frame of a mode, in sequence order. Frames
// sharing a raster each get their own upload; cache by Raster pointer
// if that matters.
func ModeImages(m *Mode) []*ebiten.Image {
	if m == nil {
		return nil
	}
	images := make([]*ebiten.Image, len(m.Frames))
	for i := range m.Frames {
		images[i] = FrameImage(&m.Frames[i])
	}
	return images
}

// ModeStrip composes a mode's frames into a single horizontal strip,
// frame 0 leftmost. Returns nil for an empty mode.
func ModeStrip(m *Mode) *ebiten.Image {
	if m == nil || len(m.Frames) == 0 {
		return nil
	}
	strip := ebiten.NewImage(m.Width*len(m.Frames), m.Height)
	for i := range m.Frames {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(i*m.Width), 0)
		strip.DrawImage(FrameImage(&m.Frames[i]), op)
	}
	return strip
}
