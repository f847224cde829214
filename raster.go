package mqsprite

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// Raster is a decoded frame image: a canonical straight-alpha RGBA
// buffer. All archive image entries decode to this form regardless of
// the PNG color model on disk.
type Raster struct {
	Width, Height int

	// Pix holds 4 bytes per pixel (R, G, B, A), row-major, with no row
	// padding: len(Pix) == 4*Width*Height.
	Pix []byte
}

// NewRaster returns a transparent raster of the given dimensions.
func NewRaster(w, h int) *Raster {
	return &Raster{Width: w, Height: h, Pix: make([]byte, 4*w*h)}
}

// DecodeRaster decodes a PNG payload into a raster. Malformed data
// fails with ErrImageCorrupt.
func DecodeRaster(data []byte) (*Raster, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageCorrupt, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Normalize whatever color model the file used to RGBA.
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	return &Raster{Width: w, Height: h, Pix: rgba.Pix}, nil
}

// Encode returns the raster as a PNG payload. Encoding is
// deterministic: the same pixels always produce the same bytes.
func (r *Raster) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.RGBA()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RGBA returns an image view sharing the raster's pixel buffer.
func (r *Raster) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    r.Pix,
		Stride: 4 * r.Width,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// SetPixel writes one pixel. Out-of-range coordinates are ignored.
func (r *Raster) SetPixel(x, y int, red, green, blue, alpha uint8) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return
	}
	i := 4 * (y*r.Width + x)
	r.Pix[i+0] = red
	r.Pix[i+1] = green
	r.Pix[i+2] = blue
	r.Pix[i+3] = alpha
}
