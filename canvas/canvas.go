/*
Package canvas implements a software pixel buffer.

A Canvas holds width*height non-premultiplied RGBA pixels, 4 bytes each,
stored row by row. Every canvas also carries a clip rectangle which restricts
where the compositor in package blit is allowed to write.

Canvas implements draw.Image so it can be passed directly to the standard
image encoders and to the scalers in golang.org/x/image/draw.
*/
package canvas

import (
	"errors"
	"image"
	"image/color"
)

const bytesPerPixel = 4

var (
	// ErrOutOfBounds is returned when a pixel coordinate lies outside the
	// canvas.
	ErrOutOfBounds = errors.New("canvas: coordinate out of bounds")

	errNotEnough = errors.New("canvas: not enough pixel data")
)

// Canvas is a rectangular buffer of truecolor pixels.
type Canvas struct {
	pix    []uint8
	width  int
	height int
	clip   image.Rectangle
}

// New returns a fully transparent canvas of the given size.
func New(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Canvas{
		pix:    make([]uint8, width*height*bytesPerPixel),
		width:  width,
		height: height,
		clip:   image.Rect(0, 0, width, height),
	}
}

// FromImage returns a new canvas holding a copy of m, translated so that
// m.Bounds().Min becomes (0, 0).
func FromImage(m image.Image) *Canvas {
	b := m.Bounds()
	c := New(b.Dx(), b.Dy())
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.set(x, y, color.NRGBAModel.Convert(m.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA))
		}
	}
	return c
}

// Width returns the width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the height in pixels.
func (c *Canvas) Height() int { return c.height }

// Pixels returns the backing RGBA slice. It is only valid until the next
// call that changes the dimensions.
func (c *Canvas) Pixels() []uint8 { return c.pix }

func (c *Canvas) offset(x, y int) int {
	return (y*c.width + x) * bytesPerPixel
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

func (c *Canvas) get(x, y int) color.NRGBA {
	i := c.offset(x, y)
	s := c.pix[i : i+4 : i+4]
	return color.NRGBA{s[0], s[1], s[2], s[3]}
}

func (c *Canvas) set(x, y int, p color.NRGBA) {
	i := c.offset(x, y)
	s := c.pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = p.R, p.G, p.B, p.A
}

// GetPixel returns the pixel at (x, y).
func (c *Canvas) GetPixel(x, y int) (color.NRGBA, error) {
	if !c.inBounds(x, y) {
		return color.NRGBA{}, ErrOutOfBounds
	}
	return c.get(x, y), nil
}

// SetPixel sets the pixel at (x, y). The clip rectangle does not apply.
func (c *Canvas) SetPixel(x, y int, p color.NRGBA) error {
	if !c.inBounds(x, y) {
		return ErrOutOfBounds
	}
	c.set(x, y, p)
	return nil
}

// CopyPixelData replaces the contents and dimensions of the canvas. If pal
// is non-nil each byte of data is an index into it, otherwise data holds 4
// bytes per pixel.
func (c *Canvas) CopyPixelData(data []byte, width, height int, pal *Palette) error {
	n := width * height
	if pal == nil {
		if len(data) < n*bytesPerPixel {
			return errNotEnough
		}
		c.reset(width, height)
		copy(c.pix, data[:n*bytesPerPixel])
		return nil
	}

	if len(data) < n {
		return errNotEnough
	}
	c.reset(width, height)
	for i, idx := range data[:n] {
		p := pal.Expand(idx)
		s := c.pix[i*4 : i*4+4 : i*4+4]
		s[0], s[1], s[2], s[3] = p.R, p.G, p.B, p.A
	}
	return nil
}

// CopyPacked replaces the contents and dimensions of the canvas with
// expanded 16-bit packed colors.
func (c *Canvas) CopyPacked(data []uint16, width, height int) error {
	n := width * height
	if len(data) < n {
		return errNotEnough
	}
	c.reset(width, height)
	for i, v := range data[:n] {
		p := ExpandPacked(v)
		s := c.pix[i*4 : i*4+4 : i*4+4]
		s[0], s[1], s[2], s[3] = p.R, p.G, p.B, p.A
	}
	return nil
}

func (c *Canvas) reset(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if n := width * height * bytesPerPixel; cap(c.pix) >= n {
		c.pix = c.pix[:n]
	} else {
		c.pix = make([]uint8, n)
	}
	c.width, c.height = width, height
	c.clip = image.Rect(0, 0, width, height)
}

// Clear fills the whole canvas, ignoring the clip rectangle.
func (c *Canvas) Clear(p color.NRGBA) {
	for i := 0; i < len(c.pix); i += bytesPerPixel {
		c.pix[i], c.pix[i+1], c.pix[i+2], c.pix[i+3] = p.R, p.G, p.B, p.A
	}
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	dup := *c
	dup.pix = append([]uint8(nil), c.pix...)
	return &dup
}

// Equal reports whether both canvases have the same dimensions and pixels.
// The clip rectangle is not compared.
func (c *Canvas) Equal(o *Canvas) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.width != o.width || c.height != o.height {
		return false
	}
	for i := range c.pix {
		if c.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ClipRect returns the current clip rectangle.
func (c *Canvas) ClipRect() image.Rectangle { return c.clip }

// SetClipRect restricts subsequent compositor writes to r intersected with
// the canvas bounds.
func (c *Canvas) SetClipRect(r image.Rectangle) {
	c.clip = r.Canon().Intersect(c.Bounds())
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// At implements image.Image.
func (c *Canvas) At(x, y int) color.Color {
	if !c.inBounds(x, y) {
		return color.NRGBA{}
	}
	return c.get(x, y)
}

// Set implements draw.Image. Writes outside the canvas are ignored.
func (c *Canvas) Set(x, y int, p color.Color) {
	if !c.inBounds(x, y) {
		return
	}
	c.set(x, y, color.NRGBAModel.Convert(p).(color.NRGBA))
}
