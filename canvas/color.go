package canvas

import (
	"errors"
	"image/color"
)

// PaletteSize is the size in bytes of an on-disk palette: 256 RGB triples.
const PaletteSize = 256 * 3

var errPaletteSize = errors.New("canvas: palette must be 768 bytes")

// Palette maps an 8-bit index to an RGB color.
type Palette [256][3]uint8

// PaletteFromBytes reads 256 RGB triples.
func PaletteFromBytes(b []byte) (*Palette, error) {
	if len(b) < PaletteSize {
		return nil, errPaletteSize
	}
	p := new(Palette)
	for i := range p {
		copy(p[i][:], b[i*3:i*3+3])
	}
	return p, nil
}

// Expand returns the opaque color for index i.
func (p *Palette) Expand(i uint8) color.NRGBA {
	c := p[i]
	return color.NRGBA{c[0], c[1], c[2], 0xff}
}

// ExpandPacked expands a 16-bit color to an opaque pixel. The color is
// packed as RRRRRGGGGGGBBBBB.
func ExpandPacked(c uint16) color.NRGBA {
	return color.NRGBA{
		uint8(c>>11&0x1f) << 3,
		uint8(c>>5&0x3f) << 2,
		uint8(c&0x1f) << 3,
		0xff,
	}
}
