package sheet

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/bodgit/ikatile/tilebank"
	"github.com/ericpauley/go-quantize/quantize"
	xdraw "golang.org/x/image/draw"
)

// opaque returns a copy of m with every alpha forced to full so the
// quantizer only ever sees the color channels
func opaque(m *image.NRGBA) *image.NRGBA {
	dup := image.NewNRGBA(m.Rect)
	copy(dup.Pix, m.Pix)
	for i := 3; i < len(dup.Pix); i += 4 {
		dup.Pix[i] = 0xff
	}
	return dup
}

func paletted(m image.Image, colors int) *image.Paletted {
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Encode writes the tiles of b to w as a PNG sheet.
func Encode(w io.Writer, b *tilebank.Bank, o *Options) error {
	if b.Len() == 0 {
		return errEmpty
	}

	var m image.Image = Image(b, o.columns())

	if s := o.scale(); s > 1 {
		r := m.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, r.Dx()*s, r.Dy()*s))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), m, r, xdraw.Src, nil)
		m = dst
	}

	if o != nil && o.Colors != 0 {
		if o.Colors < 0 || o.Colors > 256 {
			return errColors
		}
		m = paletted(m, o.Colors)
	}

	return png.Encode(w, m)
}

// Quantize reduces every tile of b to one shared palette of at most colors
// colors. Alpha is kept as it was.
func Quantize(b *tilebank.Bank, colors int) error {
	if colors < 1 || colors > 256 {
		return errColors
	}
	if b.Len() == 0 {
		return nil
	}

	m := Image(b, defaultColumns)
	pm := paletted(opaque(m), colors)

	columns := m.Bounds().Dx() / b.Width()
	for i := 0; i < b.Len(); i++ {
		r := cell(i, columns, b.Width(), b.Height())
		pix := b.Tile(i).Pixels()
		for y := 0; y < b.Height(); y++ {
			for x := 0; x < b.Width(); x++ {
				j := (y*b.Width() + x) * 4
				if pix[j+3] == 0 {
					continue
				}
				c := color.NRGBAModel.Convert(pm.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA)
				pix[j], pix[j+1], pix[j+2] = c.R, c.G, c.B
			}
		}
	}
	return nil
}
