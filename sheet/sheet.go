/*
Package sheet converts tile banks to and from tile sheet images.

A sheet lays tiles out left to right, top to bottom on a grid with a fixed
number of columns. Cells after the last tile are left transparent. Sheets
are written as PNG, optionally scaled up and optionally reduced to a small
palette; any registered image format can be read back.
*/
package sheet

import (
	"errors"
	"image"

	"github.com/bodgit/ikatile/tilebank"
)

const defaultColumns = 16

var (
	errEmpty     = errors.New("sheet: bank has no tiles")
	errTileSize  = errors.New("sheet: invalid tile size")
	errWrongSize = errors.New("sheet: image is not a multiple of the tile size")
	errColors    = errors.New("sheet: colors must be between 1 and 256")
)

// Options controls how a sheet is written.
type Options struct {
	// Columns is the number of tiles per row, 16 if zero
	Columns int
	// Scale is an integer zoom factor, 1 if zero
	Scale int
	// Colors reduces the sheet to a palette of at most this many colors.
	// Zero keeps full color.
	Colors int
}

func (o *Options) columns() int {
	if o == nil || o.Columns < 1 {
		return defaultColumns
	}
	return o.Columns
}

func (o *Options) scale() int {
	if o == nil || o.Scale < 1 {
		return 1
	}
	return o.Scale
}

// cell returns the rectangle of tile i on a sheet
func cell(i, columns, w, h int) image.Rectangle {
	x, y := i%columns*w, i/columns*h
	return image.Rect(x, y, x+w, y+h)
}

// Image lays the tiles of b out on a new image with the given number of
// columns.
func Image(b *tilebank.Bank, columns int) *image.NRGBA {
	if columns < 1 {
		columns = defaultColumns
	}
	if b.Len() < columns {
		columns = b.Len()
	}
	rows := 0
	if columns > 0 {
		rows = (b.Len() + columns - 1) / columns
	}

	w, h := b.Width(), b.Height()
	m := image.NewNRGBA(image.Rect(0, 0, columns*w, rows*h))
	for i := 0; i < b.Len(); i++ {
		r := cell(i, columns, w, h)
		pix := b.Tile(i).Pixels()
		for y := 0; y < h; y++ {
			copy(m.Pix[m.PixOffset(r.Min.X, r.Min.Y+y):], pix[y*w*4:(y+1)*w*4])
		}
	}
	return m
}
