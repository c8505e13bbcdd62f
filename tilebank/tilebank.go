/*
Package tilebank implements an ordered collection of equally sized tiles.

A Bank owns its tiles exclusively. Canvases passed in are copied and
canvases returned by Tile and TileAt are only valid for as long as the tile
is in the bank; use CopyTile for an independent copy.

Out of range reads through Tile and Strand fall back to tile 0 and a shared
dummy strand respectively, which is what existing callers expect. New code
should use TileAt and StrandAt which return an error instead.
*/
package tilebank

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bodgit/ikatile/blit"
	"github.com/bodgit/ikatile/canvas"
	"github.com/bodgit/ikatile/strand"
)

// DescriptionSize is the maximum length in bytes of a description.
const DescriptionSize = 64

var (
	// ErrRange is returned for a tile index outside the bank.
	ErrRange = errors.New("tilebank: tile index out of range")

	// ErrSize is returned when a canvas does not match the tile size.
	ErrSize = errors.New("tilebank: canvas does not match tile size")
)

// Bank is a set of tiles with their animation strands and a description.
type Bank struct {
	width       int
	height      int
	tiles       []*canvas.Canvas
	strands     strand.Table
	description string
}

// New returns a bank of n blank tiles, each w by h pixels.
func New(w, h, n int) *Bank {
	b := new(Bank)
	b.Reset(w, h, n)
	return b
}

// Reset replaces every tile with n blank tiles of the given size. Sizes
// below one pixel are raised to one.
func (b *Bank) Reset(w, h, n int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if n < 0 {
		n = 0
	}
	b.width, b.height = w, h
	b.tiles = make([]*canvas.Canvas, n)
	for i := range b.tiles {
		b.tiles[i] = canvas.New(w, h)
	}
}

// FromTiles builds a bank around tiles which must all be w by h. The bank
// takes ownership of the canvases.
func FromTiles(w, h int, tiles []*canvas.Canvas) (*Bank, error) {
	for i, t := range tiles {
		if t.Width() != w || t.Height() != h {
			return nil, fmt.Errorf("%w: tile %d is %dx%d, want %dx%d", ErrSize, i, t.Width(), t.Height(), w, h)
		}
	}
	return &Bank{
		width:  w,
		height: h,
		tiles:  tiles,
	}, nil
}

// Width returns the width of every tile.
func (b *Bank) Width() int { return b.width }

// Height returns the height of every tile.
func (b *Bank) Height() int { return b.height }

// Len returns the number of tiles.
func (b *Bank) Len() int { return len(b.tiles) }

// Description returns the free text description.
func (b *Bank) Description() string { return b.description }

// SetDescription sets the description, truncated at the first NUL and to
// DescriptionSize bytes without splitting a UTF-8 sequence.
func (b *Bank) SetDescription(s string) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if len(s) > DescriptionSize {
		s = s[:DescriptionSize]
		for len(s) > 0 && !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	b.description = s
}

func (b *Bank) fits(c *canvas.Canvas) error {
	if c.Width() != b.width || c.Height() != b.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSize, c.Width(), c.Height(), b.width, b.height)
	}
	return nil
}

func (b *Bank) valid(i int) bool {
	return i >= 0 && i < len(b.tiles)
}

// AppendTiles adds n blank tiles at the end.
func (b *Bank) AppendTiles(n int) {
	for i := 0; i < n; i++ {
		b.tiles = append(b.tiles, canvas.New(b.width, b.height))
	}
}

// AppendTile adds a copy of c at the end.
func (b *Bank) AppendTile(c *canvas.Canvas) error {
	if err := b.fits(c); err != nil {
		return err
	}
	b.tiles = append(b.tiles, c.Clone())
	return nil
}

// InsertTile inserts a blank tile at pos, moving the tiles from pos onwards
// up by one. Nothing happens and false is returned when pos is not an
// existing index.
func (b *Bank) InsertTile(pos int) bool {
	if !b.valid(pos) {
		return false
	}
	b.insert(pos, canvas.New(b.width, b.height))
	return true
}

// InsertCanvas is like InsertTile but inserts a copy of c.
func (b *Bank) InsertCanvas(pos int, c *canvas.Canvas) (bool, error) {
	if err := b.fits(c); err != nil {
		return false, err
	}
	if !b.valid(pos) {
		return false, nil
	}
	b.insert(pos, c.Clone())
	return true, nil
}

func (b *Bank) insert(pos int, c *canvas.Canvas) {
	b.tiles = append(b.tiles, nil)
	copy(b.tiles[pos+1:], b.tiles[pos:])
	b.tiles[pos] = c
}

// DeleteTile removes the tile at pos, moving the following tiles down by
// one. Nothing happens and false is returned when pos is out of range.
func (b *Bank) DeleteTile(pos int) bool {
	if !b.valid(pos) {
		return false
	}
	copy(b.tiles[pos:], b.tiles[pos+1:])
	b.tiles[len(b.tiles)-1] = nil
	b.tiles = b.tiles[:len(b.tiles)-1]
	return true
}

// Tile returns tile i, or tile 0 if i is out of range. It returns nil only
// for an empty bank.
func (b *Bank) Tile(i int) *canvas.Canvas {
	if !b.valid(i) {
		i = 0
	}
	if len(b.tiles) == 0 {
		return nil
	}
	return b.tiles[i]
}

// TileAt returns tile i.
func (b *Bank) TileAt(i int) (*canvas.Canvas, error) {
	if !b.valid(i) {
		return nil, fmt.Errorf("%w: %d", ErrRange, i)
	}
	return b.tiles[i], nil
}

// CopyTile returns a copy of tile i that the caller owns.
func (b *Bank) CopyTile(i int) (*canvas.Canvas, error) {
	t, err := b.TileAt(i)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// SetTile replaces tile i with a copy of c.
func (b *Bank) SetTile(i int, c *canvas.Canvas) error {
	if !b.valid(i) {
		return fmt.Errorf("%w: %d", ErrRange, i)
	}
	if err := b.fits(c); err != nil {
		return err
	}
	b.tiles[i] = c.Clone()
	return nil
}

// PasteTile composites c onto tile i using mode. c may be any size, it is
// clipped to the tile.
func (b *Bank) PasteTile(i int, c *canvas.Canvas, mode blit.Mode) error {
	t, err := b.TileAt(i)
	if err != nil {
		return err
	}
	blit.Blit(t, c, 0, 0, mode)
	return nil
}

// Resize changes the size of every tile, keeping the top-left region.
func (b *Bank) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	for _, t := range b.tiles {
		t.Resize(w, h)
	}
	b.width, b.height = w, h
}

// Strands returns the whole strand table.
func (b *Bank) Strands() *strand.Table { return &b.strands }

// Strand returns strand i, or a shared dummy outside the table.
func (b *Bank) Strand(i int) *strand.Strand { return b.strands.Get(i) }

// StrandAt returns strand i.
func (b *Bank) StrandAt(i int) (*strand.Strand, error) { return b.strands.At(i) }

// Equal reports whether both banks have the same tile size, tiles, strands
// and description.
func (b *Bank) Equal(o *Bank) bool {
	if b.width != o.width || b.height != o.height || len(b.tiles) != len(o.tiles) {
		return false
	}
	if b.strands != o.strands || b.description != o.description {
		return false
	}
	for i := range b.tiles {
		if !b.tiles[i].Equal(o.tiles[i]) {
			return false
		}
	}
	return true
}
