package vsp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bodgit/ikatile/canvas"
	"github.com/bodgit/ikatile/tilebank"
)

const (
	version6 = 6

	bppIndexed = 1
	bppRGBA    = 4
)

type v6Fixed struct {
	BPP         uint8
	Width       uint16
	Height      uint16
	Tiles       uint32
	Description [tilebank.DescriptionSize]byte
}

// Only present when BPP is 1
type v6Palette struct {
	Palette [canvas.PaletteSize]byte
	Mask    uint8
}

// Version 6: any tile size, palette indices or 32-bit pixels, zlib
// compressed
type v6Header struct {
	v6Fixed
	palette *v6Palette
	Size    uint32
}

func (h *v6Header) readHeader(r io.Reader) error {
	if err := read(r, &h.v6Fixed); err != nil {
		return err
	}

	switch h.BPP {
	case bppIndexed:
		h.palette = new(v6Palette)
		if err := read(r, h.palette); err != nil {
			return err
		}
	case bppRGBA:
	default:
		return fmt.Errorf("%w: unsupported bpp %d", ErrFormat, h.BPP)
	}

	if h.Tiles > 0 && (h.Width == 0 || h.Height == 0) {
		return fmt.Errorf("%w: tile size %dx%d", ErrFormat, h.Width, h.Height)
	}
	if err := checkSize(int(h.Tiles), int(h.Width), int(h.Height), int(h.BPP)); err != nil {
		return err
	}

	return read(r, &h.Size)
}

func (h *v6Header) config() Config {
	desc := h.Description[:]
	if i := bytes.IndexByte(desc, 0); i >= 0 {
		desc = desc[:i]
	}
	return Config{
		Version:     version6,
		TileWidth:   int(h.Width),
		TileHeight:  int(h.Height),
		Tiles:       int(h.Tiles),
		BPP:         int(h.BPP),
		Compressed:  true,
		Description: string(desc),
	}
}

func (h *v6Header) readTiles(r io.Reader, c *Codec) ([]*canvas.Canvas, error) {
	buf, err := readPayload(r, h.Size)
	if err != nil {
		return nil, err
	}

	w, ht, n := int(h.Width), int(h.Height), int(h.Tiles)
	data, err := c.stream().Decompress(buf, n*w*ht*int(h.BPP))
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}

	if h.palette == nil {
		return rgbaTiles(data, w, ht, n)
	}

	pal, err := canvas.PaletteFromBytes(h.palette.Palette[:])
	if err != nil {
		return nil, err
	}
	tiles, err := indexedTiles(data, pal, w, ht, n)
	if err != nil {
		return nil, err
	}

	// Pixels using the mask index are transparent
	size := w * ht
	for i, t := range tiles {
		pix := t.Pixels()
		for j, idx := range data[i*size : (i+1)*size] {
			if idx == h.palette.Mask {
				pix[j*4+3] = 0
			}
		}
	}
	return tiles, nil
}
