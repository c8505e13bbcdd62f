package vsp

import (
	"fmt"
	"io"

	"github.com/bodgit/ikatile/canvas"
)

// Version 3: 16x16 tiles of palette indices, layer 1 run-length compressed
type v3Header struct {
	Palette [canvas.PaletteSize]byte
	Tiles   uint16
	Size    uint32
}

func (h *v3Header) readHeader(r io.Reader) error {
	return read(r, h)
}

func (h *v3Header) config() Config {
	return Config{
		Version:    3,
		TileWidth:  legacyTileSize,
		TileHeight: legacyTileSize,
		Tiles:      int(h.Tiles),
		BPP:        1,
		Compressed: true,
	}
}

func (h *v3Header) readTiles(r io.Reader, c *Codec) ([]*canvas.Canvas, error) {
	pal, err := canvas.PaletteFromBytes(h.Palette[:])
	if err != nil {
		return nil, err
	}

	buf, err := readPayload(r, h.Size)
	if err != nil {
		return nil, err
	}

	data := make([]byte, int(h.Tiles)*legacyTilePixels)
	if err := c.rle().DecodeLayer1(data, buf); err != nil {
		return nil, fmt.Errorf("layer 1: %w", err)
	}

	return indexedTiles(data, pal, legacyTileSize, legacyTileSize, int(h.Tiles))
}
