package vsp

import (
	"io"

	"github.com/bodgit/ikatile/canvas"
)

// Version 2: 16x16 tiles of palette indices, uncompressed
type v2Header struct {
	Palette [canvas.PaletteSize]byte
	Tiles   uint16
}

func (h *v2Header) readHeader(r io.Reader) error {
	return read(r, h)
}

func (h *v2Header) config() Config {
	return Config{
		Version:    2,
		TileWidth:  legacyTileSize,
		TileHeight: legacyTileSize,
		Tiles:      int(h.Tiles),
		BPP:        1,
	}
}

func (h *v2Header) readTiles(r io.Reader, _ *Codec) ([]*canvas.Canvas, error) {
	pal, err := canvas.PaletteFromBytes(h.Palette[:])
	if err != nil {
		return nil, err
	}

	data, err := readN(r, int64(h.Tiles)*legacyTilePixels)
	if err != nil {
		return nil, err
	}

	return indexedTiles(data, pal, legacyTileSize, legacyTileSize, int(h.Tiles))
}
