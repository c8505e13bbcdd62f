package vsp

import (
	"io"

	"github.com/bodgit/ikatile/canvas"
)

// Version 4: 16x16 tiles of 16-bit packed colors, uncompressed
type v4Header struct {
	Tiles uint16
}

func (h *v4Header) readHeader(r io.Reader) error {
	return read(r, h)
}

func (h *v4Header) config() Config {
	return Config{
		Version:    4,
		TileWidth:  legacyTileSize,
		TileHeight: legacyTileSize,
		Tiles:      int(h.Tiles),
		BPP:        2,
	}
}

func (h *v4Header) readTiles(r io.Reader, _ *Codec) ([]*canvas.Canvas, error) {
	data, err := readN(r, int64(h.Tiles)*legacyTilePixels*2)
	if err != nil {
		return nil, err
	}

	return packedTiles(toWords(data), legacyTileSize, legacyTileSize, int(h.Tiles))
}
