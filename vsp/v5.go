package vsp

import (
	"fmt"
	"io"

	"github.com/bodgit/ikatile/canvas"
)

// Version 5: 16x16 tiles of 16-bit packed colors, layer 2 run-length
// compressed. Size is in bytes.
type v5Header struct {
	Tiles uint16
	Size  uint32
}

func (h *v5Header) readHeader(r io.Reader) error {
	return read(r, h)
}

func (h *v5Header) config() Config {
	return Config{
		Version:    5,
		TileWidth:  legacyTileSize,
		TileHeight: legacyTileSize,
		Tiles:      int(h.Tiles),
		BPP:        2,
		Compressed: true,
	}
}

func (h *v5Header) readTiles(r io.Reader, c *Codec) ([]*canvas.Canvas, error) {
	buf, err := readPayload(r, h.Size)
	if err != nil {
		return nil, err
	}

	data := make([]uint16, int(h.Tiles)*legacyTilePixels)
	if err := c.rle().DecodeLayer2(data, toWords(buf)); err != nil {
		return nil, fmt.Errorf("layer 2: %w", err)
	}

	return packedTiles(data, legacyTileSize, legacyTileSize, int(h.Tiles))
}
