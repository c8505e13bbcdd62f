/*
Package vsp implements a tile bank decoder and encoder.

A file starts with a little-endian 16-bit version. Versions 2 to 5 hold
16 by 16 pixel tiles, either as 8-bit palette indices (2 and 3) or as 16-bit
packed colors (4 and 5), with versions 3 and 5 run-length compressed.
Version 6 stores the tile size explicitly, a 64 byte description and either
palettized or 32-bit pixels compressed with zlib. Every version ends with
the 100 animation strands, 8 bytes each.

Any version can be decoded but only version 6 with 32-bit pixels is ever
written.
*/
package vsp

import (
	"errors"
	"io"

	"github.com/bodgit/ikatile/rle"
	"github.com/bodgit/ikatile/tilebank"
)

// ErrFormat is returned for input that is not a valid tile bank.
var ErrFormat = errors.New("vsp: invalid format")

// Config describes a tile bank without its pixel data.
type Config struct {
	Version     int
	TileWidth   int
	TileHeight  int
	Tiles       int
	BPP         int // bytes per stored pixel; 1, 2 or 4
	Compressed  bool
	Description string
}

// Codec decodes and encodes tile banks using the given compression
// collaborators. A nil field uses the package default.
type Codec struct {
	RLE    rle.Decoder
	Stream Stream
}

func (c *Codec) rle() rle.Decoder {
	if c.RLE == nil {
		return rle.Legacy{}
	}
	return c.RLE
}

func (c *Codec) stream() Stream {
	if c.Stream == nil {
		return DefaultStream
	}
	return c.Stream
}

var defaultCodec Codec

// Decode reads a tile bank from r.
func Decode(r io.Reader) (*tilebank.Bank, error) {
	return defaultCodec.Decode(r)
}

// DecodeConfig returns the header of a tile bank without decoding the
// tiles.
func DecodeConfig(r io.Reader) (Config, error) {
	return defaultCodec.DecodeConfig(r)
}

// Encode writes b to w as a version 6 tile bank.
func Encode(w io.Writer, b *tilebank.Bank) error {
	return defaultCodec.Encode(w, b)
}
