package vsp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bodgit/ikatile/canvas"
	"github.com/bodgit/ikatile/tilebank"
)

const (
	legacyTileSize   = 16
	legacyTilePixels = legacyTileSize * legacyTileSize

	// Refuse to allocate more than this for any one payload
	maxPayload = 1 << 30
)

// layout is implemented by the header of each version. readHeader reads the
// fields following the version, readTiles the pixel payload that follows
// the header.
type layout interface {
	readHeader(r io.Reader) error
	config() Config
	readTiles(r io.Reader, c *Codec) ([]*canvas.Canvas, error)
}

var layouts = map[uint16]func() layout{
	2: func() layout { return new(v2Header) },
	3: func() layout { return new(v3Header) },
	4: func() layout { return new(v4Header) },
	5: func() layout { return new(v5Header) },
	6: func() layout { return new(v6Header) },
}

func read(r io.Reader, data interface{}) error {
	err := binary.Read(r, binary.LittleEndian, data)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// readN reads exactly n bytes from r. The buffer only grows with the bytes
// actually read so a header claiming a huge size costs nothing on a short
// file.
func readN(r io.Reader, n int64) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := io.CopyN(buf, r, n); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// readPayload reads a length prefixed compressed block
func readPayload(r io.Reader, size uint32) ([]byte, error) {
	if size > maxPayload {
		return nil, fmt.Errorf("%w: compressed size %d too large", ErrFormat, size)
	}
	return readN(r, int64(size))
}

func checkSize(tiles, w, h, bpp int) error {
	per := int64(w) * int64(h) * int64(bpp)
	if per > maxPayload || per*int64(tiles) > maxPayload {
		return fmt.Errorf("%w: %d tiles of %dx%d too large", ErrFormat, tiles, w, h)
	}
	return nil
}

// Convert little-endian bytes to words, an odd trailing byte is dropped
func toWords(b []byte) []uint16 {
	words := make([]uint16, len(b)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return words
}

func indexedTiles(data []byte, pal *canvas.Palette, w, h, n int) ([]*canvas.Canvas, error) {
	tiles := make([]*canvas.Canvas, n)
	size := w * h
	for i := range tiles {
		tiles[i] = canvas.New(w, h)
		if err := tiles[i].CopyPixelData(data[i*size:(i+1)*size], w, h, pal); err != nil {
			return nil, err
		}
	}
	return tiles, nil
}

func packedTiles(data []uint16, w, h, n int) ([]*canvas.Canvas, error) {
	tiles := make([]*canvas.Canvas, n)
	size := w * h
	for i := range tiles {
		tiles[i] = canvas.New(w, h)
		if err := tiles[i].CopyPacked(data[i*size:(i+1)*size], w, h); err != nil {
			return nil, err
		}
	}
	return tiles, nil
}

func rgbaTiles(data []byte, w, h, n int) ([]*canvas.Canvas, error) {
	tiles := make([]*canvas.Canvas, n)
	size := w * h * 4
	for i := range tiles {
		tiles[i] = canvas.New(w, h)
		if err := tiles[i].CopyPixelData(data[i*size:(i+1)*size], w, h, nil); err != nil {
			return nil, err
		}
	}
	return tiles, nil
}

func (c *Codec) readLayout(r io.Reader) (layout, error) {
	var version uint16
	if err := read(r, &version); err != nil {
		return nil, fmt.Errorf("vsp: reading version: %w", err)
	}

	f, ok := layouts[version]
	if !ok {
		return nil, fmt.Errorf("%w: unknown version %d", ErrFormat, version)
	}

	l := f()
	if err := l.readHeader(r); err != nil {
		return nil, fmt.Errorf("vsp: reading version %d header: %w", version, err)
	}
	return l, nil
}

// DecodeConfig returns the header of a tile bank without decoding the
// tiles.
func (c *Codec) DecodeConfig(r io.Reader) (Config, error) {
	l, err := c.readLayout(r)
	if err != nil {
		return Config{}, err
	}
	return l.config(), nil
}

// Decode reads a tile bank from r. Nothing is returned unless the whole
// bank, strands included, was read.
func (c *Codec) Decode(r io.Reader) (*tilebank.Bank, error) {
	l, err := c.readLayout(r)
	if err != nil {
		return nil, err
	}
	cfg := l.config()

	tiles, err := l.readTiles(r, c)
	if err != nil {
		return nil, fmt.Errorf("vsp: reading version %d tiles: %w", cfg.Version, err)
	}

	b, err := tilebank.FromTiles(cfg.TileWidth, cfg.TileHeight, tiles)
	if err != nil {
		return nil, err
	}
	b.SetDescription(cfg.Description)

	if _, err := b.Strands().ReadFrom(r); err != nil {
		return nil, fmt.Errorf("vsp: reading strands: %w", err)
	}

	return b, nil
}

// DecodeBytes is a convenience wrapper around Decode.
func (c *Codec) DecodeBytes(b []byte) (*tilebank.Bank, error) {
	return c.Decode(bytes.NewReader(b))
}
