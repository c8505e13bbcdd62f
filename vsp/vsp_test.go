package vsp

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bodgit/ikatile/canvas"
	"github.com/bodgit/ikatile/strand"
	"github.com/bodgit/ikatile/tilebank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stream builds a hand made tile bank
func stream(t *testing.T, fields ...interface{}) *bytes.Buffer {
	t.Helper()
	b := new(bytes.Buffer)
	for _, f := range fields {
		switch v := f.(type) {
		case []byte:
			b.Write(v)
		default:
			require.NoError(t, binary.Write(b, binary.LittleEndian, v))
		}
	}
	return b
}

func strands() []byte {
	var table strand.Table
	table[0] = strand.Strand{Start: 1, Finish: 4, Delay: 10, Mode: 2}
	table[99] = strand.Strand{Start: 7, Finish: 7, Delay: 1, Mode: 0}
	b, _ := table.MarshalBinary()
	return b
}

func palette(entries map[int][3]byte) []byte {
	b := make([]byte, canvas.PaletteSize)
	for i, c := range entries {
		copy(b[i*3:], c[:])
	}
	return b
}

func assertFilled(t *testing.T, b *tilebank.Bank, want color.NRGBA) {
	t.Helper()
	for i := 0; i < b.Len(); i++ {
		tile := b.Tile(i)
		for y := 0; y < tile.Height(); y++ {
			for x := 0; x < tile.Width(); x++ {
				p, err := tile.GetPixel(x, y)
				require.NoError(t, err)
				require.Equal(t, want, p, "tile %d pixel %d,%d", i, x, y)
			}
		}
	}
}

func randomBank(w, h, n int) *tilebank.Bank {
	r := rand.New(rand.NewSource(int64(w*1000 + n)))
	b := tilebank.New(w, h, n)
	for i := 0; i < n; i++ {
		r.Read(b.Tile(i).Pixels())
	}
	for i := 0; i < strand.Count; i++ {
		*b.Strand(i) = strand.Strand{
			Start:  uint16(r.Intn(n + 1)),
			Finish: uint16(r.Intn(n + 1)),
			Delay:  uint16(r.Intn(100)),
			Mode:   uint16(r.Intn(4)),
		}
	}
	b.SetDescription("test bank")
	return b
}

func TestDecodeVersion2(t *testing.T) {
	red := color.NRGBA{0xff, 0, 0, 0xff}
	s := stream(t, uint16(2), palette(map[int][3]byte{0: {0xff, 0, 0}}), uint16(1), make([]byte, legacyTilePixels), strands())

	b, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 16, b.Width())
	assert.Equal(t, 16, b.Height())
	assertFilled(t, b, red)
	assert.Equal(t, strand.Strand{Start: 1, Finish: 4, Delay: 10, Mode: 2}, *b.Strand(0))
	assert.Equal(t, uint16(7), b.Strand(99).Start)
	assert.Equal(t, 0, s.Len())
}

func TestDecodeVersion3(t *testing.T) {
	// 255 pixel run plus one literal makes a whole tile
	rle := []byte{0xff, 0xff, 5, 5}
	s := stream(t, uint16(3), palette(map[int][3]byte{5: {1, 2, 3}}), uint16(1), uint32(len(rle)), rle, strands())

	b, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())
	assertFilled(t, b, color.NRGBA{1, 2, 3, 0xff})
	assert.Equal(t, uint16(10), b.Strand(0).Delay)
}

func TestDecodeVersion4(t *testing.T) {
	data := make([]uint16, 2*legacyTilePixels)
	for i := range data {
		data[i] = 0xf800
	}
	s := stream(t, uint16(4), uint16(2), data, strands())

	b, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())
	assertFilled(t, b, color.NRGBA{0xf8, 0, 0, 0xff})
}

func TestDecodeVersion5(t *testing.T) {
	words := []uint16{0xffff, 0x07e0, 0x07e0}
	s := stream(t, uint16(5), uint16(1), uint32(len(words)*2), words, strands())

	b, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())
	assertFilled(t, b, color.NRGBA{0, 0xfc, 0, 0xff})
}

func TestDecodeVersion6Indexed(t *testing.T) {
	const w, h = 4, 2
	data := make([]byte, w*h*3)
	for i := range data {
		data[i] = byte(i % 3)
	}
	scratch := make([]byte, scratchSize(len(data)))
	n, err := DefaultStream.Compress(scratch, data)
	require.NoError(t, err)

	var desc [64]byte
	copy(desc[:], "indexed")
	pal := palette(map[int][3]byte{0: {9, 9, 9}, 1: {0xff, 0, 0}, 2: {0, 0, 0xff}})
	s := stream(t, uint16(6), uint8(1), uint16(w), uint16(h), uint32(3), desc[:], pal, uint8(2), uint32(n), scratch[:n], strands())

	b, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, w, b.Width())
	assert.Equal(t, h, b.Height())
	assert.Equal(t, "indexed", b.Description())

	for i := 0; i < 3; i++ {
		for j := 0; j < w*h; j++ {
			p, err := b.Tile(i).GetPixel(j%w, j/w)
			require.NoError(t, err)
			switch data[i*w*h+j] {
			case 0:
				assert.Equal(t, color.NRGBA{9, 9, 9, 0xff}, p)
			case 1:
				assert.Equal(t, color.NRGBA{0xff, 0, 0, 0xff}, p)
			case 2:
				// Mask color
				assert.Equal(t, color.NRGBA{0, 0, 0xff, 0}, p)
			}
		}
	}
}

func TestDecodeUnknownVersion(t *testing.T) {
	for _, v := range []uint16{0, 1, 7, 0xffff} {
		_, err := Decode(stream(t, v, make([]byte, 2000)))
		assert.ErrorIs(t, err, ErrFormat)
	}
}

func TestDecodeBadVersion6(t *testing.T) {
	var desc [64]byte
	_, err := Decode(stream(t, uint16(6), uint8(2), uint16(16), uint16(16), uint32(1), desc[:], uint32(0)))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Decode(stream(t, uint16(6), uint8(4), uint16(0), uint16(16), uint32(1), desc[:], uint32(0)))
	assert.ErrorIs(t, err, ErrFormat)

	// A zero tile size is fine when there are no tiles
	cfg, err := DecodeConfig(stream(t, uint16(6), uint8(4), uint16(0), uint16(16), uint32(0), desc[:], uint32(0)))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.TileWidth)

	_, err = Decode(stream(t, uint16(6), uint8(4), uint16(0xffff), uint16(0xffff), uint32(0xffffffff), desc[:], uint32(0)))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDecodeTruncated(t *testing.T) {
	full := stream(t, uint16(2), palette(nil), uint16(1), make([]byte, legacyTilePixels), strands()).Bytes()

	for _, n := range []int{0, 1, 100, 2 + canvas.PaletteSize + 2 + 10, len(full) - 1} {
		_, err := Decode(bytes.NewReader(full[:n]))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "truncated to %d bytes", n)
	}
}

// allocated returns the bytes allocated while running fn
func allocated(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestDecodeHugeDeclaredSize(t *testing.T) {
	const limit = 16 << 20

	var desc [64]byte
	payload := make([]byte, scratchSize(0))
	n, err := DefaultStream.Compress(payload, nil)
	require.NoError(t, err)

	tests := map[string][]byte{
		"version 3": stream(t, uint16(3), palette(nil), uint16(1), uint32(maxPayload)).Bytes(),
		"version 5": stream(t, uint16(5), uint16(1), uint32(maxPayload), []byte{0xff}).Bytes(),
		"version 6": stream(t, uint16(6), uint8(4), uint16(256), uint16(256), uint32(maxPayload/(256*256*4)), desc[:], uint32(maxPayload)).Bytes(),
		// Valid compressed block that inflates to far less than declared
		"version 6 inflate": stream(t, uint16(6), uint8(4), uint16(256), uint16(256), uint32(maxPayload/(256*256*4)), desc[:], uint32(n), payload[:n]).Bytes(),
	}

	for name, b := range tests {
		t.Run(name, func(t *testing.T) {
			var err error
			used := allocated(func() {
				_, err = Decode(bytes.NewReader(b))
			})
			assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
			assert.Less(t, used, uint64(limit), "%d byte input", len(b))
		})
	}
}

func TestDecodeShortRLE(t *testing.T) {
	rle := []byte{0xff, 10, 5}
	_, err := Decode(stream(t, uint16(3), palette(nil), uint16(1), uint32(len(rle)), rle, strands()))
	assert.Error(t, err)
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(stream(t, uint16(5), uint16(12), uint32(0)))
	require.NoError(t, err)
	assert.Equal(t, Config{Version: 5, TileWidth: 16, TileHeight: 16, Tiles: 12, BPP: 2, Compressed: true}, cfg)

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, randomBank(8, 4, 3)))
	cfg, err = DecodeConfig(b)
	require.NoError(t, err)
	assert.Equal(t, Config{Version: 6, TileWidth: 8, TileHeight: 4, Tiles: 3, BPP: 4, Compressed: true, Description: "test bank"}, cfg)
}

func TestEncodeLayout(t *testing.T) {
	bank := randomBank(16, 16, 2)
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, bank))
	data := b.Bytes()

	assert.Equal(t, []byte{6, 0, 4, 16, 0, 16, 0, 2, 0, 0, 0}, data[:11])
	assert.Equal(t, "test bank", string(bytes.TrimRight(data[11:75], "\x00")))

	size := binary.LittleEndian.Uint32(data[75:79])
	assert.LessOrEqual(t, int(size), scratchSize(2*16*16*4))
	assert.Len(t, data, 79+int(size)+strand.Size)

	table, err := bank.Strands().MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, table, data[len(data)-strand.Size:])
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 100} {
		for _, size := range [][2]int{{16, 16}, {1, 1}, {32, 8}} {
			bank := randomBank(size[0], size[1], n)

			b := new(bytes.Buffer)
			require.NoError(t, Encode(b, bank))

			out, err := Decode(b)
			require.NoError(t, err)
			assert.True(t, bank.Equal(out), "%d tiles of %dx%d", n, size[0], size[1])
			assert.Equal(t, 0, b.Len())
		}
	}
}

func TestRoundTripEdges(t *testing.T) {
	empty, err := tilebank.FromTiles(0, 0, nil)
	require.NoError(t, err)

	for name, bank := range map[string]*tilebank.Bank{
		"nul description": randomBank(4, 4, 2),
		"zero size":       empty,
	} {
		t.Run(name, func(t *testing.T) {
			bank.SetDescription("ab\x00cd")

			b := new(bytes.Buffer)
			require.NoError(t, Encode(b, bank))

			out, err := Decode(b)
			require.NoError(t, err)
			assert.Equal(t, "ab", out.Description())
			assert.True(t, bank.Equal(out))
		})
	}
}

func TestRoundTripLegacy(t *testing.T) {
	// Loading an old bank and saving it upgrades it without changing pixels
	s := stream(t, uint16(2), palette(map[int][3]byte{0: {0xff, 0, 0}}), uint16(3), make([]byte, 3*legacyTilePixels), strands())
	old, err := Decode(s)
	require.NoError(t, err)

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, old))
	upgraded, err := Decode(b)
	require.NoError(t, err)
	assert.True(t, old.Equal(upgraded))
}

func TestEncodeTooLarge(t *testing.T) {
	assert.ErrorIs(t, Encode(io.Discard, tilebank.New(70000, 1, 0)), ErrFormat)
}

func TestZlibShortBuffer(t *testing.T) {
	src := make([]byte, 4096)
	rand.New(rand.NewSource(1)).Read(src)

	_, err := DefaultStream.Compress(make([]byte, 100), src)
	assert.ErrorIs(t, err, io.ErrShortBuffer)

	dst := make([]byte, scratchSize(len(src)))
	n, err := DefaultStream.Compress(dst, src)
	require.NoError(t, err)

	out, err := DefaultStream.Decompress(dst[:n], len(src))
	require.NoError(t, err)
	assert.Equal(t, src, out)

	_, err = DefaultStream.Decompress(dst[:n], len(src)+1)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = DefaultStream.Decompress([]byte{1, 2, 3}, len(src))
	assert.Error(t, err)
}

type countingRLE struct {
	layer1, layer2 int
}

func (c *countingRLE) DecodeLayer1(dst, src []byte) error {
	c.layer1++
	for i := range dst {
		dst[i] = 1
	}
	return nil
}

func (c *countingRLE) DecodeLayer2(dst, src []uint16) error {
	c.layer2++
	return nil
}

func TestCodecCollaborators(t *testing.T) {
	r := new(countingRLE)
	c := &Codec{RLE: r}

	b, err := c.Decode(stream(t, uint16(3), palette(map[int][3]byte{1: {0, 0xff, 0}}), uint16(1), uint32(1), []byte{0}, strands()))
	require.NoError(t, err)
	assert.Equal(t, 1, r.layer1)
	assertFilled(t, b, color.NRGBA{0, 0xff, 0, 0xff})

	_, err = c.Decode(stream(t, uint16(5), uint16(1), uint32(0), strands()))
	require.NoError(t, err)
	assert.Equal(t, 1, r.layer2)
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "tiles.vsp")
	bank := randomBank(16, 16, 5)

	require.NoError(t, SaveFile(name, bank))
	out, err := LoadFile(name)
	require.NoError(t, err)
	assert.True(t, bank.Equal(out))

	// Overwrite in place
	bank.DeleteTile(0)
	require.NoError(t, SaveFile(name, bank))
	out, err = LoadFile(name)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = LoadFile(filepath.Join(dir, "missing.vsp"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Error(t, SaveFile(filepath.Join(dir, "missing", "tiles.vsp"), bank))
}
