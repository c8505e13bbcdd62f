package vsp

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/bodgit/ikatile/tilebank"
)

// Smallest scratch buffer handed to the compressor, zlib framing alone is
// more than the proportional bound allows for tiny banks
const minScratch = 64

// scratchSize returns the compression buffer size for n bytes of input,
// enough for incompressible data.
func scratchSize(n int) int {
	s := n*11/10 + 12
	if s < minScratch {
		s = minScratch
	}
	return s
}

// Encode writes b to w as a version 6 tile bank with 32-bit pixels.
func (c *Codec) Encode(w io.Writer, b *tilebank.Bank) error {
	if b.Width() > math.MaxUint16 || b.Height() > math.MaxUint16 {
		return fmt.Errorf("%w: tile size %dx%d too large", ErrFormat, b.Width(), b.Height())
	}
	if err := checkSize(b.Len(), b.Width(), b.Height(), bppRGBA); err != nil {
		return err
	}

	h := v6Fixed{
		BPP:    bppRGBA,
		Width:  uint16(b.Width()),
		Height: uint16(b.Height()),
		Tiles:  uint32(b.Len()),
	}
	copy(h.Description[:], b.Description())

	// Every tile back to back
	n := b.Len() * b.Width() * b.Height() * bppRGBA
	pix := make([]byte, 0, n)
	for i := 0; i < b.Len(); i++ {
		pix = append(pix, b.Tile(i).Pixels()...)
	}

	scratch := make([]byte, scratchSize(n))
	size, err := c.stream().Compress(scratch, pix)
	if err != nil {
		return fmt.Errorf("vsp: compressing: %w", err)
	}

	bw := bufio.NewWriter(w)
	for _, v := range []interface{}{uint16(version6), &h, uint32(size)} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if _, err := bw.Write(scratch[:size]); err != nil {
		return err
	}
	if _, err := b.Strands().WriteTo(bw); err != nil {
		return err
	}

	return bw.Flush()
}
