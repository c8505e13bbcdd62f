/*
Package blit composites one canvas onto another.

Every blit is 1:1, there is no scaling. The destination's clip rectangle
limits which pixels may be written and the source is never modified. All
arithmetic is done per channel on 8-bit values and clamped to 0-255.
*/
package blit

import (
	"fmt"
	"image"
	"strings"

	"github.com/bodgit/ikatile/canvas"
)

// Mode selects how source pixels are combined with the destination.
type Mode int

const (
	// Opaque copies the source pixel, alpha included.
	Opaque Mode = iota
	// Alpha is source-over compositing weighted by the source alpha.
	Alpha
	// Add adds the alpha weighted source to the destination.
	Add
	// Subtract subtracts the alpha weighted source from the destination.
	Subtract
	// Matte copies the source pixel wherever its alpha is non-zero.
	Matte
)

var modeNames = [...]string{
	Opaque:   "opaque",
	Alpha:    "alpha",
	Add:      "add",
	Subtract: "subtract",
	Matte:    "matte",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode returns the Mode with the given name. "normal" is accepted as
// an alias for Alpha.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(s)
	if s == "normal" {
		return Alpha, nil
	}
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("blit: unknown blend mode %q", s)
}

// A blender combines a 4 byte source pixel into a 4 byte destination pixel
type blender func(d, s []uint8)

var blenders = [...]blender{
	Opaque:   opaque,
	Alpha:    alpha,
	Add:      add,
	Subtract: subtract,
	Matte:    matte,
}

func opaque(d, s []uint8) {
	copy(d[:4], s[:4])
}

func alpha(d, s []uint8) {
	sa := uint32(s[3])
	if sa == 0 {
		return
	}
	ia := 255 - sa
	d[0] = uint8((uint32(s[0])*sa + uint32(d[0])*ia) / 255)
	d[1] = uint8((uint32(s[1])*sa + uint32(d[1])*ia) / 255)
	d[2] = uint8((uint32(s[2])*sa + uint32(d[2])*ia) / 255)
	d[3] = uint8(sa + uint32(d[3])*ia/255)
}

func add(d, s []uint8) {
	sa := int(s[3])
	for i := 0; i < 3; i++ {
		d[i] = clamp(int(d[i]) + int(s[i])*sa/255)
	}
}

func subtract(d, s []uint8) {
	sa := int(s[3])
	for i := 0; i < 3; i++ {
		d[i] = clamp(int(d[i]) - int(s[i])*sa/255)
	}
}

func matte(d, s []uint8) {
	if s[3] > 0 {
		copy(d[:4], s[:4])
	}
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return uint8(v)
}

// Blit composites the whole of src onto dst with its top-left corner at
// (x, y).
func Blit(dst, src *canvas.Canvas, x, y int, mode Mode) {
	BlitRect(dst, src, x, y, src.Bounds(), mode)
}

// BlitRect composites the sr region of src onto dst with the top-left corner
// of sr at (x, y). Only pixels inside the destination clip rectangle are
// written.
func BlitRect(dst, src *canvas.Canvas, x, y int, sr image.Rectangle, mode Mode) {
	if mode < 0 || int(mode) >= len(blenders) {
		return
	}
	blend := blenders[mode]

	sr = sr.Canon().Intersect(src.Bounds())
	if sr.Empty() {
		return
	}

	// Destination rectangle the source region maps onto, restricted by the
	// clip rectangle which is always inside the bounds
	delta := image.Pt(x, y).Sub(sr.Min)
	dr := sr.Add(delta).Intersect(dst.ClipRect())
	if dr.Empty() {
		return
	}
	sp := dr.Min.Sub(delta)

	dp, spix := dst.Pixels(), src.Pixels()
	dw, sw := dst.Width(), src.Width()
	n := dr.Dx()
	for row := 0; row < dr.Dy(); row++ {
		di := ((dr.Min.Y+row)*dw + dr.Min.X) * 4
		si := ((sp.Y+row)*sw + sp.X) * 4
		for i := 0; i < n; i++ {
			blend(dp[di:di+4:di+4], spix[si:si+4:si+4])
			di += 4
			si += 4
		}
	}
}
