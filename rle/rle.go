/*
Package rle implements the two run-length schemes used by legacy tile banks.

Layer 1 works on bytes. A 0xff byte is followed by a run length and the
value to repeat, any other byte is a literal.

Layer 2 works on 16-bit words. A word whose upper byte is 0xff holds the run
length in its lower byte and is followed by the word to repeat, any other
word is a literal.

Only decoding is provided; nothing writes these schemes any more.
*/
package rle

import "errors"

const (
	marker     = 0xff
	wordMarker = 0xff00
)

// ErrShortSource is returned when the source runs out before the
// destination has been filled.
var ErrShortSource = errors.New("rle: not enough compressed data")

// Decoder decodes both legacy schemes.
type Decoder interface {
	DecodeLayer1(dst, src []byte) error
	DecodeLayer2(dst, src []uint16) error
}

// Legacy is the default Decoder.
type Legacy struct{}

// DecodeLayer1 calls the package DecodeLayer1.
func (Legacy) DecodeLayer1(dst, src []byte) error { return DecodeLayer1(dst, src) }

// DecodeLayer2 calls the package DecodeLayer2.
func (Legacy) DecodeLayer2(dst, src []uint16) error { return DecodeLayer2(dst, src) }

// DecodeLayer1 fills dst from the byte oriented stream in src. A run that
// would overflow dst is truncated.
func DecodeLayer1(dst, src []byte) error {
	si, di := 0, 0
	for di < len(dst) {
		if si >= len(src) {
			return ErrShortSource
		}
		w := src[si]
		si++
		if w != marker {
			dst[di] = w
			di++
			continue
		}

		if si+1 >= len(src) {
			return ErrShortSource
		}
		run, v := int(src[si]), src[si+1]
		si += 2
		for j := 0; j < run && di < len(dst); j++ {
			dst[di] = v
			di++
		}
	}
	return nil
}

// DecodeLayer2 fills dst from the word oriented stream in src. A run that
// would overflow dst is truncated.
func DecodeLayer2(dst, src []uint16) error {
	si, di := 0, 0
	for di < len(dst) {
		if si >= len(src) {
			return ErrShortSource
		}
		w := src[si]
		si++
		if w&wordMarker != wordMarker {
			dst[di] = w
			di++
			continue
		}

		if si >= len(src) {
			return ErrShortSource
		}
		run, v := int(w&0x00ff), src[si]
		si++
		for j := 0; j < run && di < len(dst); j++ {
			dst[di] = v
			di++
		}
	}
	return nil
}
