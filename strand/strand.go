/*
Package strand implements the fixed table of tile animation strands stored
at the end of every tile bank.

The table always has exactly 100 slots regardless of how many tiles the bank
holds. Each slot is written as four little-endian 16-bit values; start tile,
finish tile, delay and mode, so the table is 800 bytes on disk. The values
are stored verbatim, the meaning of Mode belongs to the engine.
*/
package strand

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// Count is the number of slots in a table
	Count = 100

	// RecordSize is the size in bytes of each encoded slot
	RecordSize = 8

	// Size is the size in bytes of an encoded table
	Size = Count * RecordSize
)

// ErrRange is returned by the strict accessor for a slot outside the table.
var ErrRange = errors.New("strand: index out of range")

// Strand describes one tile animation.
type Strand struct {
	Start  uint16
	Finish uint16
	Delay  uint16
	Mode   uint16
}

// IsZero reports whether every field is zero.
func (s Strand) IsZero() bool {
	return s == Strand{}
}

// Table is the fixed set of strands. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Table [Count]Strand

// Shared by every out of range Get, writes to it are visible to all callers
var dummy Strand

// Get returns the strand in slot i. Outside the table it returns a shared
// dummy strand rather than failing.
func (t *Table) Get(i int) *Strand {
	if i < 0 || i >= Count {
		return &dummy
	}
	return &t[i]
}

// At returns the strand in slot i.
func (t *Table) At(i int) (*Strand, error) {
	if i < 0 || i >= Count {
		return nil, fmt.Errorf("%w: %d", ErrRange, i)
	}
	return &t[i], nil
}

// WriteTo writes the encoded table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.LittleEndian, t); err != nil {
		return 0, err
	}
	return Size, nil
}

// ReadFrom replaces the table with one read from r.
func (t *Table) ReadFrom(r io.Reader) (int64, error) {
	var tmp Table
	if err := binary.Read(r, binary.LittleEndian, &tmp); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	*t = tmp
	return Size, nil
}

// MarshalBinary encodes the table into binary form and returns the result
func (t *Table) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	b.Grow(Size)
	if _, err := t.WriteTo(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary decodes the table from binary form
func (t *Table) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("strand: table is %d bytes, want %d", len(b), Size)
	}
	_, err := t.ReadFrom(bytes.NewReader(b))
	return err
}
