/*
Package ikatile is a library for maintaining tile banks used by 2D tile
engines.

A Tool keeps a catalog of the banks found on disk and converts banks between
the on-disk VSP formats and ordinary tile sheet images.
*/
package ikatile

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/bodgit/ikatile/sheet"
	"github.com/bodgit/ikatile/tilebank"
	"github.com/bodgit/ikatile/vsp"
)

var errNoTiles = errors.New("ikatile: image has no tiles")

// Tool operates on tile banks, recording what it finds in a catalog.
type Tool struct {
	db     *BankDB
	logger *log.Logger
}

// New returns a Tool using the catalog in dbFile, creating it if necessary.
func New(dbFile string, logger *log.Logger) (*Tool, error) {
	db, err := NewBankDB(dbFile)
	if err != nil {
		return nil, err
	}

	return &Tool{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the catalog.
func (t *Tool) Close() error {
	return t.db.Close()
}

// Find returns the catalogued banks with the given tile size, zero matches
// any width or height.
func (t *Tool) Find(w, h int) ([]Entry, error) {
	return t.db.FindByTileSize(w, h)
}

// Duplicates returns every catalogued bank with the same contents as file.
func (t *Tool) Duplicates(file string) ([]Entry, error) {
	s, err := t.readBank(file)
	if err != nil {
		return nil, err
	}
	return t.db.FindBySHA1(s.entry.SHA1)
}

func (t *Tool) load(file string) (*tilebank.Bank, error) {
	b, err := vsp.LoadFile(file)
	if err != nil {
		t.logger.Printf("Unable to load \"%s\": %v\n", file, err)
		return nil, fmt.Errorf("unable to load %s: %w", file, err)
	}
	t.logger.Printf("Loaded \"%s\", %d %dx%d tiles\n", file, b.Len(), b.Width(), b.Height())
	return b, nil
}

// Info returns the header of the bank in file.
func (t *Tool) Info(file string) (vsp.Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return vsp.Config{}, err
	}
	defer f.Close()

	cfg, err := vsp.DecodeConfig(f)
	if err != nil {
		return vsp.Config{}, fmt.Errorf("unable to read %s: %w", file, err)
	}
	return cfg, nil
}

// Convert rewrites the bank in in to out using the current format.
func (t *Tool) Convert(in, out string) error {
	b, err := t.load(in)
	if err != nil {
		return err
	}
	return vsp.SaveFile(out, b)
}

// Export writes the tiles of the bank in in to out as a PNG sheet.
func (t *Tool) Export(in, out string, o *sheet.Options) error {
	b, err := t.load(in)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}

	if err := sheet.Encode(f, b, o); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Import cuts the sheet image in in into tiles of w x h and writes them to
// out as a new bank. Empty cells after the last tile are dropped.
func (t *Tool) Import(in, out string, w, h int, description string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	tiles, err := sheet.Decode(f, w, h)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", in, err)
	}

	tiles = sheet.Trim(tiles)
	if len(tiles) == 0 {
		return errNoTiles
	}

	b, err := tilebank.FromTiles(w, h, tiles)
	if err != nil {
		return err
	}
	b.SetDescription(description)

	t.logger.Printf("Imported %d %dx%d tiles from \"%s\"\n", b.Len(), w, h, in)

	return vsp.SaveFile(out, b)
}

// Quantize reduces the bank in in to at most colors colors and writes it to
// out.
func (t *Tool) Quantize(in, out string, colors int) error {
	b, err := t.load(in)
	if err != nil {
		return err
	}

	if err := sheet.Quantize(b, colors); err != nil {
		return err
	}

	return vsp.SaveFile(out, b)
}
