package vsp

import (
	"os"
	"path/filepath"

	"github.com/bodgit/ikatile/tilebank"
)

// LoadFile reads the tile bank in the named file.
func LoadFile(name string) (*tilebank.Bank, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return defaultCodec.DecodeBytes(b)
}

// SaveFile writes b to the named file. The bank is written to a hidden
// temporary file in the same directory first which is only renamed once it
// is complete, so a failed save never leaves a truncated file behind.
func SaveFile(name string, b *tilebank.Bank) error {
	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := Encode(f, b); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, name); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
