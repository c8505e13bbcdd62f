package ikatile

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/ikatile/strand"
	"github.com/bodgit/ikatile/vsp"
)

const (
	scanWorkers = 10
	bankExt     = ".vsp"

	// Ignore anything bigger, no sane tile bank is this large
	maxBankSize = 64 << (10 * 2)
)

type scanned struct {
	entry   Entry
	strands strand.Table
}

func (t *Tool) findBanks(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, this also skips half-written banks
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || info.Size() > maxBankSize || !strings.EqualFold(filepath.Ext(file), bankExt) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (t *Tool) readBank(file string) (*scanned, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	cfg, err := vsp.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	bank, err := vsp.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	return &scanned{
		entry: Entry{
			Path:        file,
			SHA1:        fmt.Sprintf("%X", sha1.Sum(b)),
			Version:     cfg.Version,
			TileWidth:   bank.Width(),
			TileHeight:  bank.Height(),
			Tiles:       bank.Len(),
			Description: bank.Description(),
		},
		strands: *bank.Strands(),
	}, nil
}

func (t *Tool) bankWorkers(ctx context.Context, in <-chan string, n int) (<-chan *scanned, <-chan error, error) {
	out := make(chan *scanned)
	errc := make(chan error, 1)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for file := range in {
				s, err := t.readBank(file)
				if err != nil {
					// One bad bank shouldn't stop the scan
					t.logger.Printf("Skipping \"%s\": %v\n", file, err)
					continue
				}

				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
		close(errc)
	}()
	return out, errc, nil
}

func (t *Tool) catalogWriter(in <-chan *scanned) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for s := range in {
			if _, err := t.db.AddBank(s.entry, &s.strands); err != nil {
				errc <- err
				return
			}
			t.logger.Printf("Catalogued \"%s\", %d %dx%d tiles\n", s.entry.Path, s.entry.Tiles, s.entry.TileWidth, s.entry.TileHeight)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and records every tile bank found in the catalog.
// Banks that cannot be decoded are logged and skipped.
func (t *Tool) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := t.findBanks(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	banks, errc, err := t.bankWorkers(ctx, files, scanWorkers)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	errc, err = t.catalogWriter(banks)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(errcList...)
}
