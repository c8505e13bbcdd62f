package ikatile

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/ikatile/strand"
	_ "github.com/mattn/go-sqlite3" // register driver
)

// BankDB is a catalog of tile banks found on disk.
type BankDB struct {
	db *sql.DB
}

// Entry is one catalogued tile bank.
type Entry struct {
	Path        string
	SHA1        string
	Version     int
	TileWidth   int
	TileHeight  int
	Tiles       int
	Description string
	Strands     int // number of non-empty strands
}

// NewBankDB opens or creates the catalog in file.
func NewBankDB(file string) (*BankDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS bank (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, version INTEGER NOT NULL, tile_width INTEGER NOT NULL, tile_height INTEGER NOT NULL, tiles INTEGER NOT NULL, description TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS strand (bank_id INTEGER NOT NULL, slot INTEGER NOT NULL, start INTEGER NOT NULL, finish INTEGER NOT NULL, delay INTEGER NOT NULL, mode INTEGER NOT NULL, PRIMARY KEY(bank_id, slot), FOREIGN KEY(bank_id) REFERENCES bank(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	return &BankDB{
		db: db,
	}, nil
}

// Close closes the catalog.
func (db *BankDB) Close() error {
	return db.db.Close()
}

// AddBank records a bank, replacing any previous entry for the same path.
// Only non-empty strands are stored.
func (db *BankDB) AddBank(e Entry, strands *strand.Table) (int64, error) {
	tx, err := db.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM bank WHERE path = ?", e.Path); err != nil {
		return 0, err
	}

	result, err := tx.Exec("INSERT INTO bank (path, sha1, version, tile_width, tile_height, tiles, description) VALUES (?, ?, ?, ?, ?, ?, ?)", e.Path, e.SHA1, e.Version, e.TileWidth, e.TileHeight, e.Tiles, e.Description)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, s := range strands {
		if s.IsZero() {
			continue
		}
		if _, err := tx.Exec("INSERT INTO strand (bank_id, slot, start, finish, delay, mode) VALUES (?, ?, ?, ?, ?, ?)", id, i, s.Start, s.Finish, s.Delay, s.Mode); err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

const selectEntry = "SELECT b.path, b.sha1, b.version, b.tile_width, b.tile_height, b.tiles, b.description, COUNT(s.slot) FROM bank AS b LEFT JOIN strand AS s ON s.bank_id = b.id"

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.SHA1, &e.Version, &e.TileWidth, &e.TileHeight, &e.Tiles, &e.Description, &e.Strands); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FindByTileSize returns every bank with the given tile size. A zero width
// or height matches any.
func (db *BankDB) FindByTileSize(w, h int) ([]Entry, error) {
	rows, err := db.db.Query(selectEntry+" WHERE (? = 0 OR b.tile_width = ?) AND (? = 0 OR b.tile_height = ?) GROUP BY b.id ORDER BY b.path", w, w, h, h)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// FindBySHA1 returns every bank with the given file checksum, which finds
// duplicate copies of a bank.
func (db *BankDB) FindBySHA1(sha string) ([]Entry, error) {
	rows, err := db.db.Query(selectEntry+" WHERE b.sha1 = ? GROUP BY b.id ORDER BY b.path", sha)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Strands returns the stored strands of the bank at path.
func (db *BankDB) Strands(path string) (*strand.Table, error) {
	rows, err := db.db.Query("SELECT s.slot, s.start, s.finish, s.delay, s.mode FROM strand AS s JOIN bank AS b ON s.bank_id = b.id WHERE b.path = ?", path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := new(strand.Table)
	for rows.Next() {
		var slot int
		var s strand.Strand
		if err := rows.Scan(&slot, &s.Start, &s.Finish, &s.Delay, &s.Mode); err != nil {
			return nil, err
		}
		p, err := table.At(slot)
		if err != nil {
			return nil, err
		}
		*p = s
	}
	return table, rows.Err()
}
