// Package catalog records produced and verified cubes in a sqlite
// database: file size, modification time, a CRC-32 header fingerprint,
// and the sha256 digest of the cube's channel window. A stored digest
// is only trusted while the cheap attributes still match, so callers
// can skip re-hashing multi-terabyte files that have not changed.
package catalog

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aussrc/cubekit/fits"
)

var ErrStale = errors.New("stale catalog entry")

// Entry is one recorded cube.
type Entry struct {
	Path      string
	Size      int64
	ModTime   time.Time
	HeaderCrc uint32
	Digest    []byte // sha256 of the cube's channel window; may be empty
	Channels  int
}

type Catalog struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS cubes (
	path       TEXT PRIMARY KEY,
	size       INTEGER NOT NULL,
	mod_time   INTEGER NOT NULL,
	header_crc INTEGER NOT NULL,
	digest     TEXT NOT NULL,
	channels   INTEGER NOT NULL
)`

// Open opens, creating if necessary, the catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: open: %w", err)
	}

	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record adds or replaces the entry for its path.
func (c *Catalog) Record(e Entry) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO cubes (path, size, mod_time, header_crc, digest, channels) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Path, e.Size, e.ModTime.UnixNano(), e.HeaderCrc, hex.EncodeToString(e.Digest), e.Channels,
	)
	if err != nil {
		return fmt.Errorf("catalog: record: %w", err)
	}
	return nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e       Entry
		modTime int64
		digest  string
	)
	if err := rows.Scan(&e.Path, &e.Size, &modTime, &e.HeaderCrc, &digest, &e.Channels); err != nil {
		return Entry{}, err
	}

	e.ModTime = time.Unix(0, modTime)
	if digest != "" {
		d, err := hex.DecodeString(digest)
		if err != nil {
			return Entry{}, err
		}
		e.Digest = d
	}
	return e, nil
}

// Get returns the entry recorded for path, if any.
func (c *Catalog) Get(path string) (Entry, bool, error) {
	rows, err := c.db.Query(`SELECT path, size, mod_time, header_crc, digest, channels FROM cubes WHERE path = ?`, path)
	if err != nil {
		return Entry{}, false, fmt.Errorf("catalog: get: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return Entry{}, false, rows.Err()
	}

	e, err := scanEntry(rows)
	if err != nil {
		return Entry{}, false, fmt.Errorf("catalog: get: %w", err)
	}
	return e, true, nil
}

// ForEach calls f for every recorded entry in path order until f
// returns false.
func (c *Catalog) ForEach(f func(Entry) bool) error {
	rows, err := c.db.Query(`SELECT path, size, mod_time, header_crc, digest, channels FROM cubes ORDER BY path`)
	if err != nil {
		return fmt.Errorf("catalog: for each: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return fmt.Errorf("catalog: for each: %w", err)
		}
		if !f(e) {
			return nil
		}
	}

	if rows.Err() != nil {
		return fmt.Errorf("catalog: for each: %w", rows.Err())
	}
	return nil
}

// Check verifies that the entry's cheap attributes still describe the
// file on disk: size, modification time, and header fingerprint. A
// mismatch means the stored digest can no longer be trusted.
func (e Entry) Check() error {
	stat, err := os.Stat(e.Path)
	if err != nil {
		return fmt.Errorf("catalog: check: %w", err)
	}

	if stat.Size() != e.Size || !stat.ModTime().Equal(e.ModTime) {
		return fmt.Errorf("%w: %s: size/mtime changed", ErrStale, e.Path)
	}

	header, _, err := fits.ParseHeaderFile(e.Path)
	if err != nil {
		return err
	}

	if crc := fits.HeaderChecksum(header); crc != e.HeaderCrc {
		return fmt.Errorf("%w: %s: header crc %08x != %08x", ErrStale, e.Path, crc, e.HeaderCrc)
	}
	return nil
}

// Stamp builds an entry for a cube that was just written or verified.
func Stamp(path string, digest []byte, channels int) (Entry, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("catalog: stamp: %w", err)
	}

	header, _, err := fits.ParseHeaderFile(path)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Path:      path,
		Size:      stat.Size(),
		ModTime:   stat.ModTime(),
		HeaderCrc: fits.HeaderChecksum(header),
		Digest:    digest,
		Channels:  channels,
	}, nil
}
