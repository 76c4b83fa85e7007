/*
Package catalog records converted textures in a sqlite database.

Each conversion stores the source and output paths, a digest of the pixel
data, the texture format and dimensions and the raw source header, so fields
a TEX0 file cannot carry, such as the VRAM address and wrap modes, are not
lost. Thumbnails of decoded images are stored once per distinct image.
*/
package catalog

import (
	"crypto/sha1"
	"database/sql"
	"fmt"

	"github.com/bodgit/vctex/gx"
	_ "github.com/mattn/go-sqlite3" // database/sql driver
)

// Entry is a single converted texture.
type Entry struct {
	ID     int64
	Source string
	Output string
	Digest string
	Format gx.Format
	SizeX  uint32
	SizeY  uint32
	Header []byte
	// Thumbnail is PNG-encoded, nil if none was generated
	Thumbnail []byte
}

// DB is the conversion catalog.
type DB struct {
	db *sql.DB
}

// Open opens, creating if necessary, the catalog database at file.
func Open(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Serialize writers from the conversion workers
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS thumbnail (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, png BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS texture (id INTEGER PRIMARY KEY NOT NULL, source TEXT NOT NULL UNIQUE, output TEXT NOT NULL, digest TEXT NOT NULL, format INTEGER NOT NULL, size_x INTEGER NOT NULL, size_y INTEGER NOT NULL, header BLOB NOT NULL, thumbnail_id INTEGER, FOREIGN KEY(thumbnail_id) REFERENCES thumbnail(id))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS texture_digest ON texture (digest)"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// AddTexture records e, replacing any previous entry for the same source,
// and returns its ID.
func (db *DB) AddTexture(e *Entry) (int64, error) {
	result, err := db.db.Exec("INSERT OR REPLACE INTO texture (source, output, digest, format, size_x, size_y, header) VALUES (?, ?, ?, ?, ?, ?, ?)", e.Source, e.Output, e.Digest, uint32(e.Format), e.SizeX, e.SizeY, e.Header)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (db *DB) addThumbnail(png []byte) (int64, error) {
	sha := fmt.Sprintf("%X", sha1.Sum(png))

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM thumbnail WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO thumbnail (sha1, png) VALUES (?, ?)", sha, png)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// SetThumbnail attaches the PNG-encoded thumbnail to the texture with the
// given ID.
func (db *DB) SetThumbnail(id int64, png []byte) error {
	thumbnail, err := db.addThumbnail(png)
	if err != nil {
		return err
	}
	if _, err := db.db.Exec("UPDATE texture SET thumbnail_id = ? WHERE id = ?", thumbnail, id); err != nil {
		return err
	}
	return nil
}

const selectEntry = "SELECT t.id, t.source, t.output, t.digest, t.format, t.size_x, t.size_y, t.header, p.png FROM texture AS t LEFT JOIN thumbnail AS p ON t.thumbnail_id = p.id"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var format uint32
	if err := s.Scan(&e.ID, &e.Source, &e.Output, &e.Digest, &format, &e.SizeX, &e.SizeY, &e.Header, &e.Thumbnail); err != nil {
		return nil, err
	}
	e.Format = gx.Format(format)
	return &e, nil
}

// FindByDigest returns the first texture converted from a different source
// than exclude whose pixel data has the given digest, or nil if there is
// none.
func (db *DB) FindByDigest(digest, exclude string) (*Entry, error) {
	e, err := scanEntry(db.db.QueryRow(selectEntry+" WHERE t.digest = ? AND t.source != ? ORDER BY t.id LIMIT 1", digest, exclude))
	switch err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return e, nil
	default:
		return nil, err
	}
}

// Entries returns every texture in the catalog ordered by source path.
func (db *DB) Entries() ([]*Entry, error) {
	rows, err := db.db.Query(selectEntry + " ORDER BY t.source")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
