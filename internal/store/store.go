// internal/store/store.go - Local tile store
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/danielsivyer4567/parcelmeter/internal"
	"github.com/danielsivyer4567/parcelmeter/internal/tile"
)

// Store persists prefetched tile bodies in a SQLite database using the
// mbtiles table shape (zoom_level, tile_column, tile_row, tile_data) with
// a TMS-flipped row.
type Store struct {
	db *sql.DB
}

// Open opens or creates a tile store at the given path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeStorage, "failed to open tile store", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS tiles (
		zoom_level INTEGER,
		tile_column INTEGER,
		tile_row INTEGER,
		tile_data BLOB,
		PRIMARY KEY (zoom_level, tile_column, tile_row)
	);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, internal.NewError(internal.ErrorCodeStorage, "failed to create tiles table", err)
	}

	s := &Store{db: db}
	if err := s.optimizeConnection(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Put inserts or replaces a tile body
func (s *Store) Put(key tile.Key, data []byte) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)",
		key.Z, key.X, flipY(key), data,
	)
	if err != nil {
		return internal.NewError(internal.ErrorCodeStorage, fmt.Sprintf("failed to store tile %s", key), err)
	}
	return nil
}

// Get retrieves a tile body, returning a NOT_FOUND error when absent
func (s *Store) Get(key tile.Key) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		"SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?",
		key.Z, key.X, flipY(key),
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, internal.NewError(internal.ErrorCodeNotFound, fmt.Sprintf("tile %s not in store", key), nil)
	}
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeStorage, fmt.Sprintf("failed to read tile %s", key), err)
	}

	return data, nil
}

// Count returns the number of stored tiles
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tiles").Scan(&count); err != nil {
		return 0, internal.NewError(internal.ErrorCodeStorage, "failed to count tiles", err)
	}
	return count, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// optimizeConnection applies write-heavy pragmas for bulk prefetching
func (s *Store) optimizeConnection() error {
	for _, pragma := range []string{
		"PRAGMA synchronous=0",
		"PRAGMA journal_mode=DELETE",
	} {
		if _, err := s.db.Exec(pragma); err != nil {
			return internal.NewError(internal.ErrorCodeStorage, "failed to apply pragma", err)
		}
	}
	return nil
}

// flipY converts slippy-map Y to the TMS row mbtiles expects
func flipY(key tile.Key) int {
	return (1 << uint(key.Z)) - 1 - key.Y
}
