// Package persistence provides SQLite-based storage for generated region snapshots.
// Each generation pass is stored under its own ID so passes can be compared.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexworld/internal/biome"
	"github.com/talgya/hexworld/internal/world"
)

// ErrNotFound is returned when a pass or tile does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection for region snapshots.
type DB struct {
	conn *sqlx.DB
}

// Pass describes one stored generation pass.
type Pass struct {
	ID        string    `db:"id" json:"id"`
	Seed      int64     `db:"seed" json:"seed"`
	Radius    int       `db:"radius" json:"radius"`
	HexSize   float64   `db:"hex_size" json:"hex_size"`
	GridSize  float64   `db:"grid_size" json:"grid_size"`
	TileCount int       `db:"tile_count" json:"tile_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// tileRow is the storage shape of one tile.
type tileRow struct {
	PassID      string  `db:"pass_id"`
	Q           int     `db:"q"`
	R           int     `db:"r"`
	Base        uint8   `db:"base"`
	Primary     uint8   `db:"primary_biome"`
	Secondary   uint8   `db:"secondary_biome"`
	Tertiary    uint8   `db:"tertiary_biome"`
	Special     uint8   `db:"special_biome"`
	Elevation   float64 `db:"elevation"`
	Moisture    float64 `db:"moisture"`
	Temperature float64 `db:"temperature"`
	Influences  string  `db:"influences_json"`
	Transitions string  `db:"transitions_json"`
}

// StoredTile is a tile as read back from a snapshot.
type StoredTile struct {
	biome.Tile
	Base world.Biome       `json:"base"`
	Env  world.Environment `json:"env"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS passes (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		radius INTEGER NOT NULL,
		hex_size REAL NOT NULL,
		grid_size REAL NOT NULL,
		tile_count INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tiles (
		pass_id TEXT NOT NULL REFERENCES passes(id) ON DELETE CASCADE,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		base INTEGER NOT NULL,
		primary_biome INTEGER NOT NULL,
		secondary_biome INTEGER NOT NULL,
		tertiary_biome INTEGER NOT NULL,
		special_biome INTEGER NOT NULL,
		elevation REAL NOT NULL,
		moisture REAL NOT NULL,
		temperature REAL NOT NULL,
		influences_json TEXT NOT NULL,
		transitions_json TEXT NOT NULL,
		PRIMARY KEY (pass_id, q, r)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tiles_special ON tiles(pass_id, special_biome);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SavePass writes a generated region and its evaluated tiles as a new pass.
// It returns the new pass ID.
func (db *DB) SavePass(seed int64, layout world.Layout, m *world.Map, tiles []biome.Tile) (string, error) {
	id := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO passes
		(id, seed, radius, hex_size, grid_size, tile_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, seed, m.Radius, layout.HexSize, layout.GridSize, len(tiles), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert pass: %w", err)
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO tiles
		(pass_id, q, r, base, primary_biome, secondary_biome, tertiary_biome, special_biome,
		 elevation, moisture, temperature, influences_json, transitions_json)
		VALUES (:pass_id, :q, :r, :base, :primary_biome, :secondary_biome, :tertiary_biome, :special_biome,
		 :elevation, :moisture, :temperature, :influences_json, :transitions_json)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, t := range tiles {
		infJSON, err := json.Marshal(t.Influences)
		if err != nil {
			return "", fmt.Errorf("encode influences %v: %w", t.Coord, err)
		}
		trJSON, err := json.Marshal(t.Transitions)
		if err != nil {
			return "", fmt.Errorf("encode transitions %v: %w", t.Coord, err)
		}
		env := m.EnvironmentAt(t.Coord)

		row := tileRow{
			PassID:      id,
			Q:           t.Coord.Q,
			R:           t.Coord.R,
			Base:        uint8(m.BiomeAt(t.Coord)),
			Primary:     uint8(t.Primary),
			Secondary:   uint8(t.Secondary),
			Tertiary:    uint8(t.Tertiary),
			Special:     uint8(t.Special),
			Elevation:   env.Elevation,
			Moisture:    env.Moisture,
			Temperature: env.Temperature,
			Influences:  string(infJSON),
			Transitions: string(trJSON),
		}
		if _, err := stmt.Exec(row); err != nil {
			return "", fmt.Errorf("insert tile %v: %w", t.Coord, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Info("region pass saved", "pass", id, "tiles", len(tiles))
	return id, nil
}

// LatestPass returns the most recently saved pass.
func (db *DB) LatestPass() (Pass, error) {
	var p Pass
	err := db.conn.Get(&p, "SELECT * FROM passes ORDER BY created_at DESC, rowid DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// Passes lists stored passes, newest first.
func (db *DB) Passes(limit int) ([]Pass, error) {
	var passes []Pass
	err := db.conn.Select(&passes, "SELECT * FROM passes ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	return passes, err
}

// Tile reads one tile of a pass.
func (db *DB) Tile(passID string, c world.HexCoord) (StoredTile, error) {
	var row tileRow
	err := db.conn.Get(&row, "SELECT * FROM tiles WHERE pass_id = ? AND q = ? AND r = ?", passID, c.Q, c.R)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredTile{}, ErrNotFound
	}
	if err != nil {
		return StoredTile{}, err
	}
	return row.decode()
}

// Tiles reads every tile of a pass in coordinate order.
func (db *DB) Tiles(passID string) ([]StoredTile, error) {
	var rows []tileRow
	if err := db.conn.Select(&rows, "SELECT * FROM tiles WHERE pass_id = ? ORDER BY q, r", passID); err != nil {
		return nil, err
	}
	out := make([]StoredTile, 0, len(rows))
	for _, row := range rows {
		t, err := row.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// SpecialCounts tallies emergent biomes in a pass.
func (db *DB) SpecialCounts(passID string) (map[world.Biome]int, error) {
	var rows []struct {
		Special uint8 `db:"special_biome"`
		Count   int   `db:"n"`
	}
	err := db.conn.Select(&rows,
		"SELECT special_biome, COUNT(*) AS n FROM tiles WHERE pass_id = ? AND special_biome != 0 GROUP BY special_biome",
		passID,
	)
	if err != nil {
		return nil, err
	}
	counts := make(map[world.Biome]int, len(rows))
	for _, r := range rows {
		counts[world.Biome(r.Special)] = r.Count
	}
	return counts, nil
}

func (row tileRow) decode() (StoredTile, error) {
	t := StoredTile{
		Base: world.Biome(row.Base),
		Env: world.Environment{
			Elevation:   row.Elevation,
			Moisture:    row.Moisture,
			Temperature: row.Temperature,
		},
	}
	t.Coord = world.HexCoord{Q: row.Q, R: row.R}
	t.Primary = world.Biome(row.Primary)
	t.Secondary = world.Biome(row.Secondary)
	t.Tertiary = world.Biome(row.Tertiary)
	t.Special = world.Biome(row.Special)
	if err := json.Unmarshal([]byte(row.Influences), &t.Influences); err != nil {
		return t, fmt.Errorf("decode influences %v: %w", t.Coord, err)
	}
	if err := json.Unmarshal([]byte(row.Transitions), &t.Transitions); err != nil {
		return t, fmt.Errorf("decode transitions %v: %w", t.Coord, err)
	}
	return t, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}
