package store

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/stormview/internal/ibtracs"
)

const schemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS imports (
	id           TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	row_count    INTEGER NOT NULL,
	imported_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS storms (
	sid        TEXT NOT NULL,
	number     INTEGER NOT NULL,
	season     INTEGER NOT NULL,
	basin      TEXT NOT NULL,
	name       TEXT NOT NULL,
	iso_time   TEXT NOT NULL,
	lat        REAL NOT NULL,
	lon        REAL NOT NULL,
	wmo_wind   REAL,
	wmo_pres   REAL,
	import_id  TEXT REFERENCES imports(id),
	PRIMARY KEY (sid, number)
);

CREATE INDEX IF NOT EXISTS idx_storms_season ON storms(season);
CREATE INDEX IF NOT EXISTS idx_storms_name ON storms(name);
`

// Store holds prepared first-fix storm records in sqlite and serves the
// per-season queries the chart views read.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaV1); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_meta LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(`INSERT INTO schema_meta (version) VALUES (?)`, schemaVersion)
		return err
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema v%d is newer than this build (v%d)", version, schemaVersion)
	}
	return nil
}

// Import loads prepared records in one transaction, replacing earlier
// rows for the same storm. It returns the import batch id.
func (s *Store) Import(recs []ibtracs.Record, filename string) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	importID := uuid.NewString()
	if _, err := tx.Exec(
		`INSERT INTO imports (id, filename, row_count) VALUES (?, ?, ?)`,
		importID, filename, len(recs),
	); err != nil {
		return "", fmt.Errorf("record import: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO storms
		(sid, number, season, basin, name, iso_time, lat, lon, wmo_wind, wmo_pres, import_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.Exec(
			rec.SID, rec.Number, rec.Season, rec.Basin, rec.Name, rec.ISOTime,
			rec.Lat, rec.Lon, nullable(rec.Wind), nullable(rec.Pressure), importID,
		); err != nil {
			return "", fmt.Errorf("insert %s: %w", rec.SID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return importID, nil
}

func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// SeasonCount is the number of storms that formed in one season.
type SeasonCount struct {
	Season int
	Count  int
}

// CountsBySeason returns storm counts ordered by season.
func (s *Store) CountsBySeason() ([]SeasonCount, error) {
	rows, err := s.db.Query(`SELECT season, COUNT(*) FROM storms GROUP BY season ORDER BY season`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []SeasonCount
	for rows.Next() {
		var c SeasonCount
		if err := rows.Scan(&c.Season, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Point is one storm genesis position.
type Point struct {
	Name string
	Lat  float64
	Lon  float64
	Wind float64
}

// PointsForSeason returns genesis positions for one season.
func (s *Store) PointsForSeason(season int) ([]Point, error) {
	rows, err := s.db.Query(
		`SELECT name, lat, lon, wmo_wind FROM storms WHERE season = ? ORDER BY sid, number`, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		var wind sql.NullFloat64
		if err := rows.Scan(&p.Name, &p.Lat, &p.Lon, &wind); err != nil {
			return nil, err
		}
		if wind.Valid {
			p.Wind = wind.Float64
		} else {
			p.Wind = math.NaN()
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// SeasonWind is the strongest first-fix wind observed in one season.
type SeasonWind struct {
	Season int
	Wind   float64
}

// MaxWindBySeason returns, per season, the strongest first-fix wind.
// Seasons with no reported wind are skipped.
func (s *Store) MaxWindBySeason() ([]SeasonWind, error) {
	rows, err := s.db.Query(
		`SELECT season, MAX(wmo_wind) FROM storms WHERE wmo_wind IS NOT NULL GROUP BY season ORDER BY season`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var winds []SeasonWind
	for rows.Next() {
		var w SeasonWind
		if err := rows.Scan(&w.Season, &w.Wind); err != nil {
			return nil, err
		}
		winds = append(winds, w)
	}
	return winds, rows.Err()
}

// SeasonBounds returns the earliest and latest seasons in the store.
func (s *Store) SeasonBounds() (min, max int, err error) {
	var lo, hi sql.NullInt64
	if err := s.db.QueryRow(`SELECT MIN(season), MAX(season) FROM storms`).Scan(&lo, &hi); err != nil {
		return 0, 0, err
	}
	if !lo.Valid {
		return 0, 0, fmt.Errorf("store is empty")
	}
	return int(lo.Int64), int(hi.Int64), nil
}

// StormMatch is one fuzzy search result.
type StormMatch struct {
	SID      string
	Name     string
	Season   int
	Basin    string
	Distance int
}

// SearchStorms ranks named storms by levenshtein distance to query and
// returns the closest limit matches.
func (s *Store) SearchStorms(query string, limit int) ([]StormMatch, error) {
	rows, err := s.db.Query(
		`SELECT sid, name, season, basin FROM storms WHERE name <> '' AND name <> 'NOT_NAMED'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	q := strings.ToUpper(strings.TrimSpace(query))
	var matches []StormMatch
	for rows.Next() {
		var m StormMatch
		if err := rows.Scan(&m.SID, &m.Name, &m.Season, &m.Basin); err != nil {
			return nil, err
		}
		m.Distance = levenshtein.ComputeDistance(q, strings.ToUpper(m.Name))
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Season > matches[j].Season
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
