// Package persistence provides an optional SQLite snapshot store. It
// serializes the game state registries verbatim as JSON documents, one row
// per entity, replacing everything on each save. The simulation never
// depends on it; it only runs when a database path is configured.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/eos-server/internal/world"
)

// Store wraps a SQLite connection for game state snapshots.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the snapshot database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS systems (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS structures (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save writes the full game state (full replace, one transaction).
func (s *Store) Save(st *world.GameState) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"systems", "units", "structures", "players", "resources"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	if err := saveTable(tx, "systems", st.Systems); err != nil {
		return err
	}
	if err := saveTable(tx, "units", st.Units); err != nil {
		return err
	}
	if err := saveTable(tx, "structures", st.Structures); err != nil {
		return err
	}
	if err := saveTable(tx, "players", st.Players); err != nil {
		return err
	}
	if err := saveTable(tx, "resources", st.Resources); err != nil {
		return err
	}

	accessible := make([]string, 0, len(st.SystemWideAccessibleSpaces))
	for id := range st.SystemWideAccessibleSpaces {
		accessible = append(accessible, id)
	}
	accessibleJSON, err := json.Marshal(accessible)
	if err != nil {
		return err
	}
	for key, value := range map[string]string{
		"tick":       strconv.Itoa(st.Tick),
		"accessible": string(accessibleJSON),
	} {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
			key, value,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func saveTable[V any](tx *sqlx.Tx, table string, entities map[string]V) error {
	stmt, err := tx.Preparex("INSERT INTO " + table + " (id, data) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for id, e := range entities {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", table, id, err)
		}
		if _, err := stmt.Exec(id, string(data)); err != nil {
			return fmt.Errorf("insert %s %s: %w", table, id, err)
		}
	}
	return nil
}

// Load restores the most recent snapshot. The second return is false when
// the database holds no saved state yet.
func (s *Store) Load() (*world.GameState, bool, error) {
	var tickStr string
	err := s.conn.Get(&tickStr, "SELECT value FROM meta WHERE key = 'tick'")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	tick, err := strconv.Atoi(tickStr)
	if err != nil {
		return nil, false, fmt.Errorf("bad tick value %q: %w", tickStr, err)
	}

	st := world.NewGameState()
	st.Tick = tick

	systems, err := loadTable[*world.System](s.conn, "systems")
	if err != nil {
		return nil, false, err
	}
	for _, sys := range systems {
		st.AddSystem(sys)
	}
	resources, err := loadTable[*world.Resource](s.conn, "resources")
	if err != nil {
		return nil, false, err
	}
	for _, r := range resources {
		st.AddResource(r)
	}
	players, err := loadTable[*world.Player](s.conn, "players")
	if err != nil {
		return nil, false, err
	}
	for _, p := range players {
		st.AddPlayer(p)
	}
	units, err := loadTable[*world.Unit](s.conn, "units")
	if err != nil {
		return nil, false, err
	}
	for _, u := range units {
		st.AddUnit(u)
	}
	structures, err := loadTable[*world.Structure](s.conn, "structures")
	if err != nil {
		return nil, false, err
	}
	for _, stc := range structures {
		st.AddStructure(stc)
	}

	var accessibleJSON string
	if err := s.conn.Get(&accessibleJSON, "SELECT value FROM meta WHERE key = 'accessible'"); err == nil {
		var ids []string
		if err := json.Unmarshal([]byte(accessibleJSON), &ids); err != nil {
			return nil, false, fmt.Errorf("bad accessible list: %w", err)
		}
		for _, id := range ids {
			st.SystemWideAccessibleSpaces[id] = true
		}
	}
	return st, true, nil
}

func loadTable[V any](conn *sqlx.DB, table string) ([]V, error) {
	rows, err := conn.Queryx("SELECT id, data FROM " + table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []V
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var e V
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("unmarshal %s %s: %w", table, id, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
