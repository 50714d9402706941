// Package tablestore persists the symbol tables of compilation runs in
// SQLite so they can be inspected with ordinary SQL tools.
package tablestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arnavsurve/kompas/internal/compiler/scope"
	"github.com/arnavsurve/kompas/internal/compiler/symbols"
)

// ErrRunNotFound is returned when a run ID has no stored tables.
var ErrRunNotFound = errors.New("run not found")

// Run describes one stored compilation.
type Run struct {
	ID        string
	Program   string
	Source    string
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

type Config struct {
	Path string
}

func DefaultConfig() Config {
	return Config{
		Path: "./kompas-tables.db",
	}
}

// New opens or creates the database at cfg.Path.
func New(cfg Config) (*Store, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		program TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tab (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		name TEXT NOT NULL,
		link INTEGER NOT NULL,
		obj TEXT NOT NULL,
		type TEXT NOT NULL,
		ref INTEGER NOT NULL,
		nrm INTEGER NOT NULL,
		lev INTEGER NOT NULL,
		adr INTEGER NOT NULL,
		initialized INTEGER NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE TABLE IF NOT EXISTS btab (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		last INTEGER NOT NULL,
		lpar INTEGER NOT NULL,
		psze INTEGER NOT NULL,
		vsze INTEGER NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE TABLE IF NOT EXISTS atab (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		xtyp TEXT NOT NULL,
		etyp TEXT NOT NULL,
		eref INTEGER NOT NULL,
		low INTEGER NOT NULL,
		high INTEGER NOT NULL,
		elsz INTEGER NOT NULL,
		size INTEGER NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_tab_name ON tab(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores all three tables of one run in a single transaction.
func (s *Store) SaveRun(ctx context.Context, runID, source string, t *scope.Tables) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		return fmt.Errorf("run ID is required")
	}
	if t == nil || len(t.Tab) == 0 {
		return fmt.Errorf("no tables to save")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, program, source, created_at) VALUES (?, ?, ?, ?)
	`, runID, t.Tab[0].Name, source, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, e := range t.Tab {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tab (run_id, idx, name, link, obj, type, ref, nrm, lev, adr, initialized)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, i, e.Name, e.Link, e.Obj.String(), e.Type.String(), e.Ref, e.Nrm, e.Lev, e.Adr, e.Initialized)
		if err != nil {
			return fmt.Errorf("failed to insert tab[%d]: %w", i, err)
		}
	}

	for i, b := range t.Btab {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO btab (run_id, idx, last, lpar, psze, vsze) VALUES (?, ?, ?, ?, ?, ?)
		`, runID, i, b.Last, b.Lpar, b.Psze, b.Vsze)
		if err != nil {
			return fmt.Errorf("failed to insert btab[%d]: %w", i, err)
		}
	}

	for i, a := range t.Atab {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO atab (run_id, idx, xtyp, etyp, eref, low, high, elsz, size)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, i, a.Xtyp.String(), a.Etyp.String(), a.Eref, a.Low, a.High, a.Elsz, a.Size)
		if err != nil {
			return fmt.Errorf("failed to insert atab[%d]: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadTables reads back the tables of a run. Display and level are reset
// to the global block.
func (s *Store) LoadTables(ctx context.Context, runID string) (*scope.Tables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	t := &scope.Tables{Display: []int{0}}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, link, obj, type, ref, nrm, lev, adr, initialized
		FROM tab WHERE run_id = ? ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tab: %w", err)
	}
	for rows.Next() {
		var (
			e        symbols.TabEntry
			obj, typ string
		)
		if err := rows.Scan(&e.Name, &e.Link, &obj, &typ, &e.Ref, &e.Nrm, &e.Lev, &e.Adr, &e.Initialized); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan tab: %w", err)
		}
		if err := e.Obj.UnmarshalText([]byte(obj)); err != nil {
			rows.Close()
			return nil, err
		}
		if err := e.Type.UnmarshalText([]byte(typ)); err != nil {
			rows.Close()
			return nil, err
		}
		t.Tab = append(t.Tab, e)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT last, lpar, psze, vsze FROM btab WHERE run_id = ? ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query btab: %w", err)
	}
	for rows.Next() {
		var b symbols.BlockEntry
		if err := rows.Scan(&b.Last, &b.Lpar, &b.Psze, &b.Vsze); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan btab: %w", err)
		}
		t.Btab = append(t.Btab, b)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT xtyp, etyp, eref, low, high, elsz, size FROM atab WHERE run_id = ? ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query atab: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a          symbols.ArrayEntry
			xtyp, etyp string
		)
		if err := rows.Scan(&xtyp, &etyp, &a.Eref, &a.Low, &a.High, &a.Elsz, &a.Size); err != nil {
			return nil, fmt.Errorf("failed to scan atab: %w", err)
		}
		if err := a.Xtyp.UnmarshalText([]byte(xtyp)); err != nil {
			return nil, err
		}
		if err := a.Etyp.UnmarshalText([]byte(etyp)); err != nil {
			return nil, err
		}
		t.Atab = append(t.Atab, a)
	}
	return t, rows.Err()
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, program, source, created_at FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Program, &r.Source, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and its tables.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// Export opens the database at path, saves one run and closes it again.
func Export(ctx context.Context, path, runID, source string, t *scope.Tables) error {
	store, err := New(Config{Path: path})
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveRun(ctx, runID, source, t)
}
