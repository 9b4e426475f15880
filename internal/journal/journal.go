// internal/journal/journal.go
//
// Placement journal backed by SQLite.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Recording drops and resets per board, and reading them back.
//
// The journal is an audit trail only. Nothing reads it to rebuild a board,
// and a failed write never affects gameplay.

package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var migrations embed.FS

// Kinds of journal entries.
const (
	KindDrop  = "drop"
	KindReset = "reset"
)

// Entry is one recorded event.
type Entry struct {
	ID            string    `json:"id"`
	BoardID       string    `json:"boardId"`
	Kind          string    `json:"kind"`
	ItemID        string    `json:"itemId,omitempty"`
	KnowledgeArea string    `json:"knowledgeArea,omitempty"`
	ProcessGroup  string    `json:"processGroup,omitempty"`
	Status        string    `json:"status,omitempty"`
	Incorrect     int       `json:"incorrect"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Journal records board events.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	History(ctx context.Context, boardID string, limit int) ([]Entry, error)
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }
func (Nop) History(context.Context, string, int) ([]Entry, error) {
	return []Entry{}, nil
}
func (Nop) Close() error { return nil }

// SQLite is the database-backed Journal.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at dsn and migrates it.
// An empty dsn yields a Nop journal.
func Open(dsn string) (Journal, error) {
	if dsn == "" {
		return Nop{}, nil
	}
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// openDB ensures the parent directory exists and sets busy timeout + WAL.
func openDB(dsn string) (*sql.DB, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+"_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// One writer keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dsn, err)
	}
	return db, nil
}

// migrate applies the embedded sql/*.sql files in lexical order, skipping
// those already recorded in _migrations.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Record inserts e, filling in ID and CreatedAt when missing.
func (s *SQLite) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO placements
            (id, board_id, kind, item_id, knowledge_area, process_group, status, incorrect, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.BoardID, e.Kind, e.ItemID, e.KnowledgeArea, e.ProcessGroup, e.Status, e.Incorrect,
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// History returns the most recent entries for a board, oldest first.
// Default limit is 100.
func (s *SQLite) History(ctx context.Context, boardID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, board_id, kind, item_id, knowledge_area, process_group, status, incorrect, created_at
        FROM (
            SELECT rowid AS seq, * FROM placements
            WHERE board_id=?
            ORDER BY seq DESC
            LIMIT ?
        )
        ORDER BY seq ASC`, boardID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.BoardID, &e.Kind, &e.ItemID, &e.KnowledgeArea,
			&e.ProcessGroup, &e.Status, &e.Incorrect, &created); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database.
func (s *SQLite) Close() error { return s.db.Close() }
