// Package corpus stages training examples in SQLite ahead of CRF
// training: a durable holding area a training CLI can append to across
// many runs before fitting a model over everything staged so far.
package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hurttlocker/yomail/internal/crf"
	"github.com/hurttlocker/yomail/internal/train"
)

// DefaultDBPath is where a training CLI stages examples if the caller
// doesn't name a path.
const DefaultDBPath = "~/.yomail/corpus.db"

// Record is one staged training example.
type Record struct {
	ID        string
	EmailText string
	Lines     []train.LineLabel
	Metadata  map[string]string
	CreatedAt time.Time
}

// Store is a SQLite-backed staging area for training examples.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS training_examples (
	id TEXT PRIMARY KEY,
	email_text TEXT NOT NULL,
	lines_json TEXT NOT NULL,
	metadata_json TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// Open creates or opens the staging database at path. Pass ":memory:" for
// an in-memory database (testing).
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		path = expandUserPath(path)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating corpus directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging corpus db: %w", err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating corpus schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

type lineRow struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Add stages one training example, assigning it a new UUID.
func (s *Store) Add(ctx context.Context, emailText string, lines []train.LineLabel, metadata map[string]string) (string, error) {
	rows := make([]lineRow, len(lines))
	for i, l := range lines {
		rows[i] = lineRow{Text: l.Text, Label: string(l.Label)}
	}
	linesJSON, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding lines: %w", err)
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO training_examples (id, email_text, lines_json, metadata_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, emailText, string(linesJSON), string(metaJSON), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("staging training example: %w", err)
	}
	return id, nil
}

// All returns every staged training example, oldest first.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email_text, lines_json, metadata_json, created_at FROM training_examples ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing training examples: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var id, emailText, linesJSON, metaJSON, createdAt string
		if err := rows.Scan(&id, &emailText, &linesJSON, &metaJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning training example: %w", err)
		}

		var lineRows []lineRow
		if err := json.Unmarshal([]byte(linesJSON), &lineRows); err != nil {
			return nil, fmt.Errorf("decoding lines for %s: %w", id, err)
		}
		lines := make([]train.LineLabel, len(lineRows))
		for i, lr := range lineRows {
			lines[i] = train.LineLabel{Text: lr.Text, Label: crf.Label(lr.Label)}
		}

		var metadata map[string]string
		if err := json.Unmarshal([]byte(metaJSON), &metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata for %s: %w", id, err)
		}

		createdAtTime, _ := time.Parse(time.RFC3339, createdAt)
		out = append(out, Record{
			ID:        id,
			EmailText: emailText,
			Lines:     lines,
			Metadata:  metadata,
			CreatedAt: createdAtTime,
		})
	}
	return out, rows.Err()
}

// Count returns the number of staged training examples.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_examples`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting training examples: %w", err)
	}
	return n, nil
}

func expandUserPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
