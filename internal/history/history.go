package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/resudoc/internal/resudoc"
	"github.com/spigell/resudoc/internal/utils"
)

const (
	previewLength = 120
	defaultLimit  = 20
)

var ErrRunNotFound = errors.New("match run not found")

// Store keeps past match runs in a local SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one recorded call to the match endpoint.
type Run struct {
	ID        int64
	CreatedAt time.Time
	UserID    string
	JDText    string
	JDPreview string
	K         int
	Tags      []string
	Results   *resudoc.MatchResults
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	ddl := `
CREATE TABLE IF NOT EXISTS match_runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_utc TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	jd_text     TEXT NOT NULL,
	jd_preview  TEXT NOT NULL,
	k           INTEGER NOT NULL,
	tags        TEXT NOT NULL,
	results     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_match_runs_created ON match_runs(created_utc);
`
	_, err := db.Exec(ddl)
	return err
}

// Record stores a run and returns its id. The preview and time are filled in
// when missing.
func (s *Store) Record(ctx context.Context, run *Run) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	if run.JDPreview == "" {
		run.JDPreview = utils.TruncateForLog(run.JDText, previewLength)
	}

	tags := run.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return 0, err
	}

	results := run.Results
	if results == nil {
		results = &resudoc.MatchResults{Items: []*resudoc.MatchResult{}}
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO match_runs (created_utc, user_id, jd_text, jd_preview, k, tags, results) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC().Format(time.RFC3339Nano), run.UserID, run.JDText, run.JDPreview, run.K, string(tagsJSON), string(resultsJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("insert match run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	run.ID = id
	return id, nil
}

// List returns the newest runs first. A non-positive limit uses the default.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_utc, user_id, jd_text, jd_preview, k, tags, results FROM match_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list match runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_utc, user_id, jd_text, jd_preview, k, tags, results FROM match_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return run, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run         Run
		created     string
		tagsJSON    string
		resultsJSON string
	)

	if err := row.Scan(&run.ID, &created, &run.UserID, &run.JDText, &run.JDPreview, &run.K, &tagsJSON, &resultsJSON); err != nil {
		return nil, err
	}

	var err error
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("match run %d: parse time: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &run.Tags); err != nil {
		return nil, fmt.Errorf("match run %d: decode tags: %w", run.ID, err)
	}

	run.Results = &resudoc.MatchResults{}
	if err := json.Unmarshal([]byte(resultsJSON), run.Results); err != nil {
		return nil, fmt.Errorf("match run %d: decode results: %w", run.ID, err)
	}

	return &run, nil
}
