package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for circuit run logs.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Run is one recorded circuit execution.
type Run struct {
	Token      string
	Circuit    string
	Backend    string
	Mode       string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Step is one recorded operation within a run.
type Step struct {
	RunToken string
	Seq      int64
	Op       string
	Qubits   string
	Norm     float64
}

// Open creates or opens a run-log database at the given path.
// Use ":memory:" for an ephemeral store in tests.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a run row in the "running" state.
func (s *Store) BeginRun(ctx context.Context, token, circuit, backend, mode string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (token, circuit, backend, mode, status, started_at)
		VALUES (?, ?, ?, ?, 'running', ?)`,
		token, circuit, backend, mode, startedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("begin run %s: %w", token, err)
	}
	return nil
}

// AppendStep records one executed operation.
func (s *Store) AppendStep(ctx context.Context, st Step) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO steps (run_token, seq, op, qubits, norm)
		VALUES (?, ?, ?, ?, ?)`,
		st.RunToken, st.Seq, st.Op, st.Qubits, st.Norm)
	if err != nil {
		return fmt.Errorf("append step %d of run %s: %w", st.Seq, st.RunToken, err)
	}
	return nil
}

// FinishRun marks a run as finished. An empty errMsg means success.
func (s *Store) FinishRun(ctx context.Context, token string, errMsg string, finishedAt time.Time) error {
	status := "ok"
	if errMsg != "" {
		status = "error"
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error = ?, finished_at = ?
		WHERE token = ?`,
		status, errMsg, finishedAt.UTC().Format(time.RFC3339Nano), token)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", token, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run %s: %w", token, err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: no such run", token)
	}
	return nil
}

// GetRun reads one run row by token.
func (s *Store) GetRun(ctx context.Context, token string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, circuit, backend, mode, status, error, started_at, COALESCE(finished_at, '')
		FROM runs WHERE token = ?`, token)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", token)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", token, err)
	}
	return r, nil
}

// Runs lists all runs, newest token first. UUIDv7 tokens make this a
// reverse-chronological order.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, circuit, backend, mode, status, error, started_at, COALESCE(finished_at, '')
		FROM runs ORDER BY token DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Steps lists the steps of one run in sequence order.
func (s *Store) Steps(ctx context.Context, token string) ([]Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, seq, op, qubits, norm
		FROM steps WHERE run_token = ? ORDER BY seq`, token)
	if err != nil {
		return nil, fmt.Errorf("steps of run %s: %w", token, err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var st Step
		if err := rows.Scan(&st.RunToken, &st.Seq, &st.Op, &st.Qubits, &st.Norm); err != nil {
			return nil, fmt.Errorf("steps of run %s: %w", token, err)
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var started, finished string
	if err := row.Scan(&r.Token, &r.Circuit, &r.Backend, &r.Mode, &r.Status, &r.Error, &started, &finished); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	r.StartedAt = t
	if finished != "" {
		t, err := time.Parse(time.RFC3339Nano, finished)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		r.FinishedAt = t
	}
	return &r, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
