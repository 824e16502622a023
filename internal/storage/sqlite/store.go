package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"burncast/internal/forecast"
	"burncast/internal/project"

	_ "modernc.org/sqlite" // SQLite driver
)

const dateLayout = "2006-01-02"

var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		unit TEXT NOT NULL DEFAULT 'points',
		period_length_days INTEGER NOT NULL,
		remaining_backlog REAL NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS periods (
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		number INTEGER NOT NULL,
		throughput REAL NOT NULL,
		included_in_baseline INTEGER NOT NULL DEFAULT 1,
		backlog_remaining REAL,
		PRIMARY KEY (project_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS adjustments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		factor REAL NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1
	)`,
}

// Store is the SQLite-backed implementation of project.Store.
type Store struct {
	db *sql.DB
}

var _ project.Store = (*Store)(nil)

// Open opens (and creates, if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database at %q: %w", path, err)
	}
	// A single connection sidesteps "database is locked" errors.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to sqlite database at %q: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	for _, stmt := range createStatements {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateProject(ctx context.Context, p *project.Project) error {
	if p == nil || p.Name == "" {
		return project.ErrInvalidInput
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, unit, period_length_days, remaining_backlog, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Unit, p.PeriodLengthDays, p.RemainingBacklog, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return project.ErrDuplicateKey
		}
		return fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read project id: %w", err)
	}
	p.ID = id
	return nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (*project.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, unit, period_length_days, remaining_backlog, created_at FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func (s *Store) GetProjectByName(ctx context.Context, name string) (*project.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, unit, period_length_days, remaining_backlog, created_at FROM projects WHERE name = ?`, name)
	return scanProject(row)
}

func scanProject(row *sql.Row) (*project.Project, error) {
	var p project.Project
	var createdAt string
	err := row.Scan(&p.ID, &p.Name, &p.Unit, &p.PeriodLengthDays, &p.RemainingBacklog, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, project.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
		p.CreatedAt = t
	}
	return &p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]project.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, unit, period_length_days, remaining_backlog, created_at FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []project.Project
	for rows.Next() {
		var p project.Project
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Unit, &p.PeriodLengthDays, &p.RemainingBacklog, &createdAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
			p.CreatedAt = t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProject(ctx context.Context, p *project.Project) error {
	if p == nil {
		return project.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, unit = ?, period_length_days = ?, remaining_backlog = ? WHERE id = ?`,
		p.Name, p.Unit, p.PeriodLengthDays, p.RemainingBacklog, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return project.ErrNotFound
	}
	return nil
}

func (s *Store) ReplacePeriods(ctx context.Context, projectID int64, periods []forecast.PeriodRecord) error {
	return s.inProjectTx(ctx, projectID, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM periods WHERE project_id = ?`, projectID); err != nil {
			return fmt.Errorf("clear periods: %w", err)
		}
		return insertPeriods(ctx, tx, projectID, periods)
	})
}

func (s *Store) AppendPeriods(ctx context.Context, projectID int64, periods []forecast.PeriodRecord) error {
	return s.inProjectTx(ctx, projectID, func(tx *sql.Tx) error {
		return insertPeriods(ctx, tx, projectID, periods)
	})
}

func insertPeriods(ctx context.Context, tx *sql.Tx, projectID int64, periods []forecast.PeriodRecord) error {
	for _, p := range periods {
		included := 0
		if p.IncludedInBaseline {
			included = 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO periods (project_id, number, throughput, included_in_baseline, backlog_remaining) VALUES (?, ?, ?, ?, ?)`,
			projectID, p.Number, p.Throughput, included, p.BacklogRemaining)
		if err != nil {
			return fmt.Errorf("insert period %d: %w", p.Number, err)
		}
	}
	return nil
}

func (s *Store) GetPeriods(ctx context.Context, projectID int64) ([]forecast.PeriodRecord, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT number, throughput, included_in_baseline, backlog_remaining FROM periods WHERE project_id = ? ORDER BY number`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer rows.Close()

	var out []forecast.PeriodRecord
	for rows.Next() {
		var p forecast.PeriodRecord
		var included int
		var backlog sql.NullFloat64
		if err := rows.Scan(&p.Number, &p.Throughput, &included, &backlog); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		p.IncludedInBaseline = included != 0
		if backlog.Valid {
			v := backlog.Float64
			p.BacklogRemaining = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ReplaceAdjustments(ctx context.Context, projectID int64, adjustments []forecast.ProductivityAdjustment) error {
	return s.inProjectTx(ctx, projectID, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM adjustments WHERE project_id = ?`, projectID); err != nil {
			return fmt.Errorf("clear adjustments: %w", err)
		}
		for _, a := range adjustments {
			enabled := 0
			if a.Enabled {
				enabled = 1
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO adjustments (project_id, start_date, end_date, factor, enabled) VALUES (?, ?, ?, ?, ?)`,
				projectID, a.Start.Format(dateLayout), a.End.Format(dateLayout), a.Factor, enabled)
			if err != nil {
				return fmt.Errorf("insert adjustment: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) GetAdjustments(ctx context.Context, projectID int64) ([]forecast.ProductivityAdjustment, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT start_date, end_date, factor, enabled FROM adjustments WHERE project_id = ? ORDER BY start_date`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []forecast.ProductivityAdjustment
	for rows.Next() {
		var a forecast.ProductivityAdjustment
		var start, end string
		var enabled int
		if err := rows.Scan(&start, &end, &a.Factor, &enabled); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		a.Enabled = enabled != 0
		if t, perr := time.Parse(dateLayout, start); perr == nil {
			a.Start = t
		}
		if t, perr := time.Parse(dateLayout, end); perr == nil {
			a.End = t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// inProjectTx runs fn in a transaction after verifying the project exists.
func (s *Store) inProjectTx(ctx context.Context, projectID int64, fn func(tx *sql.Tx) error) error {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
