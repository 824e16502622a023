package project

import (
	"context"
	"errors"

	"burncast/internal/forecast"
)

// Store errors shared by all implementations.
var (
	ErrNotFound     = errors.New("project not found")
	ErrDuplicateKey = errors.New("project name already exists")
	ErrInvalidInput = errors.New("invalid input")
)

// Store persists projects and their period history. The forecast engine
// never touches a Store; callers load a Snapshot and hand it over.
type Store interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id int64) (*Project, error)
	GetProjectByName(ctx context.Context, name string) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id int64) error

	ReplacePeriods(ctx context.Context, projectID int64, periods []forecast.PeriodRecord) error
	AppendPeriods(ctx context.Context, projectID int64, periods []forecast.PeriodRecord) error
	GetPeriods(ctx context.Context, projectID int64) ([]forecast.PeriodRecord, error)

	ReplaceAdjustments(ctx context.Context, projectID int64, adjustments []forecast.ProductivityAdjustment) error
	GetAdjustments(ctx context.Context, projectID int64) ([]forecast.ProductivityAdjustment, error)

	Close() error
}

// LoadSnapshot assembles the full forecast input for one project.
func LoadSnapshot(ctx context.Context, s Store, projectID int64) (*Snapshot, error) {
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	periods, err := s.GetPeriods(ctx, projectID)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.GetAdjustments(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Project: *p, Periods: periods, Adjustments: adjustments}, nil
}
