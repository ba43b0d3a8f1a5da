package importer

import (
	"context"
	"errors"
	"fmt"

	"certimport-backend/dtos"
	"certimport-backend/models"

	"github.com/sirupsen/logrus"
)

// Source yields the raw grid of a spreadsheet, header row first.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
}

// Lookups exposes the persisted identifiers the validation stage checks against.
type Lookups interface {
	ExistingProductIDs(ctx context.Context) ([]string, error)
	ActiveConsultantIDs(ctx context.Context) ([]string, error)
}

// Inserter persists a batch of products atomically.
type Inserter interface {
	BulkInsertProducts(ctx context.Context, products []models.Product) error
}

// ProgressFunc receives the percentage of rows processed and a status message.
type ProgressFunc func(percent int, message string)

// Config is the static configuration of a Service.
type Config struct {
	Columns      ColumnMap
	DemoClientID string // assigned to every imported row
}

// Service runs the spreadsheet import pipeline. It holds no per-run state and
// is safe for concurrent use.
type Service struct {
	cfg Config
	log *logrus.Logger
}

func NewService(cfg Config, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{cfg: cfg, log: logger}
}

func (s *Service) Config() Config {
	return s.cfg
}

// Run fetches the grid from src, checks its structure, loads the lookup sets
// once and validates every row.
func (s *Service) Run(ctx context.Context, src Source, lookups Lookups, progress ProgressFunc) (*dtos.ValidationResult, error) {
	grid, err := s.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	if msgs := s.ValidateStructure(grid[0]); len(msgs) > 0 {
		s.log.WithField("errors", len(msgs)).Warn("Spreadsheet structure rejected")
		return nil, &StructureError{Messages: msgs}
	}

	existing, err := lookups.ExistingProductIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing product ids: %w", err)
	}
	consultants, err := lookups.ActiveConsultantIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active consultant ids: %w", err)
	}

	return s.ValidateRows(grid[1:], NewIDSet(existing...), NewConsultantSet(consultants...), progress), nil
}

// Fetch reads the grid and rejects sources without at least one data row.
func (s *Service) Fetch(ctx context.Context, src Source) ([][]string, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySource
	}
	s.log.WithField("rows", len(rows)-1).Info("Spreadsheet fetched")
	return rows, nil
}
