package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/cardinality/pkg/adapters/datasource"
	"github.com/ekaya-inc/cardinality/pkg/apperrors"
	"github.com/ekaya-inc/cardinality/pkg/models"
)

// KeySide names a dataset and the key columns to read from it.
type KeySide struct {
	Ref     string   // file path or database URL
	Columns []string // key columns, in key order
}

// AnalyzeRequest describes one primary key / foreign key pair.
type AnalyzeRequest struct {
	PrimaryKey KeySide
	ForeignKey KeySide
}

// RelationService runs the full analysis: load both sides, validate the keys
// and compute the relation.
type RelationService interface {
	// Analyze returns a report for the relation, or the first error found.
	// Key check failures are returned as *KeyViolation.
	Analyze(ctx context.Context, req AnalyzeRequest) (*models.RelationReport, error)
}

type relationService struct {
	loaders   datasource.DatasetLoaderFactory
	validator KeyValidator
	analyzer  CardinalityAnalyzer
	logger    *zap.Logger
	now       func() time.Time
}

// NewRelationService creates a relation service with dependencies.
func NewRelationService(
	loaders datasource.DatasetLoaderFactory,
	validator KeyValidator,
	analyzer CardinalityAnalyzer,
	logger *zap.Logger,
) RelationService {
	return &relationService{
		loaders:   loaders,
		validator: validator,
		analyzer:  analyzer,
		logger:    logger.Named("relation-service"),
		now:       time.Now,
	}
}

var _ RelationService = (*relationService)(nil)

func (s *relationService) Analyze(ctx context.Context, req AnalyzeRequest) (*models.RelationReport, error) {
	if len(req.PrimaryKey.Columns) == 0 {
		return nil, fmt.Errorf("primary key: %w", apperrors.ErrEmptyKey)
	}
	if len(req.ForeignKey.Columns) == 0 {
		return nil, fmt.Errorf("foreign key: %w", apperrors.ErrEmptyKey)
	}
	if err := checkColumnCounts(req.PrimaryKey.Columns, req.ForeignKey.Columns); err != nil {
		return nil, err
	}

	pkSrc, err := datasource.ParseSource(req.PrimaryKey.Ref)
	if err != nil {
		return nil, err
	}
	fkSrc, err := datasource.ParseSource(req.ForeignKey.Ref)
	if err != nil {
		return nil, err
	}

	var pk, fk *models.Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pk, err = s.load(gctx, pkSrc, req.PrimaryKey.Columns)
		return err
	})
	g.Go(func() error {
		var err error
		fk, err = s.load(gctx, fkSrc, req.ForeignKey.Columns)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.validator.CheckKeys(pk, req.PrimaryKey.Columns, fk, req.ForeignKey.Columns); err != nil {
		return nil, err
	}

	rel, err := s.analyzer.ExamineRelation(pk, req.PrimaryKey.Columns, fk, req.ForeignKey.Columns)
	if err != nil {
		return nil, err
	}

	class := ClassifyRelation(rel)
	reverse := ReverseRelation(rel)
	report := &models.RelationReport{
		ID:                uuid.New(),
		PrimaryKeySource:  pkSrc.Display(),
		ForeignKeySource:  fkSrc.Display(),
		PrimaryKeyColumns: req.PrimaryKey.Columns,
		ForeignKeyColumns: req.ForeignKey.Columns,
		PrimaryKeyRows:    pk.Len(),
		ForeignKeyRows:    fk.Len(),
		Relation:          rel,
		Class:             class,
		Cardinality:       FormatCardinality(rel.Left, rel.Right),
		ReverseClass:      ReverseCardinality(class),
		ReverseNotation:   FormatCardinality(reverse.Left, reverse.Right),
		AnalyzedAt:        s.now().UTC(),
	}

	s.logger.Info("Relation analyzed",
		zap.String("id", report.ID.String()),
		zap.String("pk", report.PrimaryKeySource),
		zap.String("fk", report.ForeignKeySource),
		zap.String("cardinality", report.Cardinality),
		zap.String("class", string(report.Class)))

	return report, nil
}

func (s *relationService) load(ctx context.Context, src *datasource.Source, columns []string) (*models.Dataset, error) {
	loader, err := s.loaders.NewLoader(ctx, src)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := loader.Close(); err != nil {
			s.logger.Warn("Failed to close loader",
				zap.String("source", src.Display()),
				zap.Error(err))
		}
	}()

	start := time.Now()
	ds, err := loader.LoadDataset(ctx, columns)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Dataset loaded",
		zap.String("source", src.Display()),
		zap.String("type", src.Type),
		zap.Int("rows", ds.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return ds, nil
}
