package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/cardinality/pkg/models"
)

// CardinalityAnalyzer computes the cardinality of a validated key relation.
type CardinalityAnalyzer interface {
	// ExamineRelation returns the left (primary key side) and right (foreign
	// key side) cardinalities. Inputs must already have passed CheckKeys;
	// the only error reported is an unresolvable key column.
	ExamineRelation(pk *models.Dataset, pkColumns []string, fk *models.Dataset, fkColumns []string) (models.Relation, error)
}

type cardinalityAnalyzer struct {
	logger *zap.Logger
}

// NewCardinalityAnalyzer creates a cardinality analyzer.
func NewCardinalityAnalyzer(logger *zap.Logger) CardinalityAnalyzer {
	return &cardinalityAnalyzer{
		logger: logger.Named("cardinality-analyzer"),
	}
}

var _ CardinalityAnalyzer = (*cardinalityAnalyzer)(nil)

func (a *cardinalityAnalyzer) ExamineRelation(pk *models.Dataset, pkColumns []string, fk *models.Dataset, fkColumns []string) (models.Relation, error) {
	pkIdx, err := pk.ColumnIndexes(pkColumns)
	if err != nil {
		return models.Relation{}, fmt.Errorf("resolve primary key: %w", err)
	}
	fkIdx, err := fk.ColumnIndexes(fkColumns)
	if err != nil {
		return models.Relation{}, fmt.Errorf("resolve foreign key: %w", err)
	}

	// Rows per foreign key tuple, all-null tuples excluded.
	groups := make(map[string]int)
	nullRows := 0
	for row := range fk.Rows {
		t := fk.KeyTuple(row, fkIdx)
		if t.AllNull() {
			nullRows++
			continue
		}
		groups[t.Encode()]++
	}

	if len(groups) == 0 {
		a.logger.Debug("No foreign key carries a value",
			zap.String("fk", fk.Name),
			zap.Int("fk_rows", fk.Len()))
		return models.Relation{}, nil
	}

	// The left side only distinguishes optional from mandatory participation;
	// it never reports more than one.
	left := models.Cardinality{Min: 1, Max: 1}
	if nullRows > 0 {
		left.Min = 0
	}

	right := models.Cardinality{Min: -1}
	for row := range pk.Rows {
		n := groups[pk.KeyTuple(row, pkIdx).Encode()]
		if n == 0 {
			right.Min = 0
			break
		}
		if right.Min < 0 || n < right.Min {
			right.Min = n
		}
	}
	if right.Min < 0 {
		right.Min = 0
	}
	for _, n := range groups {
		if n > right.Max {
			right.Max = n
		}
	}

	a.logger.Debug("Relation examined",
		zap.String("pk", pk.Name),
		zap.String("fk", fk.Name),
		zap.Int("fk_groups", len(groups)),
		zap.Int("fk_null_rows", nullRows),
		zap.Stringer("left", left),
		zap.Stringer("right", right))

	return models.Relation{Left: left, Right: right}, nil
}
