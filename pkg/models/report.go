package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationReport is the outcome of one analysis run.
// Sources are sanitized before they are stored here.
type RelationReport struct {
	ID                uuid.UUID     `json:"id" yaml:"id"`
	PrimaryKeySource  string        `json:"pk_source" yaml:"pk_source"`
	ForeignKeySource  string        `json:"fk_source" yaml:"fk_source"`
	PrimaryKeyColumns []string      `json:"pk_columns" yaml:"pk_columns"`
	ForeignKeyColumns []string      `json:"fk_columns" yaml:"fk_columns"`
	PrimaryKeyRows    int           `json:"pk_rows" yaml:"pk_rows"`
	ForeignKeyRows    int           `json:"fk_rows" yaml:"fk_rows"`
	Relation          Relation      `json:"relation" yaml:"relation"`
	Class             RelationClass `json:"class" yaml:"class"`
	Cardinality       string        `json:"cardinality" yaml:"cardinality"`
	ReverseClass      RelationClass `json:"reverse_class" yaml:"reverse_class"`
	ReverseNotation   string        `json:"reverse_cardinality" yaml:"reverse_cardinality"`
	AnalyzedAt        time.Time     `json:"analyzed_at" yaml:"analyzed_at"`
}
