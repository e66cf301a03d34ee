package models

import "fmt"

// Cardinality is the minimum and maximum number of rows on one side of a
// relation that a single row on the other side corresponds to.
type Cardinality struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (c Cardinality) String() string {
	return fmt.Sprintf("%d,%d", c.Min, c.Max)
}

// Relation is the pair of cardinalities describing a primary key to foreign
// key relation. By convention the primary key side is on the left.
type Relation struct {
	Left  Cardinality `json:"left" yaml:"left"`
	Right Cardinality `json:"right" yaml:"right"`
}

// IsEmpty reports whether no relation is expressed at all.
func (r Relation) IsEmpty() bool {
	return r == Relation{}
}

// RelationClass is a coarse label for a relation.
type RelationClass string

// Relation classes. The arrow labels follow the usual source:target notation
// read from the primary key side.
const (
	RelationNone      RelationClass = "none"
	RelationOneToOne  RelationClass = Cardinality1To1
	RelationOneToMany RelationClass = Cardinality1ToN
	RelationManyToOne RelationClass = CardinalityNTo1
)

// Cardinality labels.
const (
	Cardinality1To1 = "1:1"
	Cardinality1ToN = "1:N"
	CardinalityNTo1 = "N:1"
)
