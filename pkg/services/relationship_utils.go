package services

import (
	"github.com/ekaya-inc/cardinality/pkg/models"
)

// FormatCardinality renders a relation in min,max notation, e.g. "0,1 to 0,3".
func FormatCardinality(left, right models.Cardinality) string {
	return left.String() + " to " + right.String()
}

// ClassifyRelation maps a relation onto a cardinality label read from the
// primary key side.
//
//   - none: no foreign key carries a value
//   - 1:N: some primary key is referenced by more than one foreign key row
//   - 1:1: otherwise
//
// The left side never exceeds one because primary keys are unique, so N:1
// only arises from ReverseCardinality.
func ClassifyRelation(rel models.Relation) models.RelationClass {
	switch {
	case rel.IsEmpty():
		return models.RelationNone
	case rel.Right.Max > 1:
		return models.RelationOneToMany
	default:
		return models.RelationOneToOne
	}
}

// ReverseCardinality returns the class for the reverse direction of a relation.
// N:1 becomes 1:N and vice versa. Symmetric classes remain unchanged.
func ReverseCardinality(class models.RelationClass) models.RelationClass {
	switch class {
	case models.RelationManyToOne:
		return models.RelationOneToMany
	case models.RelationOneToMany:
		return models.RelationManyToOne
	default:
		return class // none and 1:1 stay the same
	}
}

// ReverseRelation swaps the sides of a relation so the foreign key side is on
// the left.
func ReverseRelation(rel models.Relation) models.Relation {
	return models.Relation{Left: rel.Right, Right: rel.Left}
}
