package model

import (
	"fmt"
	"strings"
)

// Operator is the kind of comparison a Condition applies to a stored field
type Operator string

const (
	OpEquals      Operator = "eq"           // exact match
	OpContains    Operator = "contains"     // case-insensitive substring, value is literal text
	OpAtMost      Operator = "lte"          // upper bound, inclusive
	OpAtLeast     Operator = "gte"          // lower bound, inclusive
	OpContainsAll Operator = "contains_all" // array field holds every listed value (case-insensitive)
	OpIn          Operator = "in"           // field value is one of the listed values
)

// Logical field names understood by every store implementation
const (
	FieldID              = "id"
	FieldName            = "name"
	FieldType            = "type"
	FieldAddress         = "address"
	FieldAccommodationID = "accommodation_id"
	FieldRoomType        = "room_type"
	FieldDescription     = "description"
	FieldFacilities      = "facilities"
	FieldPrice           = "price"
	FieldBedSize         = "bed_size"
	FieldMaxOccupancy    = "max_occupancy"
)

// Condition is a single field constraint
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Predicate is a conjunction of conditions. An empty predicate is only ever
// used deliberately (e.g. "all ratings of X" carries its own condition), the
// planner never emits one to mean "match everything".
type Predicate struct {
	Conditions []Condition
}

// IsEmpty reports whether the predicate has no conditions
func (p Predicate) IsEmpty() bool {
	return len(p.Conditions) == 0
}

// Equals adds an exact-match condition
func (p Predicate) Equals(field string, value any) Predicate {
	return p.with(field, OpEquals, value)
}

// Contains adds a case-insensitive substring condition
func (p Predicate) Contains(field, text string) Predicate {
	return p.with(field, OpContains, text)
}

// AtMost adds an inclusive upper bound
func (p Predicate) AtMost(field string, value float64) Predicate {
	return p.with(field, OpAtMost, value)
}

// AtLeast adds an inclusive lower bound
func (p Predicate) AtLeast(field string, value float64) Predicate {
	return p.with(field, OpAtLeast, value)
}

// ContainsAll adds a "contains every value" condition on an array field
func (p Predicate) ContainsAll(field string, values []string) Predicate {
	return p.with(field, OpContainsAll, values)
}

// In adds a set-membership condition
func (p Predicate) In(field string, values []string) Predicate {
	return p.with(field, OpIn, values)
}

// And returns a predicate holding the conditions of both
func (p Predicate) And(other Predicate) Predicate {
	out := Predicate{Conditions: make([]Condition, 0, len(p.Conditions)+len(other.Conditions))}
	out.Conditions = append(out.Conditions, p.Conditions...)
	out.Conditions = append(out.Conditions, other.Conditions...)
	return out
}

// Fields returns the field names the predicate constrains, in order
func (p Predicate) Fields() []string {
	fields := make([]string, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		fields = append(fields, c.Field)
	}
	return fields
}

// String renders the predicate for logs
func (p Predicate) String() string {
	parts := make([]string, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		parts = append(parts, fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value))
	}
	return strings.Join(parts, " AND ")
}

func (p Predicate) with(field string, op Operator, value any) Predicate {
	conds := make([]Condition, len(p.Conditions), len(p.Conditions)+1)
	copy(conds, p.Conditions)
	return Predicate{Conditions: append(conds, Condition{Field: field, Op: op, Value: value})}
}
