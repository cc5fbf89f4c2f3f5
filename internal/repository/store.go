package repository

import (
	"context"
	"errors"
	"fmt"

	"roomie/internal/model"
)

var (
	// ErrUnknownField is returned when a predicate names a field the collection does not have
	ErrUnknownField = errors.New("unknown predicate field")
	// ErrUnsupportedOperator is returned when a field cannot be queried with the requested operator
	ErrUnsupportedOperator = errors.New("unsupported predicate operator")
)

// Store is the read side of the accommodation persistence layer used by the assistant
type Store interface {
	// FindAccommodations returns every accommodation matching the predicate
	FindAccommodations(ctx context.Context, pred model.Predicate) ([]model.Accommodation, error)

	// FindAccommodation returns the first matching accommodation, or nil when none matches
	FindAccommodation(ctx context.Context, pred model.Predicate) (*model.Accommodation, error)

	// FindRooms returns every room matching the predicate
	FindRooms(ctx context.Context, pred model.Predicate) ([]model.Room, error)

	// FindRatings returns every rating matching the predicate
	FindRatings(ctx context.Context, pred model.Predicate) ([]model.Rating, error)

	Close() error
}

func unknownField(collection, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, collection, field)
}

func unsupportedOperator(field string, op model.Operator) error {
	return fmt.Errorf("%w: %s on %s", ErrUnsupportedOperator, op, field)
}

// stringValues coerces a set-style condition value
func stringValues(field string, value any) ([]string, error) {
	values, ok := value.([]string)
	if !ok {
		return nil, fmt.Errorf("condition on %s expects []string, got %T", field, value)
	}
	return values, nil
}

// numberValue coerces a range condition value
func numberValue(field string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("condition on %s expects a number, got %T", field, value)
	}
}
