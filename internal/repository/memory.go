package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"

	"roomie/internal/model"
	"roomie/internal/utils"
)

// MemoryStore is an in-process Store, used for tests and local demos
type MemoryStore struct {
	accommodations []model.Accommodation
	rooms          []model.Room
	ratings        []model.Rating
}

// MemorySeed is the fixture format accepted by LoadMemoryStore
type MemorySeed struct {
	Accommodations []model.Accommodation `json:"accommodations"`
	Rooms          []model.Room          `json:"rooms"`
	Ratings        []model.Rating        `json:"ratings"`
}

type accessor func(record any) any

var accommodationFields = map[string]accessor{
	model.FieldID:      func(r any) any { return r.(model.Accommodation).ID },
	model.FieldName:    func(r any) any { return r.(model.Accommodation).Name },
	model.FieldType:    func(r any) any { return r.(model.Accommodation).Type },
	model.FieldAddress: func(r any) any { return r.(model.Accommodation).Address },
}

var roomFields = map[string]accessor{
	model.FieldID:              func(r any) any { return r.(model.Room).ID },
	model.FieldAccommodationID: func(r any) any { return r.(model.Room).AccommodationID },
	model.FieldRoomType:        func(r any) any { return r.(model.Room).RoomType },
	model.FieldDescription:     func(r any) any { return r.(model.Room).Description },
	model.FieldFacilities:      func(r any) any { return []string(r.(model.Room).Facilities) },
	model.FieldPrice:           func(r any) any { return r.(model.Room).Price },
	model.FieldBedSize:         func(r any) any { return r.(model.Room).BedSize },
	model.FieldMaxOccupancy:    func(r any) any { return float64(r.(model.Room).MaxOccupancy) },
}

var ratingFields = map[string]accessor{
	model.FieldID:              func(r any) any { return r.(model.Rating).ID },
	model.FieldAccommodationID: func(r any) any { return r.(model.Rating).AccommodationID },
}

// NewMemoryStore creates a store holding the given records
func NewMemoryStore(accommodations []model.Accommodation, rooms []model.Room, ratings []model.Rating) *MemoryStore {
	return &MemoryStore{
		accommodations: accommodations,
		rooms:          rooms,
		ratings:        ratings,
	}
}

// LoadMemoryStore creates a store from a JSON fixture file; an empty path yields an empty store
func LoadMemoryStore(path string) (*MemoryStore, error) {
	if path == "" {
		return NewMemoryStore(nil, nil, nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed MemorySeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return NewMemoryStore(seed.Accommodations, seed.Rooms, seed.Ratings), nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

// FindAccommodations returns every accommodation matching the predicate
func (s *MemoryStore) FindAccommodations(ctx context.Context, pred model.Predicate) ([]model.Accommodation, error) {
	return filterRecords(ctx, "accommodations", s.accommodations, accommodationFields, pred)
}

// FindAccommodation returns the first matching accommodation, or nil
func (s *MemoryStore) FindAccommodation(ctx context.Context, pred model.Predicate) (*model.Accommodation, error) {
	matches, err := s.FindAccommodations(ctx, pred)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return &matches[0], nil
}

// FindRooms returns every room matching the predicate
func (s *MemoryStore) FindRooms(ctx context.Context, pred model.Predicate) ([]model.Room, error) {
	return filterRecords(ctx, "rooms", s.rooms, roomFields, pred)
}

// FindRatings returns every rating matching the predicate
func (s *MemoryStore) FindRatings(ctx context.Context, pred model.Predicate) ([]model.Rating, error) {
	return filterRecords(ctx, "ratings", s.ratings, ratingFields, pred)
}

func filterRecords[T any](ctx context.Context, collection string, records []T, fields map[string]accessor, pred model.Predicate) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, cond := range pred.Conditions {
		if _, ok := fields[cond.Field]; !ok {
			return nil, unknownField(collection, cond.Field)
		}
	}

	out := make([]T, 0)
	for _, record := range records {
		matched := true
		for _, cond := range pred.Conditions {
			ok, err := matchCondition(cond, fields[cond.Field](record))
			if err != nil {
				return nil, err
			}
			if !ok {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, record)
		}
	}
	return out, nil
}

func matchCondition(cond model.Condition, actual any) (bool, error) {
	switch cond.Op {
	case model.OpEquals:
		if _, isList := actual.([]string); isList {
			return false, unsupportedOperator(cond.Field, cond.Op)
		}
		return actual == cond.Value, nil

	case model.OpContains:
		text, isText := actual.(string)
		needle, ok := cond.Value.(string)
		if !isText || !ok {
			return false, unsupportedOperator(cond.Field, cond.Op)
		}
		return strings.Contains(strings.ToLower(text), strings.ToLower(needle)), nil

	case model.OpAtMost, model.OpAtLeast:
		number, isNumber := actual.(float64)
		if !isNumber {
			return false, unsupportedOperator(cond.Field, cond.Op)
		}
		bound, err := numberValue(cond.Field, cond.Value)
		if err != nil {
			return false, err
		}
		if cond.Op == model.OpAtMost {
			return number <= bound, nil
		}
		return number >= bound, nil

	case model.OpContainsAll:
		list, isList := actual.([]string)
		if !isList {
			return false, unsupportedOperator(cond.Field, cond.Op)
		}
		required, err := stringValues(cond.Field, cond.Value)
		if err != nil {
			return false, err
		}
		return lo.EveryBy(required, func(req string) bool {
			return lo.ContainsBy(list, func(have string) bool { return utils.FacilityMatches(req, have) })
		}), nil

	case model.OpIn:
		text, isText := actual.(string)
		if !isText {
			return false, unsupportedOperator(cond.Field, cond.Op)
		}
		values, err := stringValues(cond.Field, cond.Value)
		if err != nil {
			return false, err
		}
		return lo.Contains(values, text), nil

	default:
		return false, unsupportedOperator(cond.Field, cond.Op)
	}
}
