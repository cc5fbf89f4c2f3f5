package service

import (
	"roomie/internal/model"
)

// Strategy says which collections a recommendation query touches
type Strategy string

const (
	StrategyNone           Strategy = "none"           // no slot at all, never "match everything"
	StrategyAccommodations Strategy = "accommodations" // accommodation-side slots only
	StrategyRooms          Strategy = "rooms"          // room-side slots only
	StrategyJoined         Strategy = "joined"         // rooms restricted to the matched accommodations
)

// QueryPlan is the planner's output for a recommendation request
type QueryPlan struct {
	Strategy      Strategy
	Accommodation model.Predicate
	Room          model.Predicate
	Slots         *model.RecommendationSlots
}

// PlanRecommendation maps recommendation slots onto predicates. Only slots
// that are present produce conditions.
func PlanRecommendation(slots *model.RecommendationSlots) QueryPlan {
	if slots == nil {
		return QueryPlan{Strategy: StrategyNone}
	}

	plan := QueryPlan{
		Accommodation: accommodationPredicate(slots),
		Room:          roomPredicate(slots),
		Slots:         slots,
	}

	hasAcc, hasRoom := slots.HasAccommodationSlots(), slots.HasRoomSlots()
	switch {
	case hasAcc && hasRoom:
		plan.Strategy = StrategyJoined
	case hasAcc:
		plan.Strategy = StrategyAccommodations
	case hasRoom:
		plan.Strategy = StrategyRooms
	default:
		plan.Strategy = StrategyNone
	}
	return plan
}

func accommodationPredicate(slots *model.RecommendationSlots) model.Predicate {
	pred := model.Predicate{}
	if slots.Name != nil {
		pred = pred.Contains(model.FieldName, *slots.Name)
	}
	if slots.Type != nil {
		pred = pred.Contains(model.FieldType, *slots.Type)
	}
	if slots.Address != nil {
		pred = pred.Contains(model.FieldAddress, *slots.Address)
	}
	return pred
}

func roomPredicate(slots *model.RecommendationSlots) model.Predicate {
	pred := model.Predicate{}
	if slots.RoomType != nil {
		pred = pred.Contains(model.FieldRoomType, *slots.RoomType)
	}
	if slots.Description != nil {
		pred = pred.Contains(model.FieldDescription, *slots.Description)
	}
	if slots.BedSize != nil {
		pred = pred.Contains(model.FieldBedSize, *slots.BedSize)
	}
	if len(slots.Facilities) > 0 {
		pred = pred.ContainsAll(model.FieldFacilities, slots.Facilities)
	}
	if slots.Price != nil {
		pred = pred.AtMost(model.FieldPrice, *slots.Price)
	}
	if slots.MaxOccupancy != nil {
		pred = pred.AtLeast(model.FieldMaxOccupancy, float64(*slots.MaxOccupancy))
	}
	return pred
}

// ofAccommodation selects every room or rating of one accommodation
func ofAccommodation(id string) model.Predicate {
	return model.Predicate{}.Equals(model.FieldAccommodationID, id)
}
