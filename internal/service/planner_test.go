package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"roomie/internal/model"
)

func TestPlanRecommendation(t *testing.T) {
	tests := []struct {
		name       string
		slots      *model.RecommendationSlots
		strategy   Strategy
		accFields  []string
		roomFields []string
	}{
		{name: "Nil slots", slots: nil, strategy: StrategyNone},
		{name: "No slots", slots: &model.RecommendationSlots{}, strategy: StrategyNone},
		{
			name:      "Accommodation only",
			slots:     &model.RecommendationSlots{Type: lo.ToPtr("Villa"), Address: lo.ToPtr("Ubud")},
			strategy:  StrategyAccommodations,
			accFields: []string{model.FieldType, model.FieldAddress},
		},
		{
			name:       "Room only",
			slots:      &model.RecommendationSlots{Price: lo.ToPtr(500.0), MaxOccupancy: lo.ToPtr(2)},
			strategy:   StrategyRooms,
			roomFields: []string{model.FieldPrice, model.FieldMaxOccupancy},
		},
		{
			name:       "Description only",
			slots:      &model.RecommendationSlots{Description: lo.ToPtr("sea view")},
			strategy:   StrategyRooms,
			roomFields: []string{model.FieldDescription},
		},
		{
			name:      "Name only",
			slots:     &model.RecommendationSlots{Name: lo.ToPtr("Aston")},
			strategy:  StrategyAccommodations,
			accFields: []string{model.FieldName},
		},
		{
			name: "Joined",
			slots: &model.RecommendationSlots{
				Name:       lo.ToPtr("Aston"),
				RoomType:   lo.ToPtr("Deluxe"),
				Facilities: []string{"pool"},
				BedSize:    lo.ToPtr("King"),
			},
			strategy:   StrategyJoined,
			accFields:  []string{model.FieldName},
			roomFields: []string{model.FieldRoomType, model.FieldBedSize, model.FieldFacilities},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanRecommendation(tt.slots)
			assert.Equal(t, tt.strategy, plan.Strategy)
			assertFields(t, tt.accFields, plan.Accommodation)
			assertFields(t, tt.roomFields, plan.Room)
		})
	}
}

func TestPlanRecommendation_Operators(t *testing.T) {
	plan := PlanRecommendation(&model.RecommendationSlots{
		Address:      lo.ToPtr("Bali"),
		Facilities:   []string{"pool", "gym"},
		Price:        lo.ToPtr(1000.0),
		MaxOccupancy: lo.ToPtr(3),
	})

	assert.Equal(t, []model.Condition{
		{Field: model.FieldAddress, Op: model.OpContains, Value: "Bali"},
	}, plan.Accommodation.Conditions)
	assert.Equal(t, []model.Condition{
		{Field: model.FieldFacilities, Op: model.OpContainsAll, Value: []string{"pool", "gym"}},
		{Field: model.FieldPrice, Op: model.OpAtMost, Value: 1000.0},
		{Field: model.FieldMaxOccupancy, Op: model.OpAtLeast, Value: 3.0},
	}, plan.Room.Conditions)
}

func assertFields(t *testing.T, want []string, pred model.Predicate) {
	t.Helper()
	if len(want) == 0 {
		assert.True(t, pred.IsEmpty(), "unexpected conditions: %s", pred)
		return
	}
	assert.Equal(t, want, pred.Fields())
}
