package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		label  string
		want   Intent
		wantOK bool
	}{
		{label: "recommendation", want: IntentRecommendation, wantOK: true},
		{label: "  Comparison\n", want: IntentComparison, wantOK: true},
		{label: "FACILITIES.", want: IntentFacilities, wantOK: true},
		{label: "\"price\"", want: IntentPrice, wantOK: true},
		{label: "platform_info", want: IntentPlatformInfo, wantOK: true},
		{label: "Platform Info", want: IntentPlatformInfo, wantOK: true},
		{label: "general", want: IntentGeneral, wantOK: true},
		{label: "common", want: IntentGeneral, wantOK: true},
		{label: "The intent is recommendation", want: IntentUnrecognized},
		{label: "weather", want: IntentUnrecognized},
		{label: "", want: IntentUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseIntent(tt.label)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRecommendationSlotsSides(t *testing.T) {
	name := "Aston"
	price := 500.0

	empty := RecommendationSlots{}
	assert.False(t, empty.HasAccommodationSlots())
	assert.False(t, empty.HasRoomSlots())

	accOnly := RecommendationSlots{Name: &name}
	assert.True(t, accOnly.HasAccommodationSlots())
	assert.False(t, accOnly.HasRoomSlots())

	roomOnly := RecommendationSlots{Price: &price}
	assert.False(t, roomOnly.HasAccommodationSlots())
	assert.True(t, roomOnly.HasRoomSlots())

	facilitiesOnly := RecommendationSlots{Facilities: []string{"WiFi"}}
	assert.True(t, facilitiesOnly.HasRoomSlots())
}

func TestPredicateBuilders(t *testing.T) {
	base := Predicate{}.Contains(FieldName, "Aston")
	extended := base.AtMost(FieldPrice, 500)

	assert.Len(t, base.Conditions, 1, "builders must not mutate the receiver")
	assert.Equal(t, []string{FieldName, FieldPrice}, extended.Fields())
	assert.True(t, Predicate{}.IsEmpty())

	joined := base.And(Predicate{}.In(FieldAccommodationID, []string{"a1"}))
	assert.Equal(t, []string{FieldName, FieldAccommodationID}, joined.Fields())
	assert.Equal(t, "name contains Aston AND price lte 500", extended.String())
}
