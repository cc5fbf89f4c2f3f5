package model

import "strings"

// Intent is the closed-set category of a user question
type Intent string

const (
	IntentRecommendation Intent = "recommendation"
	IntentComparison     Intent = "comparison"
	IntentFacilities     Intent = "facilities"
	IntentPrice          Intent = "price"
	IntentPlatformInfo   Intent = "platform_info"
	IntentGeneral        Intent = "general"
	IntentUnrecognized   Intent = "unrecognized"
)

// IntentDefinition describes one classifiable intent
type IntentDefinition struct {
	Intent      Intent
	Description string   // Shown to the classifier
	Aliases     []string // Other labels the classifier may answer with
}

// Intents is the authoritative label set, in the order presented to the classifier
var Intents = []IntentDefinition{
	{
		Intent:      IntentRecommendation,
		Description: "the user wants hotel or room suggestions matching some criteria (location, type, budget, facilities, guests)",
	},
	{
		Intent:      IntentComparison,
		Description: "the user wants two or more specific hotels compared",
	},
	{
		Intent:      IntentFacilities,
		Description: "the user asks which facilities a specific hotel offers",
	},
	{
		Intent:      IntentPrice,
		Description: "the user asks about the price of a specific hotel or one of its room types",
	},
	{
		Intent:      IntentPlatformInfo,
		Description: "the user asks about Roomie itself: how it works, booking, NFTs, policies",
		Aliases:     []string{"platform info", "platform-info", "platforminfo"},
	},
	{
		Intent:      IntentGeneral,
		Description: "a general travel or accommodation question that needs no Roomie data",
		Aliases:     []string{"common", "common/general", "general/common"},
	},
}

var intentLookup = buildIntentLookup()

func buildIntentLookup() map[string]Intent {
	lookup := make(map[string]Intent)
	for _, def := range Intents {
		lookup[string(def.Intent)] = def.Intent
		for _, alias := range def.Aliases {
			lookup[alias] = def.Intent
		}
	}
	return lookup
}

// ParseIntent normalizes a classifier label and maps it into the closed set.
// Anything outside the set yields IntentUnrecognized and false.
func ParseIntent(label string) (Intent, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.Trim(normalized, "\"'`.!:;")
	normalized = strings.TrimSpace(normalized)

	if intent, ok := intentLookup[normalized]; ok {
		return intent, true
	}
	return IntentUnrecognized, false
}

// RecommendationSlots are the attributes extracted for a recommendation request.
// A nil/empty field means the user did not mention it.
type RecommendationSlots struct {
	Name         *string  `json:"name,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Address      *string  `json:"address,omitempty"`
	RoomType     *string  `json:"room_type,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Facilities   []string `json:"facilities,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	BedSize      *string  `json:"bed_size,omitempty"`
	MaxOccupancy *int     `json:"max_occupancy,omitempty"`
}

// HasAccommodationSlots reports whether any accommodation-side attribute is set
func (s *RecommendationSlots) HasAccommodationSlots() bool {
	return s.Name != nil || s.Type != nil || s.Address != nil
}

// HasRoomSlots reports whether any room-side attribute is set
func (s *RecommendationSlots) HasRoomSlots() bool {
	return s.RoomType != nil || s.Description != nil || len(s.Facilities) > 0 ||
		s.Price != nil || s.BedSize != nil || s.MaxOccupancy != nil
}

// ComparisonSlots are the hotel names a comparison request mentions
type ComparisonSlots struct {
	Names []string `json:"names"`
}

// HotelSlots target a single hotel, optionally narrowed to a room type.
// Used by the facilities and price intents.
type HotelSlots struct {
	Name     *string `json:"name,omitempty"`
	RoomType *string `json:"room_type,omitempty"`
}
