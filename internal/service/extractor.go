package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"roomie/internal/model"
	"roomie/internal/utils"
)

// ErrExtractionFailed means the completion did not yield a usable slot object
var ErrExtractionFailed = errors.New("slot extraction failed")

const extractorSystemPrompt = `You extract structured search parameters from questions about hotels listed on Roomie.
Respond ONLY with a single JSON object.

Important rules:
- Only include a field when the user literally mentions it; omit every other field
- Never fill a field with a generic category word ("hotel", "room", "stay") or a guess
- Copy names, places and room types exactly as written by the user
- Prices are plain numbers: "500k" = 500000, "1.5M" = 1500000`

const recommendationPrompt = `Extract the following fields if present:
- name: accommodation name (string)
- type: accommodation type, e.g. "Hotel", "Villa", "Resort" (string)
- address: city, area or street (string)
- room_type: e.g. "Deluxe", "Suite" (string)
- description: other room wishes, e.g. "sea view" (string)
- facilities: required room facilities (array of strings)
- price: maximum price per night (number)
- bed_size: e.g. "King", "Queen", "Twin" (string)
- max_occupancy: number of guests (integer)

Examples:
Message: "Deluxe room in Bali with a pool for 2 people under 800k"
Response: {"address": "Bali", "room_type": "Deluxe", "facilities": ["pool"], "max_occupancy": 2, "price": 800000}

Message: "Is there any villa in Ubud?"
Response: {"type": "villa", "address": "Ubud"}

Message: %q`

const comparisonPrompt = `Extract the names of every accommodation the user wants to compare.
Response format: {"names": ["...", "..."]}

Example:
Message: "Compare Aston Kuta and Grand Hyatt Bali"
Response: {"names": ["Aston Kuta", "Grand Hyatt Bali"]}

Message: %q`

const hotelPrompt = `Extract the accommodation name and, if mentioned, the room type.
Response format: {"name": "...", "room_type": "..."}

Example:
Message: "How much is the deluxe room at Aston Kuta?"
Response: {"name": "Aston Kuta", "room_type": "deluxe"}

Message: %q`

// SlotExtractor turns a raw message into the slot bag of an intent
type SlotExtractor struct {
	completer Completer
}

// NewSlotExtractor creates a new slot extractor
func NewSlotExtractor(completer Completer) *SlotExtractor {
	return &SlotExtractor{completer: completer}
}

// ExtractRecommendation extracts recommendation slots
func (e *SlotExtractor) ExtractRecommendation(ctx context.Context, message string) (*model.RecommendationSlots, error) {
	obj, err := e.extract(ctx, recommendationPrompt, message)
	if err != nil {
		return nil, err
	}

	slots := &model.RecommendationSlots{
		Name:        stringSlot(obj, "name", message),
		Type:        stringSlot(obj, "type", message),
		Address:     stringSlot(obj, "address", message),
		RoomType:    stringSlot(obj, "room_type", message),
		Description: stringSlot(obj, "description", message),
		Facilities:  stringListSlot(obj, "facilities", message),
		Price:       numberSlot(obj, "price"),
		BedSize:     stringSlot(obj, "bed_size", message),
	}
	if occupancy := numberSlot(obj, "max_occupancy"); occupancy != nil && *occupancy == math.Trunc(*occupancy) {
		slots.MaxOccupancy = lo.ToPtr(int(*occupancy))
	}
	return slots, nil
}

// ExtractComparison extracts the hotel names to compare. Missing or
// malformed names yield an empty list, not a failure.
func (e *SlotExtractor) ExtractComparison(ctx context.Context, message string) (*model.ComparisonSlots, error) {
	obj, err := e.extract(ctx, comparisonPrompt, message)
	if err != nil {
		return nil, err
	}
	names := stringListSlot(obj, "names", message)
	if names == nil {
		names = []string{}
	}
	return &model.ComparisonSlots{Names: names}, nil
}

// ExtractHotel extracts the single hotel targeted by the facilities and price intents.
// The hotel name is mandatory.
func (e *SlotExtractor) ExtractHotel(ctx context.Context, message string) (*model.HotelSlots, error) {
	obj, err := e.extract(ctx, hotelPrompt, message)
	if err != nil {
		return nil, err
	}
	slots := &model.HotelSlots{
		Name:     stringSlot(obj, "name", message),
		RoomType: stringSlot(obj, "room_type", message),
	}
	if slots.Name == nil {
		return nil, fmt.Errorf("%w: no hotel name", ErrExtractionFailed)
	}
	return slots, nil
}

func (e *SlotExtractor) extract(ctx context.Context, promptTemplate, message string) (map[string]any, error) {
	text, err := e.completer.Complete(ctx, []Message{
		{Role: RoleSystem, Content: extractorSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(promptTemplate, message)},
	}, extractParams)
	if err != nil {
		return nil, fmt.Errorf("slot extraction completion failed: %w", err)
	}

	obj, err := utils.ParseAIObject(text)
	if err != nil {
		utils.Debugf("❌ Unparseable slot output: %s", text)
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	utils.Debugf("🎯 Raw slots: %+v", obj)
	return obj, nil
}

// stringSlot returns a trimmed string slot, or nil when it is absent,
// not a string, or not grounded in the message
func stringSlot(obj map[string]any, key, message string) *string {
	raw, ok := obj[key].(string)
	if !ok {
		return nil
	}
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "null") {
		return nil
	}
	if !utils.MentionedIn(message, value) {
		utils.Debugf("⚠️ Dropping %s=%q: not mentioned in message", key, value)
		return nil
	}
	return &value
}

// numberSlot accepts a JSON number or a numeric string; non-positive values are absent
func numberSlot(obj map[string]any, key string) *float64 {
	var value float64
	switch v := obj[key].(type) {
	case float64:
		value = v
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
		if err != nil {
			return nil
		}
		value = parsed
	default:
		return nil
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return nil
	}
	return &value
}

// stringListSlot accepts only an array of strings; entries are grounded,
// trimmed and deduplicated case-insensitively
func stringListSlot(obj map[string]any, key, message string) []string {
	raw, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		s, isString := item.(string)
		if !isString {
			return nil
		}
		if utils.MentionedIn(message, s) {
			values = append(values, s)
		}
	}
	values = utils.UniqueFold(values)
	if len(values) == 0 {
		return nil
	}
	return values
}
