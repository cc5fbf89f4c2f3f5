package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"roomie/internal/model"
	"roomie/internal/repository"
	"roomie/internal/utils"
)

// Match reason constants
const (
	ReasonPriceMatch      = "Price within budget"
	ReasonCapacityMatch   = "Fits your group"
	ReasonFacilitiesMatch = "Has the requested facilities"
	ReasonRoomTypeMatch   = "Room type match"
	ReasonBedSizeMatch    = "Bed size match"
	ReasonLocationMatch   = "Location match"
)

// maxGroundingEntries bounds how many entities are rendered into one block
const maxGroundingEntries = 10

// AggregatedResult is either a grounding block for synthesis or a terminal reply
type AggregatedResult struct {
	Grounding string
	Reply     string
}

// Terminal reports whether the pipeline stops here with Reply
func (r AggregatedResult) Terminal() bool {
	return r.Reply != ""
}

func terminal(reply string) AggregatedResult {
	return AggregatedResult{Reply: reply}
}

// Aggregator executes planned queries, joins rooms to accommodations and
// renders deterministic text blocks
type Aggregator struct {
	store repository.Store
}

// NewAggregator creates a new result aggregator
func NewAggregator(store repository.Store) *Aggregator {
	return &Aggregator{store: store}
}

// Recommend runs a recommendation plan
func (a *Aggregator) Recommend(ctx context.Context, plan QueryPlan) (AggregatedResult, error) {
	switch plan.Strategy {
	case StrategyAccommodations:
		accommodations, err := a.store.FindAccommodations(ctx, plan.Accommodation)
		if err != nil {
			return AggregatedResult{}, fmt.Errorf("failed to find accommodations: %w", err)
		}
		if len(accommodations) == 0 {
			return terminal(ReplyNoMatch), nil
		}
		return AggregatedResult{Grounding: renderAccommodations(accommodations)}, nil

	case StrategyRooms:
		rooms, err := a.store.FindRooms(ctx, plan.Room)
		if err != nil {
			return AggregatedResult{}, fmt.Errorf("failed to find rooms: %w", err)
		}
		if len(rooms) == 0 {
			return terminal(ReplyNoRoomsMatch), nil
		}
		owners, err := a.resolveOwners(ctx, rooms)
		if err != nil {
			return AggregatedResult{}, err
		}
		return AggregatedResult{Grounding: renderRooms(rooms, owners, plan.Slots)}, nil

	case StrategyJoined:
		accommodations, err := a.store.FindAccommodations(ctx, plan.Accommodation)
		if err != nil {
			return AggregatedResult{}, fmt.Errorf("failed to find accommodations: %w", err)
		}
		if len(accommodations) == 0 {
			return terminal(ReplyNoMatch), nil
		}

		ids := lo.Map(accommodations, func(acc model.Accommodation, _ int) string { return acc.ID })
		rooms, err := a.store.FindRooms(ctx, model.Predicate{}.In(model.FieldAccommodationID, ids).And(plan.Room))
		if err != nil {
			return AggregatedResult{}, fmt.Errorf("failed to find rooms: %w", err)
		}
		if len(rooms) == 0 {
			return terminal(ReplyHotelsButNoRooms), nil
		}
		owners := lo.KeyBy(accommodations, func(acc model.Accommodation) string { return acc.ID })
		return AggregatedResult{Grounding: renderRooms(rooms, owners, plan.Slots)}, nil

	default:
		return terminal(ReplyNoMatch), nil
	}
}

// resolveOwners looks up the accommodations of the given rooms in one query.
// Rooms whose accommodation is missing are simply absent from the map.
func (a *Aggregator) resolveOwners(ctx context.Context, rooms []model.Room) (map[string]model.Accommodation, error) {
	ids := lo.Uniq(lo.Map(rooms, func(r model.Room, _ int) string { return r.AccommodationID }))
	accommodations, err := a.store.FindAccommodations(ctx, model.Predicate{}.In(model.FieldID, ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve room accommodations: %w", err)
	}
	return lo.KeyBy(accommodations, func(acc model.Accommodation) string { return acc.ID }), nil
}

// Compare renders one block per distinct accommodation named in the slots
func (a *Aggregator) Compare(ctx context.Context, slots *model.ComparisonSlots) (AggregatedResult, error) {
	if slots == nil || len(slots.Names) < 2 {
		return terminal(ReplyInsufficientHotels), nil
	}

	var matched []model.Accommodation
	seen := map[string]bool{}
	for _, name := range slots.Names {
		acc, err := a.store.FindAccommodation(ctx, model.Predicate{}.Contains(model.FieldName, name))
		if err != nil {
			return AggregatedResult{}, fmt.Errorf("failed to find accommodation %q: %w", name, err)
		}
		if acc == nil || seen[acc.ID] {
			continue
		}
		seen[acc.ID] = true
		matched = append(matched, *acc)
	}
	if len(matched) < 2 {
		return terminal(ReplyInsufficientHotels), nil
	}

	blocks := make([]string, 0, len(matched))
	for _, acc := range matched {
		rooms, err := a.store.FindRooms(ctx, ofAccommodation(acc.ID))
		if err != nil {
			return AggregatedResult{}, fmt.Errorf("failed to find rooms of %s: %w", acc.Name, err)
		}
		ratings, err := a.store.FindRatings(ctx, ofAccommodation(acc.ID))
		if err != nil {
			return AggregatedResult{}, fmt.Errorf("failed to find ratings of %s: %w", acc.Name, err)
		}
		blocks = append(blocks, renderComparison(acc, rooms, ratings))
	}
	return AggregatedResult{Grounding: strings.Join(blocks, "\n\n")}, nil
}

// Facilities renders the facility union of one accommodation
func (a *Aggregator) Facilities(ctx context.Context, slots *model.HotelSlots) (AggregatedResult, error) {
	acc, rooms, result, err := a.resolveHotel(ctx, slots)
	if err != nil || result.Terminal() {
		return result, err
	}
	if len(rooms) == 0 {
		return terminal(replyNoRoomInfo(acc.Name)), nil
	}

	if slots.RoomType != nil {
		rooms = filterRoomType(rooms, *slots.RoomType)
		if len(rooms) == 0 {
			return terminal(replyNoRoomTypeFacilities(*slots.RoomType, acc.Name)), nil
		}
	}

	facilities := FacilityUnion(rooms)
	if len(facilities) == 0 {
		return terminal(replyNoFacilityInfo(acc.Name)), nil
	}

	var b strings.Builder
	writeAccommodationHeader(&b, *acc)
	if slots.RoomType != nil {
		fmt.Fprintf(&b, "Room type: %s\n", *slots.RoomType)
	}
	fmt.Fprintf(&b, "Facilities: %s", strings.Join(facilities, ", "))
	return AggregatedResult{Grounding: b.String()}, nil
}

// Price renders pricing for one accommodation, optionally for one room type
func (a *Aggregator) Price(ctx context.Context, slots *model.HotelSlots) (AggregatedResult, error) {
	acc, rooms, result, err := a.resolveHotel(ctx, slots)
	if err != nil || result.Terminal() {
		return result, err
	}
	if len(rooms) == 0 {
		return terminal(replyNoPricingInfo(acc.Name)), nil
	}

	var b strings.Builder
	writeAccommodationHeader(&b, *acc)

	if slots.RoomType != nil {
		rooms = filterRoomType(rooms, *slots.RoomType)
		if len(rooms) == 0 {
			return terminal(replyNoRoomTypePricing(*slots.RoomType, acc.Name)), nil
		}
		fmt.Fprintf(&b, "Requested room type: %s\n", *slots.RoomType)
	}

	mean, _ := MeanPrice(rooms)
	fmt.Fprintf(&b, "Average price: %d\n", mean)
	b.WriteString("Prices by room type:")
	for _, line := range roomTypePrices(rooms) {
		fmt.Fprintf(&b, "\n- %s", line)
	}
	return AggregatedResult{Grounding: b.String()}, nil
}

func (a *Aggregator) resolveHotel(ctx context.Context, slots *model.HotelSlots) (*model.Accommodation, []model.Room, AggregatedResult, error) {
	if slots == nil || slots.Name == nil {
		return nil, nil, terminal(ReplyClarify), nil
	}

	acc, err := a.store.FindAccommodation(ctx, model.Predicate{}.Contains(model.FieldName, *slots.Name))
	if err != nil {
		return nil, nil, AggregatedResult{}, fmt.Errorf("failed to find accommodation %q: %w", *slots.Name, err)
	}
	if acc == nil {
		return nil, nil, terminal(replyHotelNotFound(*slots.Name)), nil
	}

	rooms, err := a.store.FindRooms(ctx, ofAccommodation(acc.ID))
	if err != nil {
		return nil, nil, AggregatedResult{}, fmt.Errorf("failed to find rooms of %s: %w", acc.Name, err)
	}
	return acc, rooms, AggregatedResult{}, nil
}

// MeanPrice is the arithmetic mean room price rounded to the nearest whole unit
func MeanPrice(rooms []model.Room) (int, bool) {
	if len(rooms) == 0 {
		return 0, false
	}
	total := lo.SumBy(rooms, func(r model.Room) float64 { return r.Price })
	return int(math.Round(total / float64(len(rooms)))), true
}

// FacilityUnion is the case-insensitively deduplicated, sorted union of all
// room facilities; it does not depend on room order
func FacilityUnion(rooms []model.Room) []string {
	return utils.UniqueFold(lo.FlatMap(rooms, func(r model.Room, _ int) []string { return r.Facilities }))
}

// AverageRating is the mean score rounded and clamped to 1..5
func AverageRating(ratings []model.Rating) (int, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	total := lo.SumBy(ratings, func(r model.Rating) float64 { return r.Score })
	avg := int(math.Round(total / float64(len(ratings))))
	return lo.Clamp(avg, 1, 5), true
}

func filterRoomType(rooms []model.Room, roomType string) []model.Room {
	needle := strings.ToLower(strings.TrimSpace(roomType))
	return lo.Filter(rooms, func(r model.Room, _ int) bool {
		return strings.Contains(strings.ToLower(r.RoomType), needle)
	})
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// roomTypePrices lists each room type with its price (or price range), sorted by type
func roomTypePrices(rooms []model.Room) []string {
	byType := lo.GroupBy(rooms, func(r model.Room) string { return r.RoomType })
	types := lo.Keys(byType)
	sort.Strings(types)

	lines := make([]string, 0, len(types))
	for _, roomType := range types {
		prices := lo.Map(byType[roomType], func(r model.Room, _ int) float64 { return r.Price })
		minPrice, maxPrice := lo.Min(prices), lo.Max(prices)
		if minPrice == maxPrice {
			lines = append(lines, fmt.Sprintf("%s: %s", roomType, formatPrice(minPrice)))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s - %s", roomType, formatPrice(minPrice), formatPrice(maxPrice)))
		}
	}
	return lines
}

func writeAccommodationHeader(b *strings.Builder, acc model.Accommodation) {
	fmt.Fprintf(b, "Accommodation: %s\n", acc.Name)
	if acc.Type != "" {
		fmt.Fprintf(b, "Type: %s\n", acc.Type)
	}
	if acc.Address != "" {
		fmt.Fprintf(b, "Address: %s\n", acc.Address)
	}
}

func renderAccommodations(accommodations []model.Accommodation) string {
	blocks := make([]string, 0, len(accommodations))
	for i, acc := range accommodations {
		if i == maxGroundingEntries {
			blocks = append(blocks, fmt.Sprintf("...and %d more accommodations", len(accommodations)-i))
			break
		}
		var b strings.Builder
		writeAccommodationHeader(&b, acc)
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func renderRooms(rooms []model.Room, owners map[string]model.Accommodation, slots *model.RecommendationSlots) string {
	ordered := make([]model.Room, len(rooms))
	copy(ordered, rooms)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Price != ordered[j].Price {
			return ordered[i].Price < ordered[j].Price
		}
		return ordered[i].ID < ordered[j].ID
	})

	blocks := make([]string, 0, len(ordered))
	for i, room := range ordered {
		if i == maxGroundingEntries {
			blocks = append(blocks, fmt.Sprintf("...and %d more rooms", len(ordered)-i))
			break
		}

		var b strings.Builder
		if acc, ok := owners[room.AccommodationID]; ok {
			fmt.Fprintf(&b, "Accommodation: %s", acc.Name)
			if details := lo.Compact([]string{acc.Type, acc.Address}); len(details) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(details, ", "))
			}
			b.WriteString("\n")
		} else {
			b.WriteString("Accommodation: (accommodation data unavailable)\n")
		}
		fmt.Fprintf(&b, "Room: %s\n", room.RoomType)
		fmt.Fprintf(&b, "Price: %s\n", formatPrice(room.Price))
		if room.BedSize != "" {
			fmt.Fprintf(&b, "Bed size: %s\n", room.BedSize)
		}
		fmt.Fprintf(&b, "Max occupancy: %d\n", room.MaxOccupancy)
		if facilities := utils.UniqueFold(room.Facilities); len(facilities) > 0 {
			fmt.Fprintf(&b, "Facilities: %s\n", strings.Join(facilities, ", "))
		}
		if room.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", room.Description)
		}
		if reasons := matchedReasons(room, owners[room.AccommodationID], slots); len(reasons) > 0 {
			fmt.Fprintf(&b, "Matches: %s\n", strings.Join(reasons, ", "))
		}
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func renderComparison(acc model.Accommodation, rooms []model.Room, ratings []model.Rating) string {
	var b strings.Builder
	writeAccommodationHeader(&b, acc)

	if mean, ok := MeanPrice(rooms); ok {
		fmt.Fprintf(&b, "Average price: %d\n", mean)
	} else {
		fmt.Fprintf(&b, "Average price: %s\n", placeholderNoRooms)
	}

	if facilities := FacilityUnion(rooms); len(facilities) > 0 {
		fmt.Fprintf(&b, "Facilities: %s\n", strings.Join(facilities, ", "))
	} else {
		fmt.Fprintf(&b, "Facilities: %s\n", placeholderNoFacilities)
	}

	if rating, ok := AverageRating(ratings); ok {
		fmt.Fprintf(&b, "Average rating: %d/5", rating)
	} else {
		fmt.Fprintf(&b, "Average rating: %s", placeholderNoRatings)
	}
	return b.String()
}

// matchedReasons explains which of the requested criteria a room satisfies
func matchedReasons(room model.Room, acc model.Accommodation, slots *model.RecommendationSlots) []string {
	if slots == nil {
		return nil
	}
	reasons := []string{}
	if slots.Price != nil && room.Price <= *slots.Price {
		reasons = append(reasons, ReasonPriceMatch)
	}
	if slots.MaxOccupancy != nil && room.MaxOccupancy >= *slots.MaxOccupancy {
		reasons = append(reasons, ReasonCapacityMatch)
	}
	if len(slots.Facilities) > 0 {
		reasons = append(reasons, ReasonFacilitiesMatch)
	}
	if slots.RoomType != nil {
		reasons = append(reasons, ReasonRoomTypeMatch)
	}
	if slots.BedSize != nil {
		reasons = append(reasons, ReasonBedSizeMatch)
	}
	if slots.Address != nil && acc.Address != "" {
		reasons = append(reasons, ReasonLocationMatch)
	}
	return reasons
}
