package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomie/internal/resilience"
)

func newTestAssistant(completer Completer, store *countingStore, fetcher DocumentFetcher) *Assistant {
	if fetcher == nil {
		fetcher = &fakeFetcher{doc: "Roomie lets you book rooms as NFTs."}
	}
	return NewAssistant(completer, store, fetcher, time.Second)
}

func TestAssistant_UnrecognizedDeclines(t *testing.T) {
	tests := []struct {
		name    string
		decline fakeReply
		want    string
	}{
		{name: "Decline completion", decline: reply("Sorry, I can only help with Roomie stays."), want: "Sorry, I can only help with Roomie stays."},
		{name: "Decline completion fails", decline: failure(errors.New("boom")), want: ReplyDecline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := newFakeCompleter(reply("Weather forecast"), tt.decline)
			store := testStore()

			got := newTestAssistant(completer, store, nil).Ask(context.Background(), "What's the weather tomorrow?")

			assert.Equal(t, tt.want, got.Response)
			assert.Equal(t, 2, completer.callCount(), "no extraction call")
			assert.Equal(t, 0, store.queryCount(), "no store query")
		})
	}
}

func TestAssistant_RecommendationWithoutSlots(t *testing.T) {
	completer := newFakeCompleter(reply("recommendation"), reply("{}"))
	store := testStore()

	got := newTestAssistant(completer, store, nil).Ask(context.Background(), "hotels under 500 for comfort stays near downtown")

	assert.Equal(t, "Sorry, we couldn't find any hotels that match your search.", got.Response)
	assert.Equal(t, 2, completer.callCount(), "no synthesis call")
	assert.Equal(t, 0, store.queryCount())
}

func TestAssistant_RecommendationDropsInventedSlots(t *testing.T) {
	completer := newFakeCompleter(
		reply("recommendation"),
		reply(`{"address": "Bali", "facilities": ["Spa"], "type": "Hotel"}`),
		reply("Aston Bali Resort and Villa Kosong Ubud are both in Bali."),
	)
	store := testStore()

	got := newTestAssistant(completer, store, nil).Ask(context.Background(), "somewhere to stay in Bali")

	assert.Equal(t, "Aston Bali Resort and Villa Kosong Ubud are both in Bali.", got.Response)
	grounding := completer.lastUserContent()
	assert.Contains(t, grounding, "Aston Bali Resort")
	assert.Contains(t, grounding, "Villa Kosong Ubud")
	assert.NotContains(t, grounding, "Room:", "facilities were invented, so no room query")
}

func TestAssistant_RecommendationJoined(t *testing.T) {
	completer := newFakeCompleter(
		reply("Recommendation."),
		reply("```json\n{\"address\": \"Bali\", \"facilities\": [\"pool\"], \"price\": \"200\"}\n```"),
		reply("Try the Deluxe Room at Aston Bali Resort."),
	)

	got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "a room in Bali with a pool under 200")

	assert.Equal(t, "Try the Deluxe Room at Aston Bali Resort.", got.Response)
	grounding := completer.lastUserContent()
	assert.Contains(t, grounding, "Accommodation: Aston Bali Resort (Resort, Kuta, Bali)")
	assert.Contains(t, grounding, "Room: Deluxe Room")
	assert.NotContains(t, grounding, "Family Suite")
	assert.Contains(t, grounding, ReasonPriceMatch)
}

func TestAssistant_RecommendationHotelsButNoRooms(t *testing.T) {
	completer := newFakeCompleter(
		reply("recommendation"),
		reply(`{"address": "Ubud", "max_occupancy": 2}`),
	)

	got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "room in Ubud for 2")

	assert.Equal(t, ReplyHotelsButNoRooms, got.Response)
	assert.Equal(t, 2, completer.callCount())
}

func TestAssistant_ComparisonInsufficientHotels(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		extraction string
	}{
		{name: "One name", message: "compare Aston Bali", extraction: `{"names": ["Aston Bali"]}`},
		{name: "Second hotel unknown", message: "compare Aston Bali and Ritz Paris", extraction: `{"names": ["Aston Bali", "Ritz Paris"]}`},
		{name: "Same hotel twice", message: "compare Aston Bali and Aston Bali Resort", extraction: `{"names": ["Aston Bali", "Aston Bali Resort"]}`},
		{name: "Names not an array", message: "compare Aston and Hyatt", extraction: `{"names": "Aston, Hyatt"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := newFakeCompleter(reply("comparison"), reply(tt.extraction))

			got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), tt.message)

			assert.Equal(t, ReplyInsufficientHotels, got.Response)
			assert.Equal(t, 2, completer.callCount())
		})
	}
}

func TestAssistant_ComparisonWithoutRooms(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		extraction string
		noRooms    int
		hotels     []string
	}{
		{
			name:       "Both without rooms",
			message:    "compare Villa Kosong with Rumah Kosong",
			extraction: `{"names": ["Villa Kosong", "Rumah Kosong"]}`,
			noRooms:    2,
			hotels:     []string{"Villa Kosong Ubud", "Rumah Kosong"},
		},
		{
			name:       "One without rooms",
			message:    "compare Villa Kosong with Pondok Sepi",
			extraction: `{"names": ["Villa Kosong", "Pondok Sepi"]}`,
			noRooms:    1,
			hotels:     []string{"Villa Kosong Ubud", "Pondok Sepi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := newFakeCompleter(reply("comparison"), reply(tt.extraction), reply("Both are quiet places."))

			got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), tt.message)

			assert.Equal(t, "Both are quiet places.", got.Response)
			grounding := completer.lastUserContent()
			assert.Equal(t, tt.noRooms, strings.Count(grounding, "No room data available"))
			assert.Equal(t, 2, strings.Count(grounding, "No facility data available"))
			assert.Equal(t, 2, strings.Count(grounding, "No rating data available"))
			for _, hotel := range tt.hotels {
				assert.Contains(t, grounding, "Accommodation: "+hotel)
			}
		})
	}
}

func TestAssistant_ComparisonRendersAggregates(t *testing.T) {
	completer := newFakeCompleter(
		reply("comparison"),
		reply(`{"names": ["Aston Bali", "Grand Hyatt"]}`),
		reply("Aston is pricier."),
	)

	got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "Compare Aston Bali and Grand Hyatt")

	assert.Equal(t, "Aston is pricier.", got.Response)
	grounding := completer.lastUserContent()
	assert.Contains(t, grounding, "Average price: 200\nFacilities: Bathtub, Swimming Pool, WiFi\nAverage rating: 5/5")
	assert.Contains(t, grounding, "Average price: 150\nFacilities: TV\nAverage rating: No rating data available")
}

func TestAssistant_Facilities(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		extraction string
		want       string
		calls      int
	}{
		{name: "Unknown hotel", message: "facilities of Ritz Paris", extraction: `{"name": "Ritz Paris"}`, want: "Sorry, we couldn't find a hotel named Ritz Paris on Roomie.", calls: 2},
		{name: "No rooms", message: "what does Villa Kosong offer", extraction: `{"name": "Villa Kosong"}`, want: "No room information is available for Villa Kosong Ubud.", calls: 2},
		{name: "Empty union", message: "facilities at Pondok Sepi", extraction: `{"name": "Pondok Sepi"}`, want: "No facility information is available for Pondok Sepi.", calls: 2},
		{name: "Missing name", message: "what facilities are there", extraction: `{"room_type": null}`, want: ReplyClarify, calls: 2},
		{name: "Synthesized", message: "facilities at Aston Bali", extraction: `{"name": "Aston Bali"}`, want: "It has a pool.", calls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := newFakeCompleter(reply("facilities"), reply(tt.extraction), reply("It has a pool."))

			got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), tt.message)

			assert.Equal(t, tt.want, got.Response)
			assert.Equal(t, tt.calls, completer.callCount())
		})
	}
}

func TestAssistant_PriceRoomTypeAbsent(t *testing.T) {
	completer := newFakeCompleter(
		reply("price"),
		reply(`{"name": "Aston Bali", "room_type": "Presidential"}`),
	)

	got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "price of the Presidential room at Aston Bali?")

	assert.Equal(t, "No pricing information found for Presidential at Aston Bali Resort.", got.Response)
	assert.Equal(t, 2, completer.callCount())
}

func TestAssistant_PriceMean(t *testing.T) {
	completer := newFakeCompleter(
		reply("price"),
		reply(`{"name": "Aston Bali"}`),
		reply("Rooms average 200."),
	)

	got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "how much does Aston Bali cost")

	assert.Equal(t, "Rooms average 200.", got.Response)
	grounding := completer.lastUserContent()
	assert.Contains(t, grounding, "Average price: 200")
	assert.Contains(t, grounding, "- Deluxe Room: 100")
	assert.Contains(t, grounding, "- Family Suite: 300")
}

func TestAssistant_PlatformInfo(t *testing.T) {
	t.Run("Fetched", func(t *testing.T) {
		completer := newFakeCompleter(reply("platform_info"), reply("Roomie sells rooms as NFTs."))
		fetcher := &fakeFetcher{doc: "Roomie lets you book rooms as NFTs."}

		got := newTestAssistant(completer, testStore(), fetcher).Ask(context.Background(), "How does Roomie work?")

		assert.Equal(t, "Roomie sells rooms as NFTs.", got.Response)
		assert.Contains(t, completer.lastUserContent(), "Roomie lets you book rooms as NFTs.")
	})

	t.Run("Fetch fails", func(t *testing.T) {
		completer := newFakeCompleter(reply("platform info"))
		fetcher := &fakeFetcher{err: ErrPlatformInfoUnavailable}

		got := newTestAssistant(completer, testStore(), fetcher).Ask(context.Background(), "How does Roomie work?")

		assert.Equal(t, ReplyPlatformFailure, got.Response)
		assert.Equal(t, 1, completer.callCount(), "no synthesis call")
		assert.Equal(t, 1, fetcher.callCount())
	})
}

func TestAssistant_GeneralSkipsStore(t *testing.T) {
	completer := newFakeCompleter(reply("common"), reply("Pack light and check in early."))
	store := testStore()

	got := newTestAssistant(completer, store, nil).Ask(context.Background(), "any tips for a first hotel stay?")

	assert.Equal(t, "Pack light and check in early.", got.Response)
	assert.Equal(t, 0, store.queryCount())
	assert.Equal(t, "any tips for a first hotel stay?", completer.lastUserContent())
}

func TestAssistant_HedgingBecomesApology(t *testing.T) {
	completer := newFakeCompleter(reply("general"), reply("I'm not sure about that, sorry."))

	got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "best time to visit Bali?")

	assert.Equal(t, ReplyApology, got.Response)
}

func TestAssistant_Failures(t *testing.T) {
	t.Run("Extraction unparseable", func(t *testing.T) {
		completer := newFakeCompleter(reply("recommendation"), reply("I could not extract anything"))
		got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "room please")
		assert.Equal(t, ReplyClarify, got.Response)
	})

	t.Run("Extraction not an object", func(t *testing.T) {
		completer := newFakeCompleter(reply("recommendation"), reply(`["Bali"]`))
		got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "room in Bali")
		assert.Equal(t, ReplyClarify, got.Response)
	})

	t.Run("Classification fails", func(t *testing.T) {
		completer := newFakeCompleter(failure(errors.New("503")))
		got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "room in Bali")
		assert.Equal(t, ReplyRetrieveFailure, got.Response)
	})

	t.Run("Circuit open", func(t *testing.T) {
		completer := newFakeCompleter(failure(resilience.ErrCircuitOpen))
		got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "room in Bali")
		assert.Equal(t, ReplyRetrieveFailure, got.Response)
	})

	t.Run("Store fails", func(t *testing.T) {
		completer := newFakeCompleter(reply("recommendation"), reply(`{"address": "Bali"}`))
		assistant := NewAssistant(completer, failingStore{}, &fakeFetcher{}, time.Second)
		got := assistant.Ask(context.Background(), "room in Bali")
		assert.Equal(t, ReplyRetrieveFailure, got.Response)
		assert.Equal(t, 2, completer.callCount())
	})

	t.Run("Synthesis fails", func(t *testing.T) {
		completer := newFakeCompleter(reply("recommendation"), reply(`{"address": "Bali"}`), failure(errors.New("boom")))
		got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "room in Bali")
		assert.Equal(t, ReplyRetrieveFailure, got.Response)
	})

	t.Run("Completion times out", func(t *testing.T) {
		assistant := NewAssistant(blockingCompleter{}, testStore(), &fakeFetcher{}, 20*time.Millisecond)
		start := time.Now()
		got := assistant.Ask(context.Background(), "room in Bali")
		assert.Equal(t, ReplyRetrieveFailure, got.Response)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestAssistant_EmptyMessage(t *testing.T) {
	completer := newFakeCompleter()
	got := newTestAssistant(completer, testStore(), nil).Ask(context.Background(), "   ")

	require.NotNil(t, got)
	assert.Equal(t, ReplyEmptyMessage, got.Response)
	assert.Equal(t, 0, completer.callCount())
}
