package service

import (
	"context"
	"errors"
	"sync"

	"roomie/internal/model"
	"roomie/internal/repository"
)

type fakeReply struct {
	text string
	err  error
}

// fakeCompleter replays scripted replies in call order and records every call
type fakeCompleter struct {
	mu      sync.Mutex
	replies []fakeReply
	calls   [][]Message
	params  []SamplingParams
}

func newFakeCompleter(replies ...fakeReply) *fakeCompleter {
	return &fakeCompleter{replies: replies}
}

func reply(text string) fakeReply { return fakeReply{text: text} }

func failure(err error) fakeReply { return fakeReply{err: err} }

func (f *fakeCompleter) Complete(ctx context.Context, messages []Message, params SamplingParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, messages)
	f.params = append(f.params, params)
	if len(f.calls) > len(f.replies) {
		return "", errors.New("unexpected completion call")
	}
	r := f.replies[len(f.calls)-1]
	return r.text, r.err
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// lastUserContent returns the user message of the most recent call
func (f *fakeCompleter) lastUserContent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	for _, m := range f.calls[len(f.calls)-1] {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}

// blockingCompleter waits for its context to end
type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _ []Message, _ SamplingParams) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// countingStore wraps a store and counts queries
type countingStore struct {
	repository.Store
	mu      sync.Mutex
	queries int
}

func (s *countingStore) count() {
	s.mu.Lock()
	s.queries++
	s.mu.Unlock()
}

func (s *countingStore) FindAccommodations(ctx context.Context, pred model.Predicate) ([]model.Accommodation, error) {
	s.count()
	return s.Store.FindAccommodations(ctx, pred)
}

func (s *countingStore) FindAccommodation(ctx context.Context, pred model.Predicate) (*model.Accommodation, error) {
	s.count()
	return s.Store.FindAccommodation(ctx, pred)
}

func (s *countingStore) FindRooms(ctx context.Context, pred model.Predicate) ([]model.Room, error) {
	s.count()
	return s.Store.FindRooms(ctx, pred)
}

func (s *countingStore) FindRatings(ctx context.Context, pred model.Predicate) ([]model.Rating, error) {
	s.count()
	return s.Store.FindRatings(ctx, pred)
}

func (s *countingStore) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

// failingStore fails every query
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) FindAccommodations(context.Context, model.Predicate) ([]model.Accommodation, error) {
	return nil, errStoreDown
}

func (failingStore) FindAccommodation(context.Context, model.Predicate) (*model.Accommodation, error) {
	return nil, errStoreDown
}

func (failingStore) FindRooms(context.Context, model.Predicate) ([]model.Room, error) {
	return nil, errStoreDown
}

func (failingStore) FindRatings(context.Context, model.Predicate) ([]model.Rating, error) {
	return nil, errStoreDown
}

func (failingStore) Close() error { return nil }

// fakeFetcher returns a fixed document or error and counts calls
type fakeFetcher struct {
	mu    sync.Mutex
	doc   string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.doc, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// testStore returns a small fixture:
// Aston Bali Resort (rooms r1, r2, ratings), Grand Hyatt Jakarta (room r3),
// Villa Kosong Ubud and Rumah Kosong (no rooms), Pondok Sepi (room r5 without
// facilities), and an orphan room r4 whose accommodation is missing.
func testStore() *countingStore {
	return &countingStore{Store: repository.NewMemoryStore(
		[]model.Accommodation{
			{ID: "a1", Name: "Aston Bali Resort", Type: "Resort", Address: "Kuta, Bali"},
			{ID: "a2", Name: "Grand Hyatt Jakarta", Type: "Hotel", Address: "Jakarta"},
			{ID: "a3", Name: "Villa Kosong Ubud", Type: "Villa", Address: "Ubud, Bali"},
			{ID: "a4", Name: "Pondok Sepi", Type: "Guesthouse", Address: "Lombok"},
			{ID: "a5", Name: "Rumah Kosong", Type: "Homestay", Address: "Lombok"},
		},
		[]model.Room{
			{ID: "r1", AccommodationID: "a1", RoomType: "Deluxe Room", Facilities: model.JSONArray{"WiFi", "Swimming Pool"}, Price: 100, BedSize: "King", MaxOccupancy: 2},
			{ID: "r2", AccommodationID: "a1", RoomType: "Family Suite", Facilities: model.JSONArray{"wifi", "Bathtub"}, Price: 300, BedSize: "Queen", MaxOccupancy: 4},
			{ID: "r3", AccommodationID: "a2", RoomType: "Standard Room", Facilities: model.JSONArray{"TV"}, Price: 150, BedSize: "Twin", MaxOccupancy: 2},
			{ID: "r4", AccommodationID: "gone", RoomType: "Deluxe Room", Facilities: model.JSONArray{"WiFi"}, Price: 90, BedSize: "Double", MaxOccupancy: 2},
			{ID: "r5", AccommodationID: "a4", RoomType: "Basic Room", Price: 50, BedSize: "Single", MaxOccupancy: 1},
		},
		[]model.Rating{
			{ID: "g1", AccommodationID: "a1", Score: 4},
			{ID: "g2", AccommodationID: "a1", Score: 5},
		},
	)}
}
