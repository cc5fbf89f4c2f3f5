package service

import (
	"context"
	"time"

	"roomie/internal/model"
	"roomie/internal/repository"
)

// timeoutCompleter bounds every completion call by its own deadline
type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

func (c timeoutCompleter) Complete(ctx context.Context, messages []Message, params SamplingParams) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.next.Complete(ctx, messages, params)
}

// timeoutStore bounds every store query by its own deadline
type timeoutStore struct {
	next    repository.Store
	timeout time.Duration
}

func (s timeoutStore) FindAccommodations(ctx context.Context, pred model.Predicate) ([]model.Accommodation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.FindAccommodations(ctx, pred)
}

func (s timeoutStore) FindAccommodation(ctx context.Context, pred model.Predicate) (*model.Accommodation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.FindAccommodation(ctx, pred)
}

func (s timeoutStore) FindRooms(ctx context.Context, pred model.Predicate) ([]model.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.FindRooms(ctx, pred)
}

func (s timeoutStore) FindRatings(ctx context.Context, pred model.Predicate) ([]model.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.FindRatings(ctx, pred)
}

func (s timeoutStore) Close() error {
	return s.next.Close()
}

// timeoutFetcher bounds every document fetch by its own deadline
type timeoutFetcher struct {
	next    DocumentFetcher
	timeout time.Duration
}

func (f timeoutFetcher) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return f.next.Fetch(ctx)
}
