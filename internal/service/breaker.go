package service

import (
	"context"

	"roomie/internal/resilience"
)

// BreakerCompleter routes completions through a circuit breaker so a failing
// provider is not hammered; an open circuit surfaces as resilience.ErrCircuitOpen
type BreakerCompleter struct {
	next    Completer
	breaker *resilience.CircuitBreaker
}

// NewBreakerCompleter wraps next with the given breaker
func NewBreakerCompleter(next Completer, breaker *resilience.CircuitBreaker) *BreakerCompleter {
	return &BreakerCompleter{next: next, breaker: breaker}
}

// Complete implements Completer
func (b *BreakerCompleter) Complete(ctx context.Context, messages []Message, params SamplingParams) (string, error) {
	var text string
	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		text, err = b.next.Complete(ctx, messages, params)
		return err
	})
	return text, err
}
