package resilience

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// State represents the circuit breaker state
type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Failing, reject calls
	StateHalfOpen              // One trial call allowed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrCircuitOpen is returned when the circuit breaker rejects a call
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards an unreliable dependency.
// Closed → Open after failThreshold consecutive failures,
// Open → HalfOpen once openTimeout has elapsed,
// HalfOpen → Closed on success or back to Open on failure.
type CircuitBreaker struct {
	name          string
	mu            sync.Mutex
	state         State
	failCount     int
	failThreshold int
	openTimeout   time.Duration
	openedAt      time.Time
	trialInFlight bool
	now           func() time.Time
}

// NewCircuitBreaker creates a circuit breaker with the given thresholds
func NewCircuitBreaker(name string, failThreshold int, openTimeout time.Duration) *CircuitBreaker {
	if failThreshold < 1 {
		failThreshold = 1
	}
	return &CircuitBreaker{
		name:          name,
		state:         StateClosed,
		failThreshold: failThreshold,
		openTimeout:   openTimeout,
		now:           time.Now,
	}
}

// Execute runs fn through the breaker. Only one trial call is let through
// while half-open; concurrent callers get ErrCircuitOpen.
// A caller cancelling its own context is not counted as a dependency failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.openTimeout {
			return false
		}
		cb.state = StateHalfOpen
		cb.trialInFlight = true
		log.Printf("[Breaker:%s] half-open, allowing trial call", cb.name)
		return true

	case StateHalfOpen:
		if cb.trialInFlight {
			return false
		}
		cb.trialInFlight = true
		return true

	default:
		return true
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	wasHalfOpen := cb.state == StateHalfOpen
	cb.trialInFlight = false

	if err == nil {
		if cb.state != StateClosed {
			log.Printf("[Breaker:%s] ✅ closed", cb.name)
		}
		cb.failCount = 0
		cb.state = StateClosed
		return
	}

	if errors.Is(err, context.Canceled) {
		if wasHalfOpen {
			cb.state = StateOpen
		}
		return
	}

	cb.failCount++
	if wasHalfOpen || cb.failCount >= cb.failThreshold {
		if cb.state != StateOpen {
			log.Printf("[Breaker:%s] ⚠️ open after %d consecutive failures: %v", cb.name, cb.failCount, err)
		}
		cb.state = StateOpen
		cb.openedAt = cb.now()
	}
}

// CurrentState returns the current state of the circuit breaker
func (cb *CircuitBreaker) CurrentState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
