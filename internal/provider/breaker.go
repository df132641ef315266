package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/saofund/blender-agent/internal/provider/models"
)

// Default circuit breaker settings.
const (
	defaultBreakerMaxFailures uint32        = 5
	defaultBreakerTimeout     time.Duration = 30 * time.Second
	defaultBreakerInterval    time.Duration = 60 * time.Second
)

// BreakerConfig configures the circuit breaker behavior.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before transitioning to half-open.
	Timeout time.Duration
	// Interval is the cyclic period of the closed state for clearing failure counts.
	Interval time.Duration
}

// Breaker wraps a provider with circuit breaker protection. When the wrapped
// provider fails repeatedly, the circuit opens and subsequent calls fail
// fast without reaching the provider.
type Breaker struct {
	inner   models.Provider
	breaker *gobreaker.CircuitBreaker[*models.AssistantTurn]
	logger  *slog.Logger
}

var _ models.Provider = (*Breaker)(nil)

// NewBreaker wraps inner with a circuit breaker.
// Zero-valued cfg fields fall back to defaults.
func NewBreaker(inner models.Provider, cfg BreakerConfig, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultBreakerTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultBreakerInterval
	}

	name := inner.Name()
	cb := gobreaker.NewCircuitBreaker[*models.AssistantTurn](gobreaker.Settings{
		Name:        "llm:" + name,
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Breaker{inner: inner, breaker: cb, logger: logger}
}

// Chat implements models.Provider. Calls are routed through the circuit breaker.
func (b *Breaker) Chat(ctx context.Context, req *models.ChatRequest) (*models.AssistantTurn, error) {
	turn, err := b.breaker.Execute(func() (*models.AssistantTurn, error) {
		return b.inner.Chat(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, models.NewProviderError(b.inner.Name(), models.ErrorCodeBreakerOpen,
				"circuit open, failing fast", models.ErrBreakerOpen)
		}
		return nil, err
	}
	return turn, nil
}

// Name implements models.Provider.
func (b *Breaker) Name() string { return b.inner.Name() }

// State returns the current circuit breaker state for monitoring.
func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}
