package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/usecase"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	Name string
	// MaxFailures consecutive failures trip the breaker.
	MaxFailures uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// Interval clears the failure counts while closed; zero never clears.
	Interval time.Duration
	// OnStateChange is called after every transition.
	OnStateChange func(to gobreaker.State)
}

// RateBreaker guards an exchange rate source with a circuit breaker. A
// missing rate is a valid answer and never counts as a failure.
type RateBreaker struct {
	next   usecase.ExchangeRateRepository
	cb     *gobreaker.CircuitBreaker
	logger zerolog.Logger
}

// NewRateBreaker wraps next.
func NewRateBreaker(next usecase.ExchangeRateRepository, cfg BreakerConfig, logger zerolog.Logger) *RateBreaker {
	if cfg.Name == "" {
		cfg.Name = "exchange-rates"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrRateNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("name", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")

			if cfg.OnStateChange != nil {
				cfg.OnStateChange(to)
			}
		},
	}

	return &RateBreaker{
		next:   next,
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

// FindRate implements usecase.ExchangeRateRepository.
func (b *RateBreaker) FindRate(ctx context.Context, baseCurrency, transactionCurrency string, date time.Time) (decimal.Decimal, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.FindRate(ctx, baseCurrency, transactionCurrency, date)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrCircuitOpen, b.cb.Name())
	}
	if err != nil {
		return decimal.Zero, err
	}

	return result.(decimal.Decimal), nil
}

// State returns the current breaker state.
func (b *RateBreaker) State() gobreaker.State {
	return b.cb.State()
}
