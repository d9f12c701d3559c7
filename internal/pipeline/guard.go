package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"tablesafe.app/concierge/common/llm"
	"tablesafe.app/concierge/core/config"
	"tablesafe.app/concierge/internal/domain"
)

// Guard wraps a provider client with a circuit breaker and a client-side
// rate limiter. It implements llm.Client so stages stay unaware of it.
// There are no automatic retries: a failed stage fails the request.
type Guard struct {
	next    llm.Client
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewGuard(next llm.Client, cfg config.PipelineConfig) *Guard {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "model-provider:" + next.Model(),
		MaxRequests: 3,
		Interval:    10 * cfg.StageTimeout,
		Timeout:     cfg.StageTimeout / 2,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Guard{
		next:    next,
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

func (g *Guard) Chat(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("provider rate limit: %w", err)
	}

	var (
		resp    *llm.Response
		callErr error
	)
	_, execErr := g.cb.Execute(func() (any, error) {
		resp, callErr = g.next.Chat(ctx, req, result)

		// A malformed payload means the provider answered; only availability
		// failures feed the breaker.
		var malformed *llm.MalformedResponseError
		if errors.As(callErr, &malformed) {
			return nil, nil
		}
		return nil, callErr
	})
	if execErr != nil {
		if errors.Is(execErr, gobreaker.ErrOpenState) || errors.Is(execErr, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("provider circuit open: %w", execErr)
		}
		return nil, execErr
	}

	return resp, callErr
}

func (g *Guard) Model() string {
	return g.next.Model()
}

// stageError tags a provider-boundary failure with its pipeline stage.
// Malformed payloads are parse failures; everything else (provider errors,
// timeouts, open breaker, rate-limit cancellation) is an upstream failure.
func stageError(stage domain.Stage, err error) error {
	var malformed *llm.MalformedResponseError
	if errors.As(err, &malformed) {
		return domain.NewStageError(stage, domain.KindParse, err)
	}
	return domain.NewStageError(stage, domain.KindUpstream, err)
}
