package graphql

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

// RoundTripFunc executes a single GraphQL request.
type RoundTripFunc func(ctx context.Context, req *Request) (*Response, error)

// Middleware wraps a RoundTripFunc with additional behaviour.
type Middleware func(next RoundTripFunc) RoundTripFunc

// Chain applies middlewares to rt. The first middleware is outermost.
func Chain(rt RoundTripFunc, mws ...Middleware) RoundTripFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// ClassifyErrors inspects successful envelopes and converts GraphQL
// error payloads into typed errors. Errors with data become a
// PartialError returned alongside the response; errors without data
// become a terminal ApplicationError.
func ClassifyErrors(logger *slog.Logger) Middleware {
	return func(next RoundTripFunc) RoundTripFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			if err != nil {
				logger.ErrorContext(ctx, "request failed",
					slog.String("operation", req.OperationName),
					slog.String("error", err.Error()),
				)
				return resp, err
			}
			if len(resp.Errors) == 0 {
				return resp, nil
			}

			if resp.HasData() {
				logger.WarnContext(ctx, "partial response",
					slog.String("operation", req.OperationName),
					slog.Int("error_count", len(resp.Errors)),
				)
				return resp, &PartialError{Operation: req.OperationName, Errors: resp.Errors}
			}

			appErr := &ApplicationError{
				Operation: req.OperationName,
				Code:      resp.Errors[0].Extensions.Code,
				Message:   resp.Errors[0].Message,
				Errors:    resp.Errors,
			}
			logger.ErrorContext(ctx, "application error",
				slog.String("operation", req.OperationName),
				slog.String("code", appErr.Code),
				slog.String("message", appErr.Message),
			)
			return nil, appErr
		}
	}
}

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "graphql_request_duration_seconds",
		Help:    "GraphQL request duration including retries, by operation and outcome.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "graphql_requests_total",
		Help: "Total GraphQL requests by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// Timing records wall-clock duration of the full attempt sequence. It
// sits outside both classification and retry so a retried request
// reports one sample and the outcome label reflects the classified
// result, not the raw envelope.
func Timing(logger *slog.Logger) Middleware {
	return func(next RoundTripFunc) RoundTripFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			elapsed := time.Since(start)

			outcome := outcomeLabel(err)
			requestDuration.WithLabelValues(req.OperationName, outcome).Observe(elapsed.Seconds())
			requestsTotal.WithLabelValues(req.OperationName, outcome).Inc()

			logger.DebugContext(ctx, "request timed",
				slog.String("operation", req.OperationName),
				slog.Duration("duration", elapsed),
				slog.String("outcome", outcome),
			)
			return resp, err
		}
	}
}

func outcomeLabel(err error) string {
	var (
		netErr     *NetworkError
		appErr     *ApplicationError
		partialErr *PartialError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &appErr):
		return "application_error"
	case errors.As(err, &partialErr):
		return "partial"
	default:
		return "error"
	}
}

// Logging emits a debug line per attempt with the operation name and
// variable keys. Variable values are never logged.
func Logging(logger *slog.Logger) Middleware {
	return func(next RoundTripFunc) RoundTripFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			keys := make([]string, 0, len(req.Variables))
			for k := range req.Variables {
				keys = append(keys, k)
			}
			logger.DebugContext(ctx, "executing operation",
				slog.String("operation", req.OperationName),
				slog.Any("variable_keys", keys),
			)

			resp, err := next(ctx, req)
			if err != nil {
				return resp, err
			}

			logger.DebugContext(ctx, "operation completed",
				slog.String("operation", req.OperationName),
				slog.Int("data_bytes", len(resp.Data)),
			)
			return resp, nil
		}
	}
}

// BreakerConfig tunes the circuit breaker around the transport.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig matches the settings used for upstream calls
// elsewhere in the platform.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// CircuitBreaker trips on sustained network failures so a dead upstream
// fails fast instead of holding connections. Application and partial
// errors do not count as failures.
func CircuitBreaker(cfg BreakerConfig, logger *slog.Logger) Middleware {
	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && ratio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return !IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return func(next RoundTripFunc) RoundTripFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := cb.Execute(func() (*Response, error) {
				return next(ctx, req)
			})
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, &NetworkError{Operation: req.OperationName, Err: err}
			}
			return resp, err
		}
	}
}
