package db

import (
	"context"
	"database/sql"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/friendsofgo/errors"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/nrfta/tubepage/internal/config"
)

// ErrCircuitOpen is returned while the breaker rejects queries.
var ErrCircuitOpen = errors.New("database circuit open")

// Breaker wraps an executor with circuit breaker protection. It implements
// boil.ContextExecutor so listings run through it unchanged.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker
	exec boil.ContextExecutor
}

var _ boil.ContextExecutor = (*Breaker)(nil)

// NewBreaker creates a Breaker. Opens once at least MinRequests calls were
// made in an Interval and the failure ratio reaches FailureRatio.
func NewBreaker(exec boil.ContextExecutor, cfg *config.Breaker, log logrus.FieldLogger) *Breaker {
	settings := gobreaker.Settings{
		Name:        "database",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		// Cancelled requests say nothing about database health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, sql.ErrNoRows) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if log != nil {
				log.WithFields(logrus.Fields{
					"circuit": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit breaker state changed")
			}
		},
	}

	return &Breaker{
		cb:   gobreaker.NewCircuitBreaker(settings),
		exec: exec,
	}
}

// Exec implements boil.Executor.
func (b *Breaker) Exec(query string, args ...interface{}) (sql.Result, error) {
	return b.ExecContext(context.Background(), query, args...)
}

// Query implements boil.Executor.
func (b *Breaker) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return b.QueryContext(context.Background(), query, args...)
}

// QueryRow implements boil.Executor.
func (b *Breaker) QueryRow(query string, args ...interface{}) *sql.Row {
	return b.QueryRowContext(context.Background(), query, args...)
}

// ExecContext executes a statement with circuit breaker protection.
func (b *Breaker) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.exec.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, translate(err)
	}
	return result.(sql.Result), nil
}

// QueryContext executes a query with circuit breaker protection.
// If the circuit is open, it returns ErrCircuitOpen without hitting the database.
func (b *Breaker) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.exec.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, translate(err)
	}
	return result.(*sql.Rows), nil
}

// QueryRowContext is passed through: sql.Row defers its error to Scan, so
// the breaker cannot observe the outcome.
func (b *Breaker) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return b.exec.QueryRowContext(ctx, query, args...)
}

// State returns the current state of the circuit breaker.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Wrap(ErrCircuitOpen, err.Error())
	}
	return err
}
