// Package store runs the listings of the service. Each listing binds a
// filter to a sqlboiler fetcher and pages through it with the keyset engine.
package store

import (
	"context"
	"time"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nrfta/tubepage"
	"github.com/nrfta/tubepage/internal/logging"
	"github.com/nrfta/tubepage/internal/metrics"
	"github.com/nrfta/tubepage/internal/models"
	"github.com/nrfta/tubepage/keyset"
	"github.com/nrfta/tubepage/sqlboiler"
)

const tracerName = "github.com/nrfta/tubepage/internal/store"

// ErrNotFound is returned when the parent of a listing does not exist or is
// not visible to the viewer.
var ErrNotFound = errors.New("not found")

// Store runs listings against a database.
type Store struct {
	exec    boil.ContextExecutor
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	paging  *paging.PageConfig
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics records every page and failure in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithTracer replaces the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithPageConfig sets the page size bounds.
func WithPageConfig(cfg *paging.PageConfig) Option {
	return func(s *Store) {
		if cfg != nil {
			s.paging = cfg
		}
	}
}

// New creates a Store over exec, usually a *db.Breaker.
func New(exec boil.ContextExecutor, opts ...Option) *Store {
	s := &Store{
		exec:   exec,
		log:    logging.Discard(),
		tracer: otel.Tracer(tracerName),
		paging: paging.NewPageConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// listing describes one call site of the keyset engine.
type listing[T any] struct {
	name   string
	schema *keyset.Schema[T]
	query  func(mods ...qm.QueryMod) models.Query[T]
	filter []qm.QueryMod

	// prepare runs before the page query. It may reject the request or
	// contribute filter mods that depend on other rows.
	prepare func(ctx context.Context) ([]qm.QueryMod, error)

	// count overrides the default total, which counts the filtered query.
	count sqlboiler.CountFunc
}

func paginate[T any](ctx context.Context, s *Store, l listing[T], args *paging.PageArgs) (*paging.Page[T], error) {
	ctx, span := s.tracer.Start(ctx, "store."+l.name, trace.WithAttributes(
		attribute.String(logging.ListingKey, l.name),
	))
	defer span.End()

	filter := l.filter
	if l.prepare != nil {
		extra, err := l.prepare(ctx)
		if err != nil {
			return nil, s.fail(span, l.name, err)
		}
		filter = append(filter[:len(filter):len(filter)], extra...)
	}

	count := l.count
	if count == nil {
		count = func(ctx context.Context, _ ...qm.QueryMod) (int64, error) {
			return l.query(filter...).Count(ctx, s.exec)
		}
	}

	fetcher := sqlboiler.NewFetcher(
		func(ctx context.Context, mods ...qm.QueryMod) ([]T, error) {
			return l.query(append(filter[:len(filter):len(filter)], mods...)...).All(ctx, s.exec)
		},
		count,
		sqlboiler.CursorToQueryMods,
	)

	start := time.Now()
	page, err := keyset.New(fetcher, l.schema, paging.WithPageConfig(s.paging)).Paginate(ctx, args)
	if err != nil {
		return nil, s.fail(span, l.name, err)
	}

	hasMore, _ := page.PageInfo.HasNextPage()
	span.SetAttributes(
		attribute.Int("limit", s.paging.EffectiveLimit(args)),
		attribute.Int("items", len(page.Nodes)),
		attribute.Bool("has_more", hasMore),
	)
	s.metrics.RecordPage(l.name, len(page.Nodes), hasMore, time.Since(start))

	return page, nil
}

// fail classifies err for metrics and tracing and logs store failures.
func (s *Store) fail(span trace.Span, name string, err error) error {
	kind := errorType(err)

	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	s.metrics.RecordError(name, kind)

	if kind == metrics.ErrorDatabase || kind == metrics.ErrorTimeout {
		s.log.WithField(logging.ListingKey, name).WithError(err).Error("listing failed")
	}
	return err
}

func errorType(err error) string {
	switch {
	case errors.Is(err, paging.ErrInvalidPageSize), errors.Is(err, paging.ErrInvalidCursor):
		return metrics.ErrorValidation
	case errors.Is(err, ErrNotFound):
		return metrics.ErrorNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return metrics.ErrorTimeout
	default:
		return metrics.ErrorDatabase
	}
}
