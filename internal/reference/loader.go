package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"kanadia/internal/decision"
	"kanadia/internal/decision/metrics"
	"kanadia/internal/platform/tracer"
	dErrors "kanadia/pkg/domain-errors"
	"kanadia/pkg/platform/sentinel"

	"golang.org/x/sync/errgroup"
)

// Loader reads the records, watchlist and countries sources of a batch
// concurrently. It satisfies decision.DatasetLoader.
type Loader struct {
	readFile func(path string) ([]byte, error)
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
}

// Option configures the Loader.
type Option func(*Loader)

// WithMetrics sets the metrics collector for source load latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithTracer sets the tracer for load spans.
func WithTracer(t tracer.Tracer) Option {
	return func(l *Loader) {
		l.tracer = t
	}
}

// WithReadFile replaces the file reader. Used by tests to simulate I/O failures.
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(l *Loader) {
		l.readFile = fn
	}
}

// NewLoader creates a file-backed loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		readFile: os.ReadFile,
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// loadResult holds the outcome of one source. Each goroutine writes only its
// own result, so no locking is needed.
type loadResult[T any] struct {
	value T
	err   error
}

// Load reads all three sources and returns the dataset once every read has
// finished. On failure the error of the first failing source, in
// records/watchlist/countries order, is returned as a *SourceError.
func (l *Loader) Load(ctx context.Context, src decision.Sources) (_ *decision.Dataset, err error) {
	ctx, span := l.tracer.Start(ctx, tracer.SpanLoad)
	defer func() { span.End(err) }()

	var (
		g         errgroup.Group
		records   loadResult[[]decision.Traveller]
		watchlist loadResult[decision.Watchlist]
		countries loadResult[decision.CountryTable]
	)

	g.Go(func() error {
		var dto []recordDTO
		records.err = l.loadJSON(ctx, SourceRecords, src.Records, &dto)
		if records.err == nil {
			records.value = toTravellers(dto)
		}
		return records.err
	})
	g.Go(func() error {
		var dto []watchlistEntryDTO
		watchlist.err = l.loadJSON(ctx, SourceWatchlist, src.Watchlist, &dto)
		if watchlist.err == nil {
			watchlist.value = toWatchlist(dto)
		}
		return watchlist.err
	})
	g.Go(func() error {
		var dto map[string]countryDTO
		countries.err = l.loadJSON(ctx, SourceCountries, src.Countries, &dto)
		if countries.err == nil {
			countries.value = toCountryTable(dto)
		}
		return countries.err
	})

	if err := g.Wait(); err != nil {
		return nil, firstError(records.err, watchlist.err, countries.err)
	}

	return &decision.Dataset{
		Records:   records.value,
		Watchlist: watchlist.value,
		Countries: countries.value,
	}, nil
}

// loadJSON reads path and decodes it into dst. A missing, unreadable or
// unnamed file is CodeSourceNotFound; undecodable content is
// CodeMalformedSource.
func (l *Loader) loadJSON(ctx context.Context, source Source, path string, dst any) (err error) {
	start := time.Now()
	_, span := l.tracer.Start(ctx, tracer.SpanLoadFile,
		tracer.String(tracer.AttrSource, string(source)),
		tracer.String(tracer.AttrSourcePath, path),
	)
	defer func() {
		span.End(err)
		l.metrics.ObserveSourceLoadLatency(string(source), time.Since(start))
	}()

	if err := ctx.Err(); err != nil {
		return &SourceError{Source: source, Path: path, Err: dErrors.Wrap(err, dErrors.CodeInternal, "load cancelled")}
	}

	data, err := l.read(path)
	if err != nil {
		return &SourceError{
			Source: source,
			Path:   path,
			Err:    dErrors.Wrap(err, dErrors.CodeSourceNotFound, fmt.Sprintf("cannot find %s source: %q", source, path)),
		}
	}
	span.SetAttributes(tracer.Int(tracer.AttrSourceBytes, len(data)))

	if err := json.Unmarshal(data, dst); err != nil {
		return &SourceError{
			Source: source,
			Path:   path,
			Err:    dErrors.Wrap(err, dErrors.CodeMalformedSource, fmt.Sprintf("%s source %q is not valid: %v", source, path, err)),
		}
	}
	return nil
}

func (l *Loader) read(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", sentinel.ErrNotFound)
	}
	data, err := l.readFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", sentinel.ErrNotFound, err)
	}
	return data, err
}

var _ decision.DatasetLoader = (*Loader)(nil)
