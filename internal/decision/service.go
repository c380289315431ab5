package decision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kanadia/internal/audit"
	"kanadia/internal/decision/metrics"
	"kanadia/internal/platform/privacy"
	"kanadia/internal/platform/tracer"
	dErrors "kanadia/pkg/domain-errors"
	"kanadia/pkg/platform/strings"

	"github.com/google/uuid"
)

// DatasetLoader reads the three reference sources of a batch. All sources
// must be loaded before any decision is made.
type DatasetLoader interface {
	Load(ctx context.Context, src Sources) (*Dataset, error)
}

// AuditPublisher records verdicts. Emission is best-effort.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs decision batches. It holds only immutable collaborators, so
// repeated calls with identical inputs and clock give identical verdicts.
type Service struct {
	loader         DatasetLoader
	auditor        AuditPublisher
	clock          func() time.Time
	newBatchID     func() string
	homeNation     string
	visaMaxAgeDays int
	metrics        *metrics.Metrics
	tracer         tracer.Tracer
	logger         *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithAuditor sets the verdict audit publisher.
func WithAuditor(a AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithClock overrides the reference clock used for visa age.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithBatchIDs overrides batch ID generation.
func WithBatchIDs(gen func() string) Option {
	return func(s *Service) {
		s.newBatchID = gen
	}
}

// WithHomeNation sets the administering nation's country code.
func WithHomeNation(code string) Option {
	return func(s *Service) {
		s.homeNation = strings.Fold(code)
	}
}

// WithVisaMaxAgeDays sets the visa validity window.
func WithVisaMaxAgeDays(days int) Option {
	return func(s *Service) {
		s.visaMaxAgeDays = days
	}
}

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a decision service. Panics if loader is nil.
func New(loader DatasetLoader, opts ...Option) *Service {
	if loader == nil {
		panic("decision.New: dataset loader is required")
	}

	s := &Service{
		loader:         loader,
		clock:          time.Now,
		newBatchID:     func() string { return uuid.NewString() },
		homeNation:     strings.Fold("KAN"),
		visaMaxAgeDays: DefaultVisaMaxAgeDays,
		tracer:         tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide loads the three sources and returns one verdict per record, in
// input order.
func (s *Service) Decide(ctx context.Context, src Sources) ([]Verdict, error) {
	results, err := s.DecideDetailed(ctx, src)
	if err != nil {
		return nil, err
	}
	verdicts := make([]Verdict, len(results))
	for i, r := range results {
		verdicts[i] = r.Verdict
	}
	return verdicts, nil
}

// DecideDetailed is Decide with the reason behind each verdict.
//
// Errors:
//   - CodeSourceNotFound / CodeMalformedSource from the loader
//   - CodeBadFormat for a malformed birth or visa date anywhere in the batch
//   - CodeDataIntegrity for country codes absent from the country table
func (s *Service) DecideDetailed(ctx context.Context, src Sources) (_ []Result, err error) {
	start := time.Now()
	batchID := s.newBatchID()

	ctx, span := s.tracer.Start(ctx, tracer.SpanBatch, tracer.String(tracer.AttrBatchID, batchID))
	defer func() {
		span.End(err)
		s.metrics.ObserveBatchLatency(time.Since(start))
		if err != nil {
			s.metrics.IncrementBatchFailure(string(dErrors.CodeOf(err)))
			s.logError(ctx, "decision batch aborted", "batch_id", batchID, "code", dErrors.CodeOf(err), "error", err)
		}
	}()

	ds, err := s.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.Int(tracer.AttrRecordCount, len(ds.Records)))
	s.logInfo(ctx, "decision batch started",
		"batch_id", batchID,
		"records", len(ds.Records),
		"watchlist_entries", ds.Watchlist.Len(),
		"countries", ds.Countries.Len(),
	)

	results, err := s.evaluate(ctx, batchID, ds)
	if err != nil {
		return nil, err
	}

	s.logInfo(ctx, "decision batch finished",
		"batch_id", batchID,
		"records", len(results),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return results, nil
}

// Evaluate runs the rule chain over an already loaded dataset.
func (s *Service) Evaluate(ctx context.Context, ds *Dataset) ([]Result, error) {
	if ds == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "dataset is required")
	}
	return s.evaluate(ctx, s.newBatchID(), ds)
}

func (s *Service) evaluate(ctx context.Context, batchID string, ds *Dataset) ([]Result, error) {
	// Single timestamp for the whole batch so every record sees the same date.
	policy := Policy{
		Today:          s.clock(),
		HomeNation:     s.homeNation,
		VisaMaxAgeDays: s.visaMaxAgeDays,
	}

	results := make([]Result, len(ds.Records))
	for i, t := range ds.Records {
		passportHash := privacy.HashPassport(t.PassportKey)
		recordCtx, span := s.tracer.Start(ctx, tracer.SpanRecord,
			tracer.Int(tracer.AttrRecordIndex, i),
			tracer.String(tracer.AttrPassportHash, passportHash),
		)
		verdict, reason, err := EvaluateRecord(t, ds, policy)
		if err != nil {
			span.End(err)
			// Fatal data errors abort the whole batch; no partial verdicts.
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("record %d: %s", i, err.Error()))
		}
		span.SetAttributes(
			tracer.String(tracer.AttrVerdict, string(verdict)),
			tracer.String(tracer.AttrReason, string(reason)),
		)
		span.End(nil)

		results[i] = Result{Index: i, Verdict: verdict, Reason: reason}
		s.logDebug(recordCtx, "verdict issued",
			"batch_id", batchID,
			"record_index", i,
			"passport_hash", passportHash,
			"passport", privacy.MaskPassport(t.Passport),
			"verdict", verdict,
			"reason", reason,
		)
	}

	for _, r := range results {
		s.metrics.IncrementVerdict(string(r.Verdict), string(r.Reason))
	}
	s.emitAudit(ctx, batchID, ds.Records, results)
	return results, nil
}

// emitAudit publishes one event per verdict. Failures are logged and never
// alter the verdicts.
func (s *Service) emitAudit(ctx context.Context, batchID string, records []Traveller, results []Result) {
	if s.auditor == nil || len(results) == 0 {
		return
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanAudit, tracer.String(tracer.AttrBatchID, batchID))
	defer span.End(nil)

	for i, r := range results {
		if err := s.publish(ctx, batchID, records[i], r); err != nil {
			span.AddEvent(tracer.EventAuditFailed, tracer.Int(tracer.AttrRecordIndex, r.Index))
			continue
		}
		span.AddEvent(tracer.EventAuditEmitted, tracer.Int(tracer.AttrRecordIndex, r.Index))
	}
}

func (s *Service) publish(ctx context.Context, batchID string, t Traveller, r Result) error {
	event := audit.Event{
		BatchID:      batchID,
		RecordIndex:  r.Index,
		Action:       string(audit.EventVerdictIssued),
		Verdict:      string(r.Verdict),
		Reason:       string(r.Reason),
		PassportHash: privacy.HashPassport(t.PassportKey),
	}
	err := s.auditor.Emit(ctx, event)
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit verdict audit event",
			"batch_id", batchID,
			"record_index", r.Index,
			"error", err,
		)
	}
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logDebug(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.DebugContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}
