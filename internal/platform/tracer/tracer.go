// Package tracer provides a lightweight tracing abstraction for the screening
// engine.
//
// The interface keeps OpenTelemetry out of the decision and reference
// packages. Implementations:
//   - NoopTracer: for tests
//   - OTelTracer: OpenTelemetry adapter
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording err if non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context carries the span and should be passed to child operations.
	//
	// Example:
	//   ctx, span := tr.Start(ctx, tracer.SpanBatch,
	//       tracer.String(tracer.AttrBatchID, batchID),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanBatch    = "decision.batch"
	SpanRecord   = "decision.record"
	SpanLoad     = "reference.load"
	SpanLoadFile = "reference.load.file"
	SpanAudit    = "decision.audit"
)

// Attribute keys.
const (
	AttrBatchID      = "batch.id"
	AttrRecordCount  = "batch.record_count"
	AttrRecordIndex  = "record.index"
	AttrPassportHash = "record.passport_hash"
	AttrVerdict      = "record.verdict"
	AttrReason       = "record.reason"
	AttrSource       = "source.name"
	AttrSourcePath   = "source.path"
	AttrSourceBytes  = "source.bytes"
)

// Event names.
const (
	EventAuditEmitted = "audit.emitted"
	EventAuditFailed  = "audit.failed"
)
