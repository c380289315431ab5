package audit

import "time"

// Event is emitted for every verdict of a completed batch. It carries no raw
// PII: passports appear only as a truncated hash.
type Event struct {
	Timestamp    time.Time
	BatchID      string
	RecordIndex  int
	Action       string
	Verdict      string
	Reason       string
	PassportHash string
}

type AuditEvent string

const (
	EventVerdictIssued AuditEvent = "verdict_issued"
)
