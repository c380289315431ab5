package sentinel

import "errors"

// Sentinel dependency errors. Dependencies (reference tables, loaders) return
// these, optionally wrapped, so the decision service can translate them into
// domain errors exactly once.
var (
	ErrNotFound = errors.New("not found")
)
