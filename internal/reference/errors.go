package reference

import (
	"fmt"
)

// Source names one of the three inputs of a batch.
type Source string

const (
	SourceRecords   Source = "records"
	SourceWatchlist Source = "watchlist"
	SourceCountries Source = "countries"
)

// SourceError identifies which source failed to load. It wraps a domain
// error coded CodeSourceNotFound or CodeMalformedSource.
type SourceError struct {
	Source Source
	Path   string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source %q: %v", e.Source, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
