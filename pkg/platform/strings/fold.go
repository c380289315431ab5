// Package strings provides string normalization utilities.
package strings

import (
	"golang.org/x/text/cases"
)

// Fold returns the Unicode case-folded form of s. Two strings compare equal
// case-insensitively iff their folded forms are equal.
//
// A cases.Caser must not be shared between goroutines, so each call builds
// its own.
//
// Example:
//
//	Fold("KAN") == Fold("kan") // true
//	Fold("Émile") == Fold("ÉMILE") // true
func Fold(s string) string {
	if s == "" {
		return s
	}
	return cases.Fold().String(s)
}
