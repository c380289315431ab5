// Package privacy provides utilities for handling personally identifiable
// information (PII) in logs, spans and audit events.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassport returns a truncated SHA-256 hash of a passport number so that
// events about the same traveller can be correlated without carrying the
// number itself.
//
// Callers pass the folded passport key, so numbers differing only in case
// hash identically. Returns "" for an empty passport.
func HashPassport(passport string) string {
	if passport == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(passport))
	return hex.EncodeToString(hash[:8])
}

// MaskPassport keeps the first group of a passport number and masks the
// rest, e.g. "WXYZ1-23456-ABCDE-54321-00000" -> "WXYZ1-*****-*****-*****-*****".
// Characters other than dashes after the first group are replaced.
func MaskPassport(passport string) string {
	out := []rune(passport)
	dashes := 0
	for i, r := range out {
		if r == '-' {
			dashes++
			continue
		}
		if dashes > 0 {
			out[i] = '*'
		}
	}
	return string(out)
}
