// Package endpoint normalizes raw request paths into stable,
// low-cardinality metric tags and buckets them into coarse business
// categories.
//
// A raw path like /api/users/1234/posts/9f8b1c2e-7a4d-4f0e-b1a2-3c4d5e6f7a8b
// embeds identifiers that would otherwise create one time series per user.
// Normalize collapses those segments into placeholders (:id, :uuid, :token)
// so per-endpoint series stay aggregable.
package endpoint

import (
	"strings"

	"github.com/google/uuid"
)

// minTokenLength is the segment length at which an opaque alphanumeric
// segment is treated as a token (API keys, share links, upload handles).
const minTokenLength = 20

// Normalize maps a raw request path to a stable metric tag: the query
// string and fragment are stripped, the path is lower-cased, and variable
// segments are replaced with placeholders.
//
//	/api/Users/1234/posts/9F8B1C2E-7A4D-4F0E-B1A2-3C4D5E6F7A8B?page=2
//	  -> /api/users/:id/posts/:uuid
func Normalize(rawPath string) string {
	if rawPath == "" {
		return "/"
	}

	if i := strings.IndexAny(rawPath, "?#"); i >= 0 {
		rawPath = rawPath[:i]
	}
	rawPath = strings.ToLower(rawPath)

	segments := strings.Split(rawPath, "/")
	for i, seg := range segments {
		switch {
		case seg == "":
		case isNumeric(seg):
			segments[i] = ":id"
		case isUUID(seg):
			segments[i] = ":uuid"
		case isOpaqueToken(seg):
			segments[i] = ":token"
		}
	}

	normalized := strings.Join(segments, "/")
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return normalized
}

func isNumeric(seg string) bool {
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isUUID(seg string) bool {
	if len(seg) != 36 {
		return false
	}
	_, err := uuid.Parse(seg)
	return err == nil
}

func isOpaqueToken(seg string) bool {
	if len(seg) < minTokenLength {
		return false
	}
	for _, r := range seg {
		isDigit := r >= '0' && r <= '9'
		isLower := r >= 'a' && r <= 'z'
		if !isDigit && !isLower {
			return false
		}
	}
	return true
}
