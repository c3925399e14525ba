package services

import (
	"fmt"
	"strings"

	"github.com/rpupo63/reelbyte-backend/errs"
)

const (
	MaxSearchTags = 10
	MaxSkills     = 15
)

// NormalizeTags trims and lower-cases values, drops blanks and duplicates
// (keeping first occurrence order) and rejects more than max survivors. The
// result is never nil.
func NormalizeTags(field string, values []string, max int) ([]string, error) {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) > max {
		return nil, errs.NewInvalidFieldError(field, fmt.Sprintf("at most %d allowed, got %d", max, len(out)))
	}
	return out, nil
}
