package ingest

import (
	"strings"

	"golang.org/x/text/cases"

	"docingest/internal/model"
)

// NewRecord builds a record, normalizing tags once: each tag is case-folded
// and trimmed, and a nil list becomes an empty one.
func NewRecord(value, name string, tags []string) model.Record {
	out := make([]string, 0, len(tags))
	if len(tags) > 0 {
		fold := cases.Fold()
		for _, t := range tags {
			out = append(out, NormalizeTag(fold, t))
		}
	}
	return model.Record{Name: name, Value: value, Tags: out}
}

// NormalizeTag case-folds and trims a single tag or header name.
// A Caser is stateful, so callers pass one owned by the current goroutine.
func NormalizeTag(fold cases.Caser, s string) string {
	return strings.TrimSpace(fold.String(s))
}
