// Package notes implements the note aggregation core: loading note
// artifacts for a resolved commit range, validating them against the
// user schema, attributing release tags, and the immutable group/filter
// query surface that templates render from.
package notes

import (
	"strings"

	"github.com/wahlandcase/attuned.relnotes/internal/models"
)

// Record is one note attached to one commit. It exists only for commits
// that have a persisted note artifact. Data holds the schema-declared
// fields that parsed structurally, even when validation failed, so a
// renderer can degrade gracefully instead of losing the note.
type Record struct {
	// Commit the note artifact was added by
	Commit models.Commit
	// Tag is the release the commit first shipped under, nil if unreleased
	Tag *models.Tag
	// Path of the note artifact, relative to the repository root
	Path string
	// Data maps schema field labels to parsed values
	Data map[string]any
	// Errors lists validation failures; empty iff the note is valid
	Errors []string

	order []string
}

// NewRecord builds a valid record with its fields in the given order.
// The loader is the usual producer; this exists for callers assembling
// ranges by hand.
func NewRecord(commit models.Commit, path string, data map[string]any, keys []string) *Record {
	return &Record{Commit: commit, Path: path, Data: data, order: keys}
}

// IsValid reports whether the note passed schema validation
func (r *Record) IsValid() bool {
	return len(r.Errors) == 0
}

// Keys returns the schema-declared labels present in Data, in schema order
func (r *Record) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve looks up a dotted attribute path on the record. Reserved
// commit_* names read commit metadata, commit_tag reaches the attributed
// tag (and commit_tag.name / commit_tag.date its parts), is_valid and
// validation_errors read the validation state, and anything else reads
// the schema data. A path that doesn't exist resolves to nil, never an
// error, so templates can render an "unknown" bucket instead of failing.
func (r *Record) Resolve(path string) any {
	segs := strings.Split(path, ".")

	var value any
	switch segs[0] {
	case "commit_sha":
		value = r.Commit.SHA
	case "commit_author_name":
		value = r.Commit.Author.Name
	case "commit_author_email":
		value = r.Commit.Author.Email
	case "commit_author_date":
		value = r.Commit.Author.When
	case "commit_committer_name":
		value = r.Commit.Committer.Name
	case "commit_committer_email":
		value = r.Commit.Committer.Email
	case "commit_committer_date":
		value = r.Commit.Committer.When
	case "commit_tag":
		if r.Tag == nil {
			return nil
		}
		value = *r.Tag
	case "is_valid":
		value = r.IsValid()
	case "validation_errors":
		value = r.Errors
	default:
		v, ok := r.Data[segs[0]]
		if !ok {
			return nil
		}
		value = v
	}

	return resolveTail(value, segs[1:])
}

// resolveTail walks the remaining path segments into nested values
func resolveTail(value any, segs []string) any {
	for _, seg := range segs {
		switch v := value.(type) {
		case models.Tag:
			switch seg {
			case "name":
				value = v.Name
			case "date":
				value = v.Date
			default:
				return nil
			}
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil
			}
			value = next
		default:
			return nil
		}
	}
	return value
}
