package models

import "time"

// Tag is an immutable snapshot of a git tag taken once per run.
// Date is the tagger timestamp for annotated tags and the target
// commit's committer timestamp for lightweight tags.
type Tag struct {
	Name string
	Date time.Time
}

// NewTag creates a new Tag
func NewTag(name string, date time.Time) Tag {
	return Tag{Name: name, Date: date}
}

// Before reports whether t was created before other, breaking identical
// timestamps by ascending tag name so attribution stays deterministic.
func (t Tag) Before(other Tag) bool {
	if t.Date.Equal(other.Date) {
		return t.Name < other.Name
	}
	return t.Date.Before(other.Date)
}

func (t Tag) String() string {
	return t.Name
}
