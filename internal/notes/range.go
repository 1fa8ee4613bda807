package notes

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"time"

	"github.com/wahlandcase/attuned.relnotes/internal/models"
)

// Range is an immutable, ordered collection of note records over one
// resolved commit span. Every query operation returns a new Range and
// never mutates the source, so a constructed Range is safe for
// concurrent readers.
type Range struct {
	records []*Record
}

// NewRange creates a Range over records, preserving their order
func NewRange(records []*Record) *Range {
	return &Range{records: records}
}

// Len returns the number of records
func (r *Range) Len() int {
	return len(r.records)
}

// Empty reports whether the range holds no records
func (r *Range) Empty() bool {
	return len(r.records) == 0
}

// At returns the record at index i
func (r *Range) At(i int) *Record {
	return r.records[i]
}

// Records returns the records in canonical order. The slice is a fresh
// copy on every call, so iteration is restartable and callers cannot
// disturb the range.
func (r *Range) Records() []*Record {
	out := make([]*Record, len(r.records))
	copy(out, r.records)
	return out
}

// Filter returns a new Range holding only the records matching pred,
// order preserved
func (r *Range) Filter(pred func(*Record) bool) *Range {
	var kept []*Record
	for _, rec := range r.records {
		if pred(rec) {
			kept = append(kept, rec)
		}
	}
	return NewRange(kept)
}

// Where filters records whose resolved attribute equals value
func (r *Range) Where(path string, value any) *Range {
	return r.Filter(func(rec *Record) bool {
		return equalValues(rec.Resolve(path), value)
	})
}

// Exclude filters out records whose resolved attribute equals value
func (r *Range) Exclude(path string, value any) *Range {
	return r.Filter(func(rec *Record) bool {
		return !equalValues(rec.Resolve(path), value)
	})
}

// WhereMatch filters records whose resolved attribute is a string
// matching the regular expression pattern
func (r *Range) WhereMatch(path, pattern string) (*Range, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid match pattern %q: %w", pattern, err)
	}
	return r.Filter(func(rec *Record) bool {
		s, ok := rec.Resolve(path).(string)
		return ok && re.MatchString(s)
	}), nil
}

// GroupOption adjusts key ordering in Group
type GroupOption func(*groupOptions)

type groupOptions struct {
	ascending  bool
	descending bool
	noneLast   bool
}

// Ascending sorts group keys in ascending natural order
func Ascending() GroupOption {
	return func(o *groupOptions) { o.ascending = true }
}

// Descending sorts group keys in descending natural order
func Descending() GroupOption {
	return func(o *groupOptions) { o.descending = true }
}

// NoneLast moves the bucket keyed by a missing value to the end,
// regardless of sort direction
func NoneLast() GroupOption {
	return func(o *groupOptions) { o.noneLast = true }
}

// Bucket is one group: a key and the sub-range of records sharing it
type Bucket struct {
	Key   any
	Notes *Range
}

// Grouping is an ordered partition of a Range by an attribute path
type Grouping struct {
	buckets []Bucket
}

// Buckets returns the buckets in key order
func (g *Grouping) Buckets() []Bucket {
	out := make([]Bucket, len(g.buckets))
	copy(out, g.buckets)
	return out
}

// Keys returns the bucket keys in order
func (g *Grouping) Keys() []any {
	keys := make([]any, len(g.buckets))
	for i, b := range g.buckets {
		keys[i] = b.Key
	}
	return keys
}

// Get returns the bucket for key, or an empty Range if absent
func (g *Grouping) Get(key any) *Range {
	for _, b := range g.buckets {
		if equalValues(b.Key, key) {
			return b.Notes
		}
	}
	return NewRange(nil)
}

// Len returns the number of buckets
func (g *Grouping) Len() int {
	return len(g.buckets)
}

// Group partitions the records by the resolved value of an attribute
// path. Each bucket preserves the relative order of its records. By
// default keys appear in first-encountered order; Ascending/Descending
// sort them naturally, with a missing value ordering below any other
// unless NoneLast moves its bucket to the end.
func (r *Range) Group(path string, opts ...GroupOption) *Grouping {
	var o groupOptions
	for _, opt := range opts {
		opt(&o)
	}

	var keys []any
	grouped := make(map[int][]*Record)
	for _, rec := range r.records {
		key := rec.Resolve(path)
		idx := indexOfKey(keys, key)
		if idx < 0 {
			idx = len(keys)
			keys = append(keys, key)
		}
		grouped[idx] = append(grouped[idx], rec)
	}

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}

	if o.ascending || o.descending {
		sort.SliceStable(order, func(a, b int) bool {
			cmp := compareValues(keys[order[a]], keys[order[b]])
			if o.descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if o.noneLast {
		var rest []int
		noneIdx := -1
		for _, i := range order {
			if keys[i] == nil {
				noneIdx = i
				continue
			}
			rest = append(rest, i)
		}
		if noneIdx >= 0 {
			rest = append(rest, noneIdx)
		}
		order = rest
	}

	g := &Grouping{}
	for _, i := range order {
		g.buckets = append(g.buckets, Bucket{Key: keys[i], Notes: NewRange(grouped[i])})
	}
	return g
}

func indexOfKey(keys []any, key any) int {
	for i, k := range keys {
		if equalValues(k, key) {
			return i
		}
	}
	return -1
}

// equalValues compares attribute values without panicking on
// uncomparable types
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

// compareValues imposes a natural total order on attribute values: nil
// below everything, then bools, numbers, times, tags (by creation date),
// strings, and finally anything else by its printed form.
func compareValues(a, b any) int {
	ra, ka := rankOf(a)
	rb, kb := rankOf(b)
	if ra != rb {
		return ra - rb
	}

	switch ka := ka.(type) {
	case bool:
		kb := kb.(bool)
		switch {
		case ka == kb:
			return 0
		case !ka:
			return -1
		default:
			return 1
		}
	case float64:
		kb := kb.(float64)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	case time.Time:
		kb := kb.(time.Time)
		switch {
		case ka.Before(kb):
			return -1
		case ka.After(kb):
			return 1
		default:
			return 0
		}
	case models.Tag:
		kb := kb.(models.Tag)
		switch {
		case ka == kb:
			return 0
		case ka.Before(kb):
			return -1
		default:
			return 1
		}
	case string:
		kb := kb.(string)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	}
	return 0
}

// rankOf buckets a value into a type class and normalizes it for
// comparison within the class
func rankOf(v any) (int, any) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case bool:
		return 1, v
	case int:
		return 2, float64(v)
	case int64:
		return 2, float64(v)
	case float64:
		return 2, float64(v)
	case time.Time:
		return 3, v
	case models.Tag:
		return 4, v
	case string:
		return 5, v
	default:
		return 6, fmt.Sprint(v)
	}
}
