package notes

import (
	"testing"
	"time"

	"github.com/wahlandcase/attuned.relnotes/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(sha string, data map[string]any) *Record {
	return &Record{
		Commit: models.Commit{
			SHA: sha,
			Author: models.Signature{
				Name:  "Ada Lovelace",
				Email: "ada@example.com",
				When:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		Data: data,
	}
}

func typeRange() *Range {
	return NewRange([]*Record{
		rec("aaa1", map[string]any{"type": "feature", "summary": "first"}),
		rec("bbb2", map[string]any{"type": "bug", "summary": "second"}),
		rec("ccc3", map[string]any{"type": "feature", "summary": "third"}),
		rec("ddd4", map[string]any{"summary": "fourth"}),
	})
}

func TestGroup_FirstEncounteredOrder(t *testing.T) {
	g := typeRange().Group("type")

	assert.Equal(t, []any{"feature", "bug", nil}, g.Keys())
}

func TestGroup_AscendingNoneLast(t *testing.T) {
	g := typeRange().Group("type", Ascending(), NoneLast())

	require.Equal(t, []any{"bug", "feature", nil}, g.Keys())

	feature := g.Get("feature")
	require.Equal(t, 2, feature.Len())
	// Relative order from the source is preserved within a bucket
	assert.Equal(t, "first", feature.At(0).Data["summary"])
	assert.Equal(t, "third", feature.At(1).Data["summary"])
}

func TestGroup_DescendingNoneLast(t *testing.T) {
	g := typeRange().Group("type", Descending(), NoneLast())

	assert.Equal(t, []any{"feature", "bug", nil}, g.Keys())
}

func TestGroup_NoneSortsLowestWithoutNoneLast(t *testing.T) {
	g := typeRange().Group("type", Ascending())
	assert.Equal(t, []any{nil, "bug", "feature"}, g.Keys())

	g = typeRange().Group("type", Descending())
	assert.Equal(t, []any{"feature", "bug", nil}, g.Keys())
}

func TestGroup_NoneLastWithoutSorting(t *testing.T) {
	r := NewRange([]*Record{
		rec("aaa1", map[string]any{}),
		rec("bbb2", map[string]any{"type": "bug"}),
	})

	g := r.Group("type", NoneLast())
	assert.Equal(t, []any{"bug", nil}, g.Keys())
}

func TestGroup_IsAPartition(t *testing.T) {
	src := typeRange()
	g := src.Group("type", Ascending(), NoneLast())

	var seen []string
	for _, b := range g.Buckets() {
		for _, r := range b.Notes.Records() {
			seen = append(seen, r.Commit.SHA)
		}
	}

	// Every record appears exactly once
	assert.ElementsMatch(t, []string{"aaa1", "bbb2", "ccc3", "ddd4"}, seen)
}

func TestGroup_UnknownPathYieldsSingleNilBucket(t *testing.T) {
	g := typeRange().Group("no_such_field")

	require.Equal(t, 1, g.Len())
	assert.Nil(t, g.Keys()[0])
	assert.Equal(t, 4, g.Get(nil).Len())
}

func TestFilterThenGroupEqualsGroupThenFilter(t *testing.T) {
	src := typeRange()
	pred := func(r *Record) bool { return r.Data["summary"] != "third" }

	left := src.Filter(pred).Group("type", Ascending(), NoneLast())
	right := src.Group("type", Ascending(), NoneLast())

	for _, b := range right.Buckets() {
		want := b.Notes.Filter(pred)
		got := left.Get(b.Key)
		require.Equal(t, want.Len(), got.Len(), "bucket %v", b.Key)
		for i := range want.Records() {
			assert.Equal(t, want.At(i).Commit.SHA, got.At(i).Commit.SHA)
		}
	}
}

func TestFilter_PreservesOrderAndSource(t *testing.T) {
	src := typeRange()
	filtered := src.Filter(func(r *Record) bool { return r.Data["type"] == "feature" })

	require.Equal(t, 2, filtered.Len())
	assert.Equal(t, "aaa1", filtered.At(0).Commit.SHA)
	assert.Equal(t, "ccc3", filtered.At(1).Commit.SHA)

	// Source range is untouched
	assert.Equal(t, 4, src.Len())
}

func TestWhereAndExclude(t *testing.T) {
	src := typeRange()

	assert.Equal(t, 1, src.Where("type", "bug").Len())
	assert.Equal(t, 3, src.Exclude("type", "bug").Len())
	assert.Equal(t, 4, src.Where("is_valid", true).Len())
}

func TestWhereMatch(t *testing.T) {
	src := typeRange()

	matched, err := src.WhereMatch("summary", "^f")
	require.NoError(t, err)
	assert.Equal(t, 2, matched.Len())

	_, err = src.WhereMatch("summary", "(")
	assert.Error(t, err)
}

func TestRecords_RestartableAndStable(t *testing.T) {
	src := typeRange()

	first := src.Records()
	second := src.Records()
	require.Equal(t, first, second)

	// Mutating a returned slice cannot disturb the range
	first[0] = nil
	assert.Equal(t, "aaa1", src.At(0).Commit.SHA)
}

func TestResolve_DottedPaths(t *testing.T) {
	r := rec("aaa1", map[string]any{"type": "feature"})
	when := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	r.Tag = &models.Tag{Name: "v1.0", Date: when}

	assert.Equal(t, "aaa1", r.Resolve("commit_sha"))
	assert.Equal(t, "Ada Lovelace", r.Resolve("commit_author_name"))
	assert.Equal(t, models.Tag{Name: "v1.0", Date: when}, r.Resolve("commit_tag"))
	assert.Equal(t, "v1.0", r.Resolve("commit_tag.name"))
	assert.Equal(t, when, r.Resolve("commit_tag.date"))
	assert.Equal(t, "feature", r.Resolve("type"))
	assert.Equal(t, true, r.Resolve("is_valid"))

	// Permissive lookups: unknown paths resolve to nil, never an error
	assert.Nil(t, r.Resolve("no_such_field"))
	assert.Nil(t, r.Resolve("commit_tag.nope"))
	assert.Nil(t, r.Resolve("type.deeper"))
}

func TestResolve_NilTag(t *testing.T) {
	r := rec("aaa1", nil)

	assert.Nil(t, r.Resolve("commit_tag"))
	assert.Nil(t, r.Resolve("commit_tag.name"))
}

func TestResolve_ValidationState(t *testing.T) {
	r := rec("aaa1", map[string]any{"type": "feature"})
	r.Errors = []string{"summary: required field is missing"}

	assert.Equal(t, false, r.Resolve("is_valid"))
	assert.Equal(t, []string{"summary: required field is missing"}, r.Resolve("validation_errors"))
}

func TestGroup_TagKeysSortByCreationDate(t *testing.T) {
	older := models.Tag{Name: "v1.0", Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}
	newer := models.Tag{Name: "v1.1", Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)}

	r1 := rec("aaa1", nil)
	r1.Tag = &newer
	r2 := rec("bbb2", nil)
	r2.Tag = &older
	r3 := rec("ccc3", nil)

	g := NewRange([]*Record{r1, r2, r3}).Group("commit_tag", Ascending(), NoneLast())
	assert.Equal(t, []any{older, newer, nil}, g.Keys())
}
