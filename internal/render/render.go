// Package render turns a note range into changelog text. Templates see
// the range only through its group/filter/iterate surface, so alternate
// template engines can be substituted without touching the core.
package render

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/wahlandcase/attuned.relnotes/internal/config"
	"github.com/wahlandcase/attuned.relnotes/internal/notes"
)

// DefaultTemplate renders notes grouped by release, unreleased last
const DefaultTemplate = `{{ range $bucket := (.Notes.Group "commit_tag" noneLast).Buckets }}
## {{ with $bucket.Key }}{{ .Name }} ({{ .Date.Format "2006-01-02" }}){{ else }}Unreleased{{ end }}

{{ range $note := $bucket.Notes.Records }}- {{ $note.Commit.Author.Name }} [{{ $note.Commit.ShortSHA }}]

{{ range $key := $note.Keys }}  *{{ $key }}*: {{ indent 4 (toString (index $note.Data $key)) }}
{{ end }}
{{ end }}{{ end }}`

// Context is what a log template renders from
type Context struct {
	Notes  *notes.Range
	Range  string
	Output string
}

// Funcs is the helper set exposed to log templates
func Funcs() template.FuncMap {
	return template.FuncMap{
		"asc":       notes.Ascending,
		"desc":      notes.Descending,
		"noneLast":  notes.NoneLast,
		"indent":    indent,
		"firstline": firstline,
		"toString":  toString,
	}
}

// Render executes a template string against a context
func Render(tpl string, ctx Context) (string, error) {
	t, err := template.New("log").Funcs(Funcs()).Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("invalid log template: %w", err)
	}

	var b strings.Builder
	if err := t.Execute(&b, ctx); err != nil {
		return "", fmt.Errorf("rendering log template: %w", err)
	}
	return b.String(), nil
}

// Resolve picks the template for a run: an explicit template string
// wins, then the style's file under .relnotes, then the built-in
// default. A missing file is only an error for a non-default style.
func Resolve(cfg *config.Config, root, style, tpl string) (string, error) {
	if tpl != "" {
		return tpl, nil
	}

	path := cfg.TemplatePath(root, style)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && (style == "" || style == "default") {
			return DefaultTemplate, nil
		}
		return "", fmt.Errorf("loading template for style %q: %w", style, err)
	}
	return string(data), nil
}

// indent pads every line after the first by n spaces
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	return strings.ReplaceAll(s, "\n", "\n"+pad)
}

// firstline returns the text up to the first newline
func firstline(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
