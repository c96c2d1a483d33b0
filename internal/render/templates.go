package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Funcs returns the helper functions registered on every template. The
// wrappers accept loosely typed JSON values so a missing key renders a
// fallback instead of failing the whole fragment.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"msToReadable": func(v any) string {
			return MsToReadable(toFloat(v))
		},
		"propertyField": func(name string, v any) template.HTML {
			return PropertyField(name, DescriptorFrom(v))
		},
		"stageModeLabel": func(v any) template.HTML {
			s, _ := v.(string)
			return StageModeLabel(s)
		},
		"printProperties": PrintProperties,
		"prettyPrint":     PrettyPrint,
		"listDocuments": func(v any) template.HTML {
			docs, _ := v.([]any)
			return ListDocuments(docs)
		},
		"markdown": func(v any) template.HTML {
			s, _ := v.(string)
			return Markdown(s)
		},
		"sortedKeys":  sortedKeys,
		"field":       field,
		"displayName": displayName,
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02 15:04:05")
		},
	}
}

// Set is the compiled collection of section and page templates, keyed by
// template name.
type Set struct {
	tmpl *template.Template
}

// NewSet compiles the embedded templates with the helper library.
func NewSet() (*Set, error) {
	t, err := template.New("hydradash").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Set{tmpl: t}, nil
}

// Has reports whether a template with the given name exists.
func (s *Set) Has(name string) bool {
	return s.tmpl.Lookup(name) != nil
}

// Execute renders the named template to w.
func (s *Set) Execute(w io.Writer, name string, data any) error {
	if !s.Has(name) {
		return fmt.Errorf("template not found: %s", name)
	}
	return s.tmpl.ExecuteTemplate(w, name, data)
}

// Render renders the named template to an HTML fragment.
func (s *Set) Render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.Execute(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func sortedKeys(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// field returns m[key] when v is a JSON object, nil otherwise.
func field(v any, key string) any {
	if m, ok := v.(map[string]any); ok {
		return m[key]
	}
	return nil
}

// displayName picks a label for an entry that may be a bare string or an
// object with a name or id.
func displayName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		for _, k := range []string{"name", "id", "className"} {
			if s, ok := t[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return scalarText(v)
}
