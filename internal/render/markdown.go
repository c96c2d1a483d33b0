package render

import (
	"bytes"
	"encoding/json"
	"html"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// md renders stage descriptions and highlighted JSON. Raw HTML in the
// source is dropped, not passed through.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
)

// Markdown renders a Markdown snippet to HTML.
func Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(html.EscapeString(src))
	}
	return template.HTML(buf.String())
}

// ListDocuments renders each document as highlighted, tab-indented JSON.
func ListDocuments(docs []any) template.HTML {
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(`<div class="well">`)
		b.WriteString(string(highlightJSON(doc)))
		b.WriteString(`</div>`)
	}
	return template.HTML(b.String())
}

func highlightJSON(v any) template.HTML {
	pretty, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return template.HTML("<pre>" + html.EscapeString(jsonText(v)) + "</pre>")
	}

	var src bytes.Buffer
	src.WriteString("```json\n")
	src.Write(pretty)
	src.WriteString("\n```\n")

	var buf bytes.Buffer
	if err := md.Convert(src.Bytes(), &buf); err != nil {
		return template.HTML("<pre>" + html.EscapeString(string(pretty)) + "</pre>")
	}
	return template.HTML(buf.String())
}
