// Package render holds the dashboard's compiled templates and the helper
// functions they call at render time. Every helper is pure.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"
)

// maxSeconds bounds MsToReadable so the conversion to int64 stays defined.
const maxSeconds = 1 << 62

// MsToReadable turns a millisecond count into a sentence such as
// "2 days, 3 hours, 1 minute and 5 seconds". The total is rounded to whole
// seconds once, so 59500 reads as "1 minute and 0 seconds".
func MsToReadable(ms float64) string {
	secs := math.Round(ms / 1000)
	switch {
	case !(secs > 0): // negative or NaN
		secs = 0
	case secs > maxSeconds:
		secs = maxSeconds
	}
	total := int64(secs)

	seconds := total % 60
	minutes := total / 60 % 60
	hours := total / 3600 % 24
	days := total / 86400

	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%d %s, ", days, plural(days, "day"))
	}
	if hours > 0 {
		fmt.Fprintf(&b, "%d %s, ", hours, plural(hours, "hour"))
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%d %s and ", minutes, plural(minutes, "minute"))
	}
	fmt.Fprintf(&b, "%d %s", seconds, plural(seconds, "second"))
	return b.String()
}

func plural(n int64, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// FieldKind is the closed set of form controls a stage property renders as.
type FieldKind int

const (
	// FieldText is a single-line text input.
	FieldText FieldKind = iota
	// FieldComposite is a multi-line JSON text area.
	FieldComposite
)

// compositeTypes are the property types edited as JSON in a text area.
var compositeTypes = map[string]bool{
	"Map":        true,
	"LocalQuery": true,
}

// PropertyDescriptor describes one configurable stage parameter.
type PropertyDescriptor struct {
	Type        string
	Required    bool
	Value       any
	Description string
}

// Kind reports which form control the property needs.
func (p PropertyDescriptor) Kind() FieldKind {
	if compositeTypes[p.Type] {
		return FieldComposite
	}
	return FieldText
}

// DescriptorFrom reads a descriptor out of a decoded JSON object. Values that
// are not objects yield a text descriptor holding the value itself.
func DescriptorFrom(v any) PropertyDescriptor {
	switch t := v.(type) {
	case PropertyDescriptor:
		return t
	case map[string]any:
		d := PropertyDescriptor{Value: t["value"]}
		d.Type, _ = t["type"].(string)
		d.Required, _ = t["required"].(bool)
		d.Description, _ = t["description"].(string)
		return d
	default:
		return PropertyDescriptor{Value: v}
	}
}

// PropertyField renders the input control for a named property.
func PropertyField(name string, p PropertyDescriptor) template.HTML {
	return template.HTML(propertyField(name, p))
}

func propertyField(name string, p PropertyDescriptor) string {
	var b strings.Builder
	n := html.EscapeString(name)
	placeholder := html.EscapeString(p.Type)

	if p.Kind() == FieldComposite {
		fmt.Fprintf(&b, `<textarea name="%s" class="form-control" rows="3" id="%s" placeholder="%s"`, n, n, placeholder)
		if p.Required {
			b.WriteString(" required")
		}
		b.WriteString(">")
		if truthy(p.Value) {
			b.WriteString(html.EscapeString(jsonText(p.Value)))
		}
		b.WriteString("</textarea>")
		return b.String()
	}

	fmt.Fprintf(&b, `<input type="text" name="%s" class="form-control" id="%s" placeholder="%s"`, n, n, placeholder)
	if p.Required {
		b.WriteString(" required")
	}
	if truthy(p.Value) {
		fmt.Fprintf(&b, ` value="%s"`, html.EscapeString(inputValue(p.Value)))
	}
	b.WriteString(" />")
	return b.String()
}

// StageModeLabel renders a pipeline mode as a coloured badge.
func StageModeLabel(mode string) template.HTML {
	switch mode {
	case "ACTIVE":
		return `<span class="label label-success">Active</span>`
	case "DEBUG":
		return `<span class="label label-warning">Debug</span>`
	default:
		return `<span class="label label-default">Unknown</span>`
	}
}

// reservedKeys are stage form keys carried as hidden inputs. The bool says
// whether the key is hidden only when it has a value.
var reservedKeys = map[string]bool{
	"libId":      false,
	"stageClass": false,
	"stageName":  true,
	"stageGroup": true,
}

// PrintProperties renders one entry of a stage configuration form.
func PrintProperties(key string, value any) template.HTML {
	if onlyWhenSet, ok := reservedKeys[key]; ok && (!onlyWhenSet || truthy(value)) {
		return template.HTML(fmt.Sprintf(`<input type="hidden" id="%s" name="%s" value="%s" />`,
			html.EscapeString(key), html.EscapeString(key), html.EscapeString(scalarText(value))))
	}

	d := DescriptorFrom(value)
	k := html.EscapeString(key)

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="form-group"><label class="col-sm-4 control-label" for="%s">%s`, k, k)
	if d.Required {
		b.WriteString("*")
	}
	b.WriteString(`</label><div class="col-sm-8">`)
	b.WriteString(propertyField(key, d))
	b.WriteString(`<span class="help-block">`)
	b.WriteString(string(Markdown(d.Description)))
	b.WriteString(`</span></div></div>`)
	return template.HTML(b.String())
}

// PrettyPrint renders a property value for display: strings as-is, objects
// by their nested value as JSON, anything else as a dash.
func PrettyPrint(v any) template.HTML {
	switch t := v.(type) {
	case string:
		return template.HTML(html.EscapeString(t))
	case PropertyDescriptor:
		if truthy(t.Value) {
			return template.HTML(html.EscapeString(jsonText(t.Value)))
		}
	case map[string]any:
		if truthy(t["value"]) {
			return template.HTML(html.EscapeString(jsonText(t["value"])))
		}
	}
	return "-"
}

// truthy follows the loose notion of "has a value" used by the stage forms:
// nil, false, zero and the empty string are unset.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		return t != "" && t != "0"
	default:
		return true
	}
}

func jsonText(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// inputValue is what lands in an input's value attribute: strings verbatim,
// everything else as JSON so it parses back to the same value.
func inputValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return jsonText(v)
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return jsonText(t)
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	default:
		return 0
	}
}
