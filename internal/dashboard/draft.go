package dashboard

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// FormField is one id/value pair collected from a stage configuration form.
type FormField struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// BuildStageDraft turns form fields into the stage configuration body. Each
// value is decoded as JSON when it parses and kept as the raw string
// otherwise. Empty values are left out; later duplicates win.
func BuildStageDraft(fields []FormField) map[string]any {
	draft := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.ID == "" || f.Value == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(f.Value), &v); err != nil {
			draft[f.ID] = f.Value
			continue
		}
		draft[f.ID] = v
	}
	return draft
}

// StageURL builds <uploadBase>/<libId>/stages/[<stageGroup>/]<stageName>
// from a draft. Each value must be a single path segment: a slash would
// turn a plain stage into a grouped one on the backend.
func StageURL(uploadBase string, draft map[string]any) (string, error) {
	libID := draftString(draft["libId"])
	name := draftString(draft["stageName"])
	if libID == "" || name == "" {
		return "", ErrMissingStageField
	}
	group := draftString(draft["stageGroup"])
	for _, seg := range []string{libID, group, name} {
		if err := checkSegment(seg); err != nil {
			return "", err
		}
	}

	segments := []string{strings.TrimSuffix(uploadBase, "/"), libID, "stages"}
	if group != "" {
		segments = append(segments, group)
	}
	segments = append(segments, name)
	return strings.Join(segments, "/"), nil
}

// checkSegment rejects values that would change the shape of a backend path.
func checkSegment(seg string) error {
	if strings.ContainsAny(seg, "/\\") || seg == "." || seg == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidPathSegment, seg)
	}
	return nil
}

// draftString renders a decoded draft value as a path segment.
func draftString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// joinPath appends path segments to a backend endpoint.
func joinPath(base string, elem ...string) string {
	return path.Join(append([]string{base}, elem...)...)
}
