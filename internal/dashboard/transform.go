package dashboard

import "strings"

// TransformLibraries decorates every stage of every library with its display
// name (the part of the key after the last dot), its raw class name and the
// id of the library that owns it. The input is not modified.
//
// Both the list form {"libraries": [...]} and the keyed form
// {"libraries": {"<id>": {...}}} are accepted.
func TransformLibraries(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}

	switch libs := data["libraries"].(type) {
	case []any:
		decorated := make([]any, len(libs))
		for i, lib := range libs {
			decorated[i] = decorateLibrary(lib, "")
		}
		out["libraries"] = decorated
	case map[string]any:
		decorated := make(map[string]any, len(libs))
		for id, lib := range libs {
			decorated[id] = decorateLibrary(lib, id)
		}
		out["libraries"] = decorated
	}
	return out
}

func decorateLibrary(v any, fallbackID string) any {
	lib, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(lib))
	for k, v := range lib {
		out[k] = v
	}

	id := fallbackID
	if s, ok := lib["id"].(string); ok && s != "" {
		id = s
	} else if id != "" {
		out["id"] = id
	}

	stages, ok := lib["stages"].(map[string]any)
	if !ok {
		return out
	}
	decorated := make(map[string]any, len(stages))
	for className, s := range stages {
		stage := make(map[string]any)
		if m, ok := s.(map[string]any); ok {
			for k, v := range m {
				stage[k] = v
			}
		}
		stage["name"] = StageDisplayName(className)
		stage["className"] = className
		stage["libId"] = id
		decorated[className] = stage
	}
	out["stages"] = decorated
	return out
}

// StageDisplayName returns the part of a dotted class name after the last dot.
func StageDisplayName(className string) string {
	return className[strings.LastIndex(className, ".")+1:]
}
