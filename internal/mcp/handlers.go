package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleHydraStatus returns a section's payload as indented JSON.
func (s *Server) handleHydraStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section := request.GetString("section", "status")

	data, err := s.backend.Fetch(ctx, section)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching %s failed: %v", section, err)), nil
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding %s: %v", section, err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleListLibraries summarises the libraries section.
func (s *Server) handleListLibraries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.backend.Fetch(ctx, "libraries")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching libraries failed: %v", err)), nil
	}

	libs := libraryList(data["libraries"])
	if len(libs) == 0 {
		return mcp.NewToolResultText("No libraries uploaded."), nil
	}
	return mcp.NewToolResultText(formatLibraries(libs)), nil
}

// handleQueryDocuments runs a document query and returns the matches.
func (s *Server) handleQueryDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if strings.TrimSpace(query) != "" && !json.Valid([]byte(query)) {
		return mcp.NewToolResultError("query must be a JSON object"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	data, err := s.backend.FetchDocuments(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("document query failed: %v", err)), nil
	}

	docs, _ := data["documents"].([]any)
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents matched."), nil
	}

	var sb strings.Builder
	if n, ok := data["numberOfDocuments"]; ok {
		sb.WriteString(fmt.Sprintf("%v document(s) match", n))
	} else {
		sb.WriteString(fmt.Sprintf("%d document(s) returned", len(docs)))
	}
	if len(docs) > limit {
		docs = docs[:limit]
		sb.WriteString(fmt.Sprintf(", showing the first %d", limit))
	}
	sb.WriteString(":\n")

	for i, doc := range docs {
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n--- Document %d ---\n", i+1))
		sb.Write(out)
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// library is the summary of one uploaded library.
type library struct {
	ID     string
	Stages []stage
}

type stage struct {
	Name      string
	ClassName string
}

// libraryList flattens the libraries payload, which may be a list or keyed
// by id, into libraries sorted by id.
func libraryList(v any) []library {
	var raw []map[string]any
	switch t := v.(type) {
	case []any:
		for _, l := range t {
			if m, ok := l.(map[string]any); ok {
				raw = append(raw, m)
			}
		}
	case map[string]any:
		for id, l := range t {
			if m, ok := l.(map[string]any); ok {
				if _, has := m["id"]; !has {
					m = withID(m, id)
				}
				raw = append(raw, m)
			}
		}
	}

	libs := make([]library, 0, len(raw))
	for _, m := range raw {
		lib := library{}
		lib.ID, _ = m["id"].(string)
		stages, _ := m["stages"].(map[string]any)
		for className, s := range stages {
			st := stage{ClassName: className}
			if sm, ok := s.(map[string]any); ok {
				st.Name, _ = sm["name"].(string)
			}
			if st.Name == "" {
				st.Name = className[strings.LastIndex(className, ".")+1:]
			}
			lib.Stages = append(lib.Stages, st)
		}
		sort.Slice(lib.Stages, func(i, j int) bool { return lib.Stages[i].ClassName < lib.Stages[j].ClassName })
		libs = append(libs, lib)
	}
	sort.Slice(libs, func(i, j int) bool { return libs[i].ID < libs[j].ID })
	return libs
}

func withID(m map[string]any, id string) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out["id"] = id
	return out
}

// formatLibraries renders libraries as text for agent consumption.
func formatLibraries(libs []library) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d librar%s:\n", len(libs), pluralY(len(libs))))
	for _, lib := range libs {
		sb.WriteString(fmt.Sprintf("\n%s (%d stage(s))\n", lib.ID, len(lib.Stages)))
		for _, st := range lib.Stages {
			sb.WriteString(fmt.Sprintf("  - %s [%s]\n", st.Name, st.ClassName))
		}
	}
	return sb.String()
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
