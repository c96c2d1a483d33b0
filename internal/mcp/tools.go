package mcp

import "github.com/mark3labs/mcp-go/mcp"

// hydraStatusTool defines the hydra_status MCP tool.
var hydraStatusTool = mcp.NewTool("hydra_status",
	mcp.WithDescription("Get the raw JSON behind a Hydra dashboard section: pipeline status, stage groups, libraries or documents."),
	mcp.WithString("section",
		mcp.Description("Dashboard section to read (default status)"),
	),
)

// listLibrariesTool defines the list_libraries MCP tool.
var listLibrariesTool = mcp.NewTool("list_libraries",
	mcp.WithDescription("List uploaded stage libraries and the stage classes each one provides."),
)

// queryDocumentsTool defines the query_documents MCP tool.
var queryDocumentsTool = mcp.NewTool("query_documents",
	mcp.WithDescription("Query documents in the Hydra pipeline with a JSON query such as {\"touched\":{\"tika\":true}}."),
	mcp.WithString("query",
		mcp.Description("JSON document query; empty matches everything"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of documents to return (default 10)"),
	),
)
