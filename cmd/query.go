package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [json-query]",
	Short: "Query documents stored by the pipeline",
	Long: `Runs a document query against the Hydra admin service and prints the
matching documents. The query is a JSON object in the backend's query
syntax; without one every document matches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Int("limit", 10, "maximum number of documents to print")
	queryCmd.Flags().Bool("json", false, "output the raw response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var q string
	if len(args) == 1 {
		q = args[0]
	}
	if strings.TrimSpace(q) != "" && !json.Valid([]byte(q)) {
		return fmt.Errorf("query is not valid JSON: %s", q)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	_, d, closeFn, err := setup()
	if err != nil {
		return err
	}
	defer closeFn()

	data, err := d.FetchDocuments(ctx, q)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if jsonOutput {
		return printJSON(data)
	}

	if e, ok := data["error"]; ok && e != nil {
		return fmt.Errorf("backend rejected query: %v", e)
	}

	docs, _ := data["documents"].([]any)
	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	shown := len(docs)
	if limit > 0 {
		shown = min(limit, shown)
	}
	if n, ok := data["numberOfDocuments"]; ok {
		fmt.Printf("%v documents match, showing %d:\n\n", n, shown)
	} else {
		fmt.Printf("Found %d documents:\n\n", len(docs))
	}
	for i, doc := range docs[:shown] {
		out, err := json.MarshalIndent(doc, "     ", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("  %d. %s\n\n", i+1, out)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
