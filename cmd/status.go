package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/hydradash/internal/render"
)

var statusCmd = &cobra.Command{
	Use:   "status [section]",
	Short: "Show the pipeline status or any dashboard section",
	Long: `Fetches one dashboard section from the Hydra admin service. Without an
argument the status section is summarised; other sections, or --json,
print the payload as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("json", false, "output the raw payload as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	section := "status"
	if len(args) == 1 {
		section = args[0]
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, d, closeFn, err := setup()
	if err != nil {
		return err
	}
	defer closeFn()

	data, err := d.Fetch(cmd.Context(), section)
	if err != nil {
		return err
	}

	if jsonOutput || section != "status" {
		return printJSON(data)
	}

	fmt.Printf("Hydra at %s\n", cfg.BackendURL)
	if up, ok := data["uptime"].(float64); ok {
		fmt.Printf("  Uptime:     %s\n", render.MsToReadable(up))
	}
	if docs, ok := data["documents"].(map[string]any); ok {
		fmt.Printf("  Documents:  %v in pipeline, %v archived\n", docs["current"], docs["archived"])
		if t, ok := docs["throughput"]; ok {
			fmt.Printf("  Throughput: %v\n", t)
		}
	}

	groups, _ := data["groups"].(map[string]any)
	for _, mode := range sortedKeys(groups) {
		byGroup, _ := groups[mode].(map[string]any)
		fmt.Printf("\n%s pipeline:\n", mode)
		if len(byGroup) == 0 {
			fmt.Println("  (no stages)")
			continue
		}
		for _, group := range sortedKeys(byGroup) {
			info, _ := byGroup[group].(map[string]any)
			stages, _ := info["stages"].(map[string]any)
			fmt.Printf("  %s: %d stages\n", group, len(stages))
			for _, name := range sortedKeys(stages) {
				fmt.Printf("    - %s\n", name)
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
