package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/hydradash/internal/hydra"
	"github.com/ziadkadry99/hydradash/internal/progress"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <library-id> <archive>",
	Short: "Upload a stage library archive",
	Long: `Uploads a library archive (a JAR of stage classes) to the Hydra admin
service under the given library id, showing upload progress.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	libID, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading archive size: %w", err)
	}

	_, d, closeFn, err := setup()
	if err != nil {
		return err
	}
	defer closeFn()

	name := filepath.Base(path)
	reporter := progress.NewReporter()
	archive := hydra.Archive{Name: name, Size: info.Size(), Body: f}

	data, err := d.AddLibrary(cmd.Context(), libID, archive, progress.Track(reporter, name))
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("Library %s uploaded from %s\n", libID, name)
	if verbose && len(data) > 0 {
		return printJSON(data)
	}
	return nil
}
