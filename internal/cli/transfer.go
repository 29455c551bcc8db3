package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/focusflow/internal/store"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current user's data as JSON",
	Long: `Export writes a snapshot of the current user's profile, sessions,
tasks, achievements and settings. The snapshot can be merged into any
focusflow database with 'focusflow import'.

Examples:
  focusflow export > backup.json
  focusflow export --output backup.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		snap, err := p.Export()
		if err != nil {
			return err
		}

		if exportOutput == "" {
			return printJSON(snap)
		}
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling snapshot: %w", err)
		}
		if err := os.WriteFile(exportOutput, data, 0644); err != nil {
			return err
		}
		fmt.Printf("Exported: %s\n", exportOutput)
		return nil
	},
}

var importUse bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge an exported snapshot into the database",
	Long: `Import merges a snapshot produced by 'focusflow export'.

The user is created if missing and left alone otherwise. Sessions, tasks
and achievements already present are kept; settings take the snapshot's
values. Importing the same file twice adds nothing the second time.
Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := readSnapshot(args[0])
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := s.ImportSnapshot(snap)
		if err != nil {
			return err
		}
		if importUse {
			if err := s.SetCurrentUser(snap.User.ID); err != nil {
				return err
			}
		}
		fmt.Println(res.Message)
		return nil
	},
}

func readSnapshot(path string) (*store.Snapshot, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}

	var snap store.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	importCmd.Flags().BoolVar(&importUse, "use", false, "make the imported user current")
}
