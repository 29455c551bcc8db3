package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrationsJSON bool

var migrationsCmd = &cobra.Command{
	Use:   "migrations",
	Short: "Show applied schema migrations",
	Long: `Open the database, applying any pending migrations, and list the
migration ledger in the order the migrations were applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.Migrations()
		if err != nil {
			return err
		}
		if migrationsJSON {
			return printJSON(records)
		}

		fmt.Printf("Database: %s\n", s.Path())
		for _, r := range records {
			fmt.Printf("  ✓ %-28s %s\n", r.Name, r.AppliedAt)
		}
		return nil
	},
}

func init() {
	migrationsCmd.Flags().BoolVar(&migrationsJSON, "json", false, "output as JSON")
}
