package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var settingsJSON bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and write per-user settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		v, ok, err := p.Setting(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("setting %q is not set", args[0])
		}
		fmt.Println(v)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		return p.SetSetting(args[0], args[1])
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		settings, err := p.Settings()
		if err != nil {
			return err
		}
		if settingsJSON {
			return printJSON(settings)
		}

		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s=%s\n", k, settings[k])
		}
		return nil
	},
}

var settingsDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		return p.DeleteSetting(args[0])
	},
}

func init() {
	settingsListCmd.Flags().BoolVar(&settingsJSON, "json", false, "output as JSON")

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsDeleteCmd)
}
