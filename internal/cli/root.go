// Package cli provides the command-line interface for focusflow.
package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swamp-dev/focusflow/internal/config"
)

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger
	cfg     *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "focusflow",
	Short: "Local focus-session tracker with streaks and achievements",
	Long: `Focusflow records focus sessions in a local SQLite database and
derives daily totals, streaks, a yearly heatmap and achievements from them.

It also keeps a small per-user task list and settings, and can export a
user's data to JSON and merge it back into another database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		logLevel, _ := cfg.SlogLevel()
		if verbose {
			logLevel = slog.LevelDebug
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./focusflow.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("db", "", "database file (overrides database.path)")
	rootCmd.PersistentFlags().String("user", "", "user id to act as (overrides profile.user_id)")

	viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("profile.user_id", rootCmd.PersistentFlags().Lookup("user"))

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(migrationsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("focusflow")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if found, err := config.FindConfigFile(); err == nil {
			viper.SetConfigFile(found)
		}
	}

	viper.SetEnvPrefix("FOCUSFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.ReadInConfig()
}

// loadConfig reads the YAML file with config.Load and then applies
// flag and FOCUSFLOW_* environment overrides resolved by viper.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(viper.ConfigFileUsed())
	if err != nil {
		return nil, err
	}
	applyOverrides(c, viper.GetViper())
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func applyOverrides(c *config.Config, v *viper.Viper) {
	if p := v.GetString("database.path"); p != "" {
		c.Database.Path = p
	}
	if u := v.GetString("profile.user_id"); u != "" {
		c.Profile.UserID = u
	}
	if l := v.GetString("log.level"); l != "" {
		c.Log.Level = l
	}
	if d := v.GetInt("heatmap.days"); d != 0 {
		c.Heatmap.Days = d
	}
}
