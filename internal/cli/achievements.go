package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/focusflow/internal/achievement"
	"github.com/swamp-dev/focusflow/internal/profile"
	"github.com/swamp-dev/focusflow/internal/store"
)

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach"},
	Short:   "List, check and unlock achievements",
}

var (
	achievementsJSON     bool
	achievementsMarkdown bool
	achievementMetadata  string
)

var achievementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every achievement and whether it is unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		if achievementsMarkdown {
			md, err := p.ExportMarkdown()
			if err != nil {
				return fmt.Errorf("rendering markdown: %w", err)
			}
			fmt.Print(md)
			return nil
		}

		infos, err := p.Achievements()
		if err != nil {
			return err
		}
		if achievementsJSON {
			return printJSON(infos)
		}

		for _, info := range infos {
			when := ""
			if info.UnlockedAt != nil {
				when = *info.UnlockedAt
			}
			fmt.Printf("%s %-18s %-40s %s\n", checkbox(info.Unlocked), info.Name,
				truncate(info.Description, 40), when)
		}
		return nil
	},
}

var achievementsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate achievement rules against current stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		earned, err := p.CheckAchievements()
		if err != nil {
			return err
		}
		if len(earned) == 0 {
			fmt.Println("No new achievements.")
			return nil
		}
		printUnlocks(earned)
		return nil
	},
}

var achievementsUnlockCmd = &cobra.Command{
	Use:   "unlock <type>",
	Short: "Unlock an achievement directly",
	Long: `Unlock an achievement directly, bypassing the rule table.

This is the only way to earn achievements without a rule, such as
early_bird and night_owl.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := achievement.Parse(args[0])
		if err != nil {
			return err
		}

		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := p.Unlock(t, optionalString(achievementMetadata))
		if err != nil {
			return err
		}
		logger.Info("achievement unlocked", "type", a.Type, "user", p.UserID())
		fmt.Print(profile.RenderAchievement(infoFor(a.Type, a.UnlockedAt)))
		return nil
	},
}

func infoFor(t achievement.Type, unlockedAt string) store.AchievementInfo {
	return store.AchievementInfo{
		Type:        t,
		Name:        t.DisplayName(),
		Description: t.Description(),
		Unlocked:    true,
		UnlockedAt:  &unlockedAt,
	}
}

func init() {
	achievementsListCmd.Flags().BoolVar(&achievementsJSON, "json", false, "output as JSON")
	achievementsListCmd.Flags().BoolVar(&achievementsMarkdown, "markdown", false, "render the profile as markdown")

	achievementsUnlockCmd.Flags().StringVar(&achievementMetadata, "metadata", "", "opaque metadata stored with the unlock")

	achievementsCmd.AddCommand(achievementsListCmd)
	achievementsCmd.AddCommand(achievementsCheckCmd)
	achievementsCmd.AddCommand(achievementsUnlockCmd)
}
