package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/focusflow/internal/profile"
	"github.com/swamp-dev/focusflow/internal/store"
)

var (
	statsJSON   bool
	heatmapJSON bool
	heatmapDays int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show focus totals and streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := p.Stats()
		if err != nil {
			return err
		}
		if statsJSON {
			return printJSON(st)
		}

		infos, err := p.Achievements()
		if err != nil {
			return err
		}
		printStats(st, infos)
		return nil
	},
}

func printStats(st *store.UserStats, infos []store.AchievementInfo) {
	unlocked := 0
	for _, info := range infos {
		if info.Unlocked {
			unlocked++
		}
	}

	fmt.Println("=== Focusflow Stats ===")
	fmt.Println()
	fmt.Printf("Focus time:      %s\n", profile.FormatDuration(st.TotalFocusTime))
	fmt.Printf("Sessions:        %d\n", st.TotalSessions)
	fmt.Printf("Current streak:  %d day(s)\n", st.CurrentStreak)
	fmt.Printf("Longest streak:  %d day(s)\n", st.LongestStreak)
	fmt.Printf("Tasks completed: %d\n", st.TasksCompleted)
	if len(infos) > 0 {
		pct := float64(unlocked) / float64(len(infos)) * 100
		fmt.Printf("Achievements:    %s %d/%d\n", renderProgressBar(pct, 20), unlocked, len(infos))
	}
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Draw daily focus time for the trailing weeks",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		points, err := p.Heatmap()
		if err != nil {
			return err
		}
		if heatmapJSON {
			return printJSON(points)
		}

		days := cfg.Heatmap.Days
		if heatmapDays > 0 {
			days = heatmapDays
		}
		if days > 365 {
			return fmt.Errorf("--days must be at most 365")
		}
		fmt.Print(renderHeatmap(points, days, time.Now().UTC()))
		fmt.Printf("\n    %c none  %c <30m  %c <1h  %c <2h  %c 2h+\n",
			heatLevels[0], heatLevels[1], heatLevels[2], heatLevels[3], heatLevels[4])
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")

	heatmapCmd.Flags().BoolVar(&heatmapJSON, "json", false, "output the raw points as JSON")
	heatmapCmd.Flags().IntVar(&heatmapDays, "days", 0, "days to draw (default heatmap.days)")
}
