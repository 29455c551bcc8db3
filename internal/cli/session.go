package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/focusflow/internal/profile"
	"github.com/swamp-dev/focusflow/internal/store"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Record and inspect focus sessions",
}

var (
	sessionDuration time.Duration
	sessionStart    string
	sessionCategory string
	sessionNotes    string
	sessionLimit    int
	sessionJSON     bool
)

var sessionRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a completed focus session",
	Long: `Record a completed focus session for the current user.

The session ends at --start plus --duration. Without --start it is taken
to have ended just now.

Examples:
  focusflow session record --duration 25m
  focusflow session record --duration 1h10m --start "2024-03-07 09:00:00" --category work`,
	RunE: runSessionRecord,
}

func runSessionRecord(cmd *cobra.Command, args []string) error {
	if sessionDuration <= 0 {
		return fmt.Errorf("--duration must be positive")
	}
	start, end, err := sessionBounds(sessionStart, sessionDuration, time.Now())
	if err != nil {
		return err
	}

	s, p, err := openProfile()
	if err != nil {
		return err
	}
	defer s.Close()

	sess, earned, err := p.RecordSession(store.NewSession{
		DurationSeconds: int64(sessionDuration / time.Second),
		StartedAt:       start,
		EndedAt:         end,
		Category:        optionalString(sessionCategory),
		Notes:           optionalString(sessionNotes),
	})
	if err := unlockErr(err); err != nil {
		return err
	}

	fmt.Printf("Recorded %s session %s (%s → %s)\n",
		profile.FormatDuration(sess.DurationSeconds), sess.ID, sess.StartedAt, sess.EndedAt)
	printUnlocks(earned)
	return nil
}

// sessionBounds returns the persisted start and end timestamps. An empty
// start means the session ended at now.
func sessionBounds(start string, d time.Duration, now time.Time) (string, string, error) {
	var begin time.Time
	if start == "" {
		begin = now.UTC().Add(-d)
	} else {
		var err error
		begin, err = time.Parse(store.TimestampLayout, start)
		if err != nil {
			return "", "", fmt.Errorf("--start must look like %q: %w", store.TimestampLayout, err)
		}
	}
	return begin.Format(store.TimestampLayout), begin.Add(d).Format(store.TimestampLayout), nil
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := p.Sessions(sessionLimit)
		if err != nil {
			return err
		}
		if sessionJSON {
			return printJSON(sessions)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded.")
			return nil
		}

		for _, sess := range sessions {
			category := ""
			if sess.Category != nil {
				category = *sess.Category
			}
			fmt.Printf("%s  %-8s  %-12s  %s\n", sess.StartedAt,
				profile.FormatDuration(sess.DurationSeconds), truncate(category, 12), sess.ID)
		}
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := p.DeleteSession(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	},
}

func init() {
	sessionRecordCmd.Flags().DurationVarP(&sessionDuration, "duration", "d", 25*time.Minute, "session length")
	sessionRecordCmd.Flags().StringVar(&sessionStart, "start", "", "start time, YYYY-MM-DD HH:MM:SS UTC")
	sessionRecordCmd.Flags().StringVar(&sessionCategory, "category", "", "free-form category")
	sessionRecordCmd.Flags().StringVar(&sessionNotes, "notes", "", "notes")

	sessionListCmd.Flags().IntVar(&sessionLimit, "limit", 0, "maximum sessions to show (default 100)")
	sessionListCmd.Flags().BoolVar(&sessionJSON, "json", false, "output as JSON")

	sessionCmd.AddCommand(sessionRecordCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
}
