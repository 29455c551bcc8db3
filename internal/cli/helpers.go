package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/swamp-dev/focusflow/internal/profile"
	"github.com/swamp-dev/focusflow/internal/store"
)

// openStore opens the configured database, creating its directory.
func openStore() (*store.Store, error) {
	path := cfg.Database.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	s, err := store.Open(path, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}
	return s, nil
}

// resolveUser picks the user to act as: --user, FOCUSFLOW_PROFILE_USER_ID
// or profile.user_id first, then the stored current user.
func resolveUser(s *store.Store, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	id, err := s.CurrentUserID()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no user selected\nRun 'focusflow user create <name>' or pass --user")
	}
	return id, nil
}

// openProfile opens the store and binds a profile to the resolved user.
func openProfile() (*store.Store, *profile.Profile, error) {
	s, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	userID, err := resolveUser(s, cfg.Profile.UserID)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	logger.Debug("acting as user", "user", userID)
	return s, profile.New(s, userID), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUnlocks(earned []*store.Achievement) {
	for _, a := range earned {
		fmt.Printf("🏆 Achievement unlocked: %s (%s)\n", a.Type.DisplayName(), a.Type)
	}
}

// unlockErr turns a failed achievement check after a saved write into a
// warning. Any other error is returned unchanged.
func unlockErr(err error) error {
	if errors.Is(err, profile.ErrAchievementCheck) {
		logger.Warn("change saved but achievement check failed", "error", err)
		return nil
	}
	return err
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func renderProgressBar(percent float64, width int) string {
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + bar + "]"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func checkbox(done bool) string {
	if done {
		return "✓"
	}
	return "○"
}

// heatLevels maps intensity 0..4 to a cell.
var heatLevels = []rune{'·', '░', '▒', '▓', '█'}

// intensity buckets a day's focus minutes.
func intensity(minutes int64) int {
	switch {
	case minutes <= 0:
		return 0
	case minutes < 30:
		return 1
	case minutes < 60:
		return 2
	case minutes < 120:
		return 3
	default:
		return 4
	}
}

// renderHeatmap draws the trailing days ending today as a grid with one
// row per weekday and one column per week. Days before the window are
// blank.
func renderHeatmap(points []store.HeatmapPoint, days int, today time.Time) string {
	minutes := make(map[string]int64, len(points))
	for _, p := range points {
		minutes[p.Date] = p.Value
	}

	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	first := today.AddDate(0, 0, -(days - 1))
	start := first.AddDate(0, 0, -int(first.Weekday()))

	var rows [7][]rune
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if d.Before(first) {
			rows[wd] = append(rows[wd], ' ')
			continue
		}
		rows[wd] = append(rows[wd], heatLevels[intensity(minutes[d.Format(store.DateLayout)])])
	}

	var sb strings.Builder
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		sb.WriteString(wd.String()[:3])
		sb.WriteString(" ")
		sb.WriteString(strings.TrimRight(string(rows[wd]), " "))
		sb.WriteString("\n")
	}
	return sb.String()
}
