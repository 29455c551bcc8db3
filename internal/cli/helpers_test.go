package cli

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/swamp-dev/focusflow/internal/config"
	"github.com/swamp-dev/focusflow/internal/profile"
	"github.com/swamp-dev/focusflow/internal/store"
)

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		wantLen int // total length including brackets
	}{
		{"0 percent", 0.0, 20, 22},
		{"50 percent", 50.0, 20, 22},
		{"100 percent", 100.0, 20, 22},
		{"25 percent", 25.0, 40, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := renderProgressBar(tt.percent, tt.width)

			runes := []rune(result)
			if len(runes) != tt.wantLen {
				t.Errorf("renderProgressBar(%.0f, %d) rune length = %d, want %d", tt.percent, tt.width, len(runes), tt.wantLen)
			}

			if result[0] != '[' {
				t.Error("expected bar to start with '['")
			}
			if runes[len(runes)-1] != ']' {
				t.Error("expected bar to end with ']'")
			}
		})
	}

	barOver := renderProgressBar(150.0, 10)
	if strings.Contains(barOver, "░") {
		t.Error(">100% bar should be clamped to full (no empty blocks)")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"over length gets ellipsis", "hello world", 8, "hello..."},
		{"empty string", "", 10, ""},
		{"multibyte under limit", "Café réunion", 12, "Café réunion"},
		{"multibyte cut on rune", "Überprüfung der Ergebnisse", 10, "Überprü..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncate(tt.input, tt.max)
			if !utf8.ValidString(result) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8 %q", tt.input, tt.max, result)
			}
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, result, tt.expected)
			}
		})
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		minutes int64
		want    int
	}{
		{0, 0},
		{1, 1},
		{29, 1},
		{30, 2},
		{59, 2},
		{60, 3},
		{119, 3},
		{120, 4},
		{600, 4},
	}

	for _, tt := range tests {
		if got := intensity(tt.minutes); got != tt.want {
			t.Errorf("intensity(%d) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

func TestRenderHeatmapOneWeek(t *testing.T) {
	// 2024-03-09 is a Saturday, so seven days fill exactly one column.
	today := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	points := []store.HeatmapPoint{
		{Date: "2024-03-03", Value: 10},  // Sunday
		{Date: "2024-03-06", Value: 45},  // Wednesday
		{Date: "2024-03-09", Value: 300}, // Saturday
	}

	got := renderHeatmap(points, 7, today)
	want := "Sun ░\nMon ·\nTue ·\nWed ▒\nThu ·\nFri ·\nSat █\n"
	if got != want {
		t.Errorf("renderHeatmap() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderHeatmapBlanksBeforeWindow(t *testing.T) {
	// Wednesday: the window starts today, so Sunday to Tuesday are blank.
	today := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	got := renderHeatmap(nil, 1, today)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(lines))
	}
	if lines[0] != "Sun " {
		t.Errorf("expected blank Sunday row, got %q", lines[0])
	}
	if lines[3] != "Wed ·" {
		t.Errorf("expected empty cell for today, got %q", lines[3])
	}
	if lines[6] != "Sat " {
		t.Errorf("expected no cell after today, got %q", lines[6])
	}
}

func TestSessionBounds(t *testing.T) {
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	start, end, err := sessionBounds("", 25*time.Minute, now)
	if err != nil {
		t.Fatalf("sessionBounds() error = %v", err)
	}
	if start != "2024-03-07 11:35:00" || end != "2024-03-07 12:00:00" {
		t.Errorf("unexpected bounds %s → %s", start, end)
	}

	start, end, err = sessionBounds("2024-03-07 23:30:00", time.Hour, now)
	if err != nil {
		t.Fatalf("sessionBounds() error = %v", err)
	}
	if start != "2024-03-07 23:30:00" || end != "2024-03-08 00:30:00" {
		t.Errorf("unexpected bounds %s → %s", start, end)
	}

	if _, _, err := sessionBounds("yesterday", time.Hour, now); err == nil {
		t.Error("expected error for malformed start")
	}
}

func TestApplyOverrides(t *testing.T) {
	v := viper.New()
	v.Set("database.path", "/tmp/other.db")
	v.Set("profile.user_id", "u-42")

	c := config.DefaultConfig()
	applyOverrides(c, v)

	if c.Database.Path != "/tmp/other.db" {
		t.Errorf("expected database path override, got %s", c.Database.Path)
	}
	if c.Profile.UserID != "u-42" {
		t.Errorf("expected user override, got %s", c.Profile.UserID)
	}
	if c.Log.Level != "info" {
		t.Errorf("expected untouched log level, got %s", c.Log.Level)
	}
}

func TestApplyOverridesFromEnv(t *testing.T) {
	t.Setenv("FOCUSFLOW_PROFILE_USER_ID", "from-env")
	t.Setenv("FOCUSFLOW_LOG_LEVEL", "debug")

	v := viper.New()
	v.SetEnvPrefix("FOCUSFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := config.DefaultConfig()
	applyOverrides(c, v)

	if c.Profile.UserID != "from-env" {
		t.Errorf("expected user from env, got %q", c.Profile.UserID)
	}
	if c.Log.Level != "debug" {
		t.Errorf("expected log level from env, got %q", c.Log.Level)
	}
}

func TestResolveUser(t *testing.T) {
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if _, err := resolveUser(s, ""); err == nil {
		t.Error("expected error with no user selected")
	}

	u, err := s.CreateUser("Ada", nil)
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	if err := s.SetCurrentUser(u.ID); err != nil {
		t.Fatalf("setting current user: %v", err)
	}

	got, err := resolveUser(s, "")
	if err != nil {
		t.Fatalf("resolveUser() error = %v", err)
	}
	if got != u.ID {
		t.Errorf("expected stored current user %s, got %s", u.ID, got)
	}

	got, err = resolveUser(s, "explicit")
	if err != nil {
		t.Fatalf("resolveUser() error = %v", err)
	}
	if got != "explicit" {
		t.Errorf("expected explicit user to win, got %s", got)
	}
}

func TestTaskChangesOnlySetFlags(t *testing.T) {
	taskUpdateCmd.Flags().Set("title", "New title")
	taskUpdateCmd.Flags().Set("category", "Reminder")
	t.Cleanup(func() {
		for _, name := range []string{"title", "category"} {
			f := taskUpdateCmd.Flags().Lookup(name)
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})

	c, err := taskChanges(taskUpdateCmd)
	if err != nil {
		t.Fatalf("taskChanges() error = %v", err)
	}
	if c.Title == nil || *c.Title != "New title" {
		t.Errorf("expected title change, got %v", c.Title)
	}
	if c.Category == nil || *c.Category != store.CategoryReminder {
		t.Errorf("expected category change, got %v", c.Category)
	}
	if c.Date != nil || c.StartTime != nil || c.EndTime != nil || c.Completed != nil {
		t.Errorf("expected unset flags to stay nil, got %+v", c)
	}
}

func TestUnlockErr(t *testing.T) {
	var buf bytes.Buffer
	prev := logger
	logger = slog.New(slog.NewTextHandler(&buf, nil))
	t.Cleanup(func() { logger = prev })

	checkErr := fmt.Errorf("%w: disk full", profile.ErrAchievementCheck)
	if err := unlockErr(checkErr); err != nil {
		t.Errorf("expected achievement check failure to be downgraded, got %v", err)
	}
	if !strings.Contains(buf.String(), "achievement check failed") {
		t.Errorf("expected a warning to be logged, got %q", buf.String())
	}

	other := errors.New("write failed")
	if err := unlockErr(other); err != other {
		t.Errorf("expected other errors to pass through, got %v", err)
	}
	if err := unlockErr(nil); err != nil {
		t.Errorf("expected nil to stay nil, got %v", err)
	}
}
