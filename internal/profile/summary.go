package profile

import (
	"fmt"
	"strings"

	"github.com/swamp-dev/focusflow/internal/store"
)

// Summary returns a one-line activity summary.
func (p *Profile) Summary() (string, error) {
	st, err := p.Stats()
	if err != nil {
		return "", err
	}
	infos, err := p.Achievements()
	if err != nil {
		return "", err
	}
	unlocked := 0
	for _, info := range infos {
		if info.Unlocked {
			unlocked++
		}
	}

	return fmt.Sprintf(
		"Sessions: %d | Focus: %s | Streak: %d (best %d) | Tasks done: %d | Achievements: %d/%d",
		st.TotalSessions, FormatDuration(st.TotalFocusTime),
		st.CurrentStreak, st.LongestStreak, st.TasksCompleted,
		unlocked, len(infos),
	), nil
}

// FormatDuration renders seconds as "1h 05m", "12m" or "40s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// RenderAchievement formats one catalog entry as markdown.
func RenderAchievement(info store.AchievementInfo) string {
	var sb strings.Builder

	mark := " "
	if info.Unlocked {
		mark = "x"
	}
	sb.WriteString(fmt.Sprintf("- [%s] **%s** (%s): %s", mark, info.Name, info.Type, info.Description))
	if info.UnlockedAt != nil {
		sb.WriteString(fmt.Sprintf(" _unlocked %s_", *info.UnlockedAt))
	}
	sb.WriteString("\n")

	return sb.String()
}

// ExportMarkdown renders the user's stats and achievements as markdown.
func (p *Profile) ExportMarkdown() (string, error) {
	u, err := p.User()
	if err != nil {
		return "", err
	}
	st, err := p.Stats()
	if err != nil {
		return "", err
	}
	infos, err := p.Achievements()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", u.Name))
	sb.WriteString(fmt.Sprintf("Joined %s\n\n", u.JoinDate))
	sb.WriteString("## Stats\n\n")
	sb.WriteString(fmt.Sprintf("- Focus time: %s\n", FormatDuration(st.TotalFocusTime)))
	sb.WriteString(fmt.Sprintf("- Sessions: %d\n", st.TotalSessions))
	sb.WriteString(fmt.Sprintf("- Current streak: %d\n", st.CurrentStreak))
	sb.WriteString(fmt.Sprintf("- Longest streak: %d\n", st.LongestStreak))
	sb.WriteString(fmt.Sprintf("- Tasks completed: %d\n", st.TasksCompleted))
	sb.WriteString("\n## Achievements\n\n")
	for _, info := range infos {
		sb.WriteString(RenderAchievement(info))
	}
	return sb.String(), nil
}
