package achievement

// Stats is the snapshot of a user's activity that rules are evaluated against.
type Stats struct {
	TotalFocusSeconds int64
	TotalSessions     int64
	MaxSessionSeconds int64
	CurrentStreak     int
	TasksCompleted    int64
}

// Rule unlocks Type once Met holds.
type Rule struct {
	Type Type
	Met  func(Stats) bool
}

// Rules is the fixed rule table. EarlyBird and NightOwl have no rule and
// can only be unlocked directly.
var Rules = []Rule{
	{FirstSession, func(s Stats) bool { return s.TotalSessions >= 1 }},
	{HourMaster, func(s Stats) bool { return s.MaxSessionSeconds >= 3600 }},
	{StreakWeek, func(s Stats) bool { return s.CurrentStreak >= 7 }},
	{StreakMonth, func(s Stats) bool { return s.CurrentStreak >= 30 }},
	{TotalHours10, func(s Stats) bool { return s.TotalFocusSeconds >= 36000 }},
	{TotalHours50, func(s Stats) bool { return s.TotalFocusSeconds >= 180000 }},
	{TotalHours100, func(s Stats) bool { return s.TotalFocusSeconds >= 360000 }},
	{TaskMaster, func(s Stats) bool { return s.TasksCompleted >= 50 }},
}

// Evaluate returns, in rule order, the types whose condition holds for s
// and which are not already in unlocked.
func Evaluate(s Stats, unlocked map[Type]bool) []Type {
	var earned []Type
	for _, r := range Rules {
		if unlocked[r.Type] || !r.Met(s) {
			continue
		}
		earned = append(earned, r.Type)
	}
	return earned
}
