package game

import "time"

// NextStreak derives the daily streak for a play happening at now, given the
// previous play time. Dates are compared at calendar-day granularity in now's
// location; time of day is ignored.
//
// Returns the new streak and whether this is the first play of a new calendar
// day. A gap of two or more days resets to 1 without further penalty.
func NextStreak(lastPlayedAt *time.Time, now time.Time, currentStreak int) (int, bool) {
	if lastPlayedAt == nil {
		return 1, true
	}

	today := truncateToDay(now)
	lastDay := truncateToDay(lastPlayedAt.In(now.Location()))

	daysDiff := int(today.Sub(lastDay).Hours() / 24)
	switch {
	case daysDiff == 0:
		return currentStreak, false
	case daysDiff == 1:
		return currentStreak + 1, true
	default:
		return 1, true
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
