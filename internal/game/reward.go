package game

// Reward configuration. Values match the SHARP token economy.
const (
	RewardFloor       = 0.1
	StreakBonusPerDay = 0.5
	StreakBonusCapDay = 10

	newBestBonus       = 2
	milestone100Bonus  = 1
	milestone500Bonus  = 2
	milestone1000Bonus = 5
)

// Reward computes the token amount for an accepted submission.
//
//	amount = score/10 + streakBonus + achievementBonus
//
// The milestone bonuses are cumulative, and the result never drops below the
// floor even for a zero score. Pure: callers persist the result exactly once.
func Reward(score int, dailyStreak int, bestScore int, hasBestScore bool) float64 {
	baseReward := float64(score) / 10

	streakDays := dailyStreak
	if streakDays > StreakBonusCapDay {
		streakDays = StreakBonusCapDay
	}
	streakBonus := float64(streakDays) * StreakBonusPerDay

	var achievementBonus float64
	if !hasBestScore || score > bestScore {
		achievementBonus += newBestBonus
	}
	if score >= 1000 {
		achievementBonus += milestone1000Bonus
	}
	if score >= 500 {
		achievementBonus += milestone500Bonus
	}
	if score >= 100 {
		achievementBonus += milestone100Bonus
	}

	total := baseReward + streakBonus + achievementBonus
	if total < RewardFloor {
		return RewardFloor
	}
	return total
}

// IsNewBest reports whether score beats the stored personal best. An absent
// best counts as zero, so a first play scoring zero does not set a best.
func IsNewBest(score, bestScore int) bool {
	return score > bestScore
}
