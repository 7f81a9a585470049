package dto

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	// WaitSeconds is a retry hint on rate-limit rejections.
	WaitSeconds int    `json:"wait_seconds,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type SubmitScoreResponse struct {
	Success      bool    `json:"success"`
	Reward       float64 `json:"reward"`
	DailyStreak  int     `json:"daily_streak"`
	NewBestScore bool    `json:"new_best_score"`
	TxHash       *string `json:"tx_hash"`
}

type ReferralStatsResponse struct {
	ReferralCode     string  `json:"referral_code"`
	TotalReferrals   int     `json:"total_referrals"`
	ActiveReferrals  int     `json:"active_referrals"`
	ReferralEarnings float64 `json:"referral_earnings"`
}
