package dto

type RegisterRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Username     string  `json:"username"`
	ReferralCode *string `json:"referral_code,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Username      *string `json:"username,omitempty"`
	WalletAddress *string `json:"wallet_address,omitempty"`
	PhotoURL      *string `json:"photo_url,omitempty"`
}

// AntiCheatSummary is the client analyzer's advisory verdict attached to a
// submission.
type AntiCheatSummary struct {
	Passed     bool     `json:"passed"`
	Warnings   []string `json:"warnings,omitempty"`
	Confidence float64  `json:"confidence"`
	Risk       string   `json:"risk"`
}

// SubmitScoreRequest uses pointers for the required numeric fields so that a
// missing field is distinguishable from a legitimate zero.
type SubmitScoreRequest struct {
	Score        *float64          `json:"score"`
	PlayDuration *float64          `json:"play_duration"` // seconds
	Timestamp    *int64            `json:"timestamp"`     // epoch ms
	GameKind     string            `json:"game_kind,omitempty"`
	Nonce        string            `json:"nonce,omitempty"`
	AntiCheat    *AntiCheatSummary `json:"anti_cheat,omitempty"`
}
