package events

import "context"

// Event types
const (
	EventLeaderboardUpdated = "leaderboard_updated"
	EventRewardIssued       = "reward_issued"
	EventTournamentSettled  = "tournament_settled"
)

// StreamGame carries all game-related events consumed by the WS hub.
const StreamGame = "events:game"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
