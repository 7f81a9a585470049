package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := newTestClient(t)
	pub := NewRedisPublisher(rdb, zap.NewNop())
	sub := NewRedisSubscriber(rdb, zap.NewNop())

	received := make(chan Event, 1)
	if err := sub.Subscribe(ctx, StreamGame, func(e Event) { received <- e }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	// Subscribe waits for confirmation, so this publish cannot race the
	// subscription setup.
	err := pub.Publish(ctx, StreamGame, Event{
		Type:    EventRewardIssued,
		Payload: map[string]any{"user_id": "u1", "reward": 55.5},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case e := <-received:
		if e.Type != EventRewardIssued {
			t.Fatalf("event type = %q, want %q", e.Type, EventRewardIssued)
		}
		if e.Payload["user_id"] != "u1" {
			t.Fatalf("payload user_id = %v, want u1", e.Payload["user_id"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestSubscribeDropsUndecodablePayloads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := newTestClient(t)
	sub := NewRedisSubscriber(rdb, zap.NewNop())

	received := make(chan Event, 2)
	if err := sub.Subscribe(ctx, StreamGame, func(e Event) { received <- e }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := rdb.Publish(ctx, StreamGame, "{not json").Err(); err != nil {
		t.Fatalf("publish raw: %v", err)
	}
	pub := NewRedisPublisher(rdb, zap.NewNop())
	if err := pub.Publish(ctx, StreamGame, Event{Type: EventLeaderboardUpdated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// Only the well-formed event comes through.
	select {
	case e := <-received:
		if e.Type != EventLeaderboardUpdated {
			t.Fatalf("event type = %q, want %q", e.Type, EventLeaderboardUpdated)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}
