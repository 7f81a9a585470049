// Package ratelimit implements the per-user sliding-window limiter guarding
// score submissions. The window lives in a redis sorted set keyed by
// user+action, with members pruned as they age out.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// Result of a limiter check. WaitSeconds is only meaningful when Allowed is
// false: it is the time until the oldest attempt falls out of the window.
type Result struct {
	Allowed           bool
	RemainingAttempts int
	WaitSeconds       int
}

func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window, now: time.Now}
}

// Check counts attempts for user+action inside the trailing window and, when
// under the limit, records this attempt. Rejected attempts are not recorded,
// so a rejection leaves no trace and the caller can retry after the hint.
func (l *Limiter) Check(ctx context.Context, userID, action string) (Result, error) {
	key := fmt.Sprintf("rl:%s:%s", action, userID)
	now := l.now()
	cutoff := now.Add(-l.window)

	if err := l.rdb.ZRemRangeByScore(ctx, key,
		"-inf", strconv.FormatInt(cutoff.UnixMilli(), 10)).Err(); err != nil {
		return Result{}, err
	}

	attempts, err := l.rdb.ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		return Result{}, err
	}

	if len(attempts) >= l.limit {
		oldest := time.UnixMilli(int64(attempts[0].Score))
		return Result{
			Allowed:     false,
			WaitSeconds: waitSeconds(oldest, now, l.window),
		}, nil
	}

	member := redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: fmt.Sprintf("%d-%d", now.UnixNano(), len(attempts)),
	}
	if err := l.rdb.ZAdd(ctx, key, member).Err(); err != nil {
		return Result{}, err
	}
	l.rdb.Expire(ctx, key, l.window)

	return Result{
		Allowed:           true,
		RemainingAttempts: l.limit - len(attempts) - 1,
	}, nil
}

// Reset clears the window for user+action.
func (l *Limiter) Reset(ctx context.Context, userID, action string) error {
	return l.rdb.Del(ctx, fmt.Sprintf("rl:%s:%s", action, userID)).Err()
}

// waitSeconds computes the retry hint: seconds until the oldest recorded
// attempt leaves the window, rounded up and never below 1.
func waitSeconds(oldest, now time.Time, window time.Duration) int {
	remaining := window - now.Sub(oldest)
	secs := int(math.Ceil(remaining.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
