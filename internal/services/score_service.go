package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sharpplay/backend/internal/anticheat"
	"github.com/sharpplay/backend/internal/apperr"
	"github.com/sharpplay/backend/internal/config"
	"github.com/sharpplay/backend/internal/eth"
	"github.com/sharpplay/backend/internal/events"
	"github.com/sharpplay/backend/internal/game"
	"github.com/sharpplay/backend/internal/models"
	"github.com/sharpplay/backend/internal/ratelimit"
	"github.com/sharpplay/backend/internal/repositories"
)

const (
	submitAction = "submit_score"
	// maxClockDrift is advisory: a drifted client timestamp is logged, not
	// rejected, since the server clock is authoritative anyway.
	maxClockDrift = time.Minute
)

// ScoreService is the submission coordinator: it re-validates, rate-limits,
// computes streak and reward, appends the ledger rows, ratchets the
// leaderboard and drives the optional on-chain payout.
type ScoreService struct {
	userRepo  *repositories.UserRepo
	scoreRepo *repositories.ScoreRepo
	lbRepo    *repositories.LeaderboardRepo
	txRepo    *repositories.TransactionRepo
	limiter   *ratelimit.Limiter
	rdb       *redis.Client
	transfer  eth.Transferer // nil when payouts are not configured
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
	now       func() time.Time
}

func NewScoreService(
	userRepo *repositories.UserRepo,
	scoreRepo *repositories.ScoreRepo,
	lbRepo *repositories.LeaderboardRepo,
	txRepo *repositories.TransactionRepo,
	limiter *ratelimit.Limiter,
	rdb *redis.Client,
	transfer eth.Transferer,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *ScoreService {
	return &ScoreService{
		userRepo:  userRepo,
		scoreRepo: scoreRepo,
		lbRepo:    lbRepo,
		txRepo:    txRepo,
		limiter:   limiter,
		rdb:       rdb,
		transfer:  transfer,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

type SubmitInput struct {
	Score        float64
	PlayDuration float64 // seconds
	Timestamp    int64   // client clock, epoch ms
	GameKind     game.Kind
	// Nonce is an optional client-generated idempotency key. A repeated
	// nonce inside the rate-limit window is rejected as a duplicate.
	Nonce string
	// AntiCheat is the client analyzer's advisory verdict, if supplied.
	AntiCheat *anticheat.Analysis
}

type SubmitResult struct {
	Reward       float64
	DailyStreak  int
	NewBestScore bool
	TxHash       *string
}

// Submit runs the full pipeline for one play submission. Side effects from
// the ledger append onward are committed immediately and are not rolled back
// by later failures; duplicate protection rests on the rate limiter and the
// optional nonce.
func (s *ScoreService) Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*SubmitResult, error) {
	if userID == uuid.Nil {
		return nil, apperr.New(apperr.Unauthenticated, "user must be authenticated")
	}

	if in.Score < 0 || in.Score > float64(s.cfg.MaxScore) {
		return nil, apperr.New(apperr.InvalidArgument, "invalid score value")
	}
	if in.PlayDuration < float64(s.cfg.MinPlayTimeSeconds) {
		return nil, apperr.Newf(apperr.FailedPrecondition,
			"game must be played for at least %d seconds", s.cfg.MinPlayTimeSeconds)
	}

	if res := game.ValidateScore(in.Score, in.GameKind, in.PlayDuration); !res.OK() {
		s.log.Warn("score validation failed",
			zap.String("user_id", userID.String()),
			zap.String("game_kind", string(in.GameKind)),
			zap.Strings("failed_checks", res.FailedChecks()),
		)
		return nil, apperr.New(apperr.InvalidArgument, "score failed validation")
	}

	now := s.now()
	if drift := now.Sub(time.UnixMilli(in.Timestamp)); drift.Abs() > maxClockDrift {
		s.log.Warn("client clock drift",
			zap.String("user_id", userID.String()),
			zap.Duration("drift", drift),
		)
	}

	if in.AntiCheat != nil && in.AntiCheat.Risk == anticheat.RiskHigh {
		// Advisory only: flagged, never blocked.
		s.log.Warn("high-risk anti-cheat verdict on submission",
			zap.String("user_id", userID.String()),
			zap.Strings("warnings", in.AntiCheat.Warnings),
			zap.Float64("confidence", in.AntiCheat.Confidence),
		)
	}

	// Rate limit and nonce guard run before any mutation, so a rejected
	// attempt leaves no trace in the ledger. The ledger count is the durable
	// backstop: it holds even if the redis window was flushed.
	appended, err := s.scoreRepo.CountByUserSince(ctx, userID, now.Add(-s.cfg.RateLimitWindow))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "submission count unavailable", err)
	}
	if appended >= int64(s.cfg.RateLimitMaxSubmits) {
		return nil, apperr.New(apperr.ResourceExhausted, "too many submissions, please wait before submitting again")
	}

	rl, err := s.limiter.Check(ctx, userID.String(), submitAction)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "rate limiter unavailable", err)
	}
	if !rl.Allowed {
		e := apperr.New(apperr.ResourceExhausted, "too many submissions, please wait before submitting again")
		e.WaitSeconds = rl.WaitSeconds
		return nil, e
	}

	if in.Nonce != "" {
		fresh, err := s.rdb.SetNX(ctx,
			fmt.Sprintf("nonce:%s:%s:%s", submitAction, userID, in.Nonce),
			1, s.cfg.RateLimitWindow).Result()
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "nonce check unavailable", err)
		}
		if !fresh {
			return nil, apperr.New(apperr.ResourceExhausted, "duplicate submission")
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "load user", err)
	}

	streak, _ := game.NextStreak(user.LastPlayedAt, now, user.DailyStreak)

	score := int(in.Score)
	hasBest := user.BestScore > 0
	reward := game.Reward(score, streak, user.BestScore, hasBest)
	newBest := game.IsNewBest(score, user.BestScore)

	if err := s.scoreRepo.Append(ctx, &models.GameScore{
		UserID:       userID,
		GameKind:     string(in.GameKind),
		Score:        score,
		PlayDuration: in.PlayDuration,
		RewardAmount: reward,
		Verified:     true,
	}); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "append score", err)
	}

	if err := s.userRepo.ApplyScoreResult(ctx, userID, streak, reward, score, now); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update user", err)
	}

	if err := s.lbRepo.Ratchet(ctx, userID, user.Username, score, user.TotalEarned+reward); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update leaderboard", err)
	}

	var txHash *string
	if user.WalletAddress != nil && eth.IsValidAddress(*user.WalletAddress) {
		txHash = s.payOut(ctx, user, reward)
	}

	if user.InvitedBy != nil {
		// Best-effort side channel: a failed referrer credit never fails
		// the submission.
		s.creditReferrer(ctx, *user.InvitedBy, reward)
	}

	s.publishEvents(ctx, user, score, reward, streak, newBest)

	return &SubmitResult{
		Reward:       reward,
		DailyStreak:  streak,
		NewBestScore: newBest,
		TxHash:       txHash,
	}, nil
}

// payOut records the transaction row and attempts the on-chain transfer. A
// transfer failure is recorded as failed and swallowed: the balance credit
// already committed and stays.
func (s *ScoreService) payOut(ctx context.Context, user *models.User, amount float64) *string {
	row := &models.Transaction{
		UserID:    user.ID,
		Amount:    amount,
		ToAddress: user.WalletAddress,
		Status:    models.TxStatusPending,
		Note:      models.TxNoteGameReward,
	}
	if err := s.txRepo.Create(ctx, row); err != nil {
		s.log.Error("failed to record payout transaction", zap.Error(err))
		return nil
	}

	if s.transfer == nil {
		// No web3 configuration: the row stays pending for later payout.
		return nil
	}

	receipt, err := s.transfer.Transfer(ctx, *user.WalletAddress, amount)
	switch {
	case errors.Is(err, eth.ErrNotConfirmed):
		// Sent but unconfirmed: keep pending with the hash, the reconciler
		// finishes the bookkeeping.
		if receipt != nil {
			if aerr := s.txRepo.AttachHash(ctx, row.ID, receipt.TxHash); aerr != nil {
				s.log.Error("failed to attach tx hash", zap.Error(aerr))
			}
			return &receipt.TxHash
		}
		return nil
	case err != nil:
		s.log.Error("token transfer failed",
			zap.String("user_id", user.ID.String()),
			zap.Float64("amount", amount),
			zap.Error(err),
		)
		if merr := s.txRepo.MarkFailed(ctx, row.ID, nil); merr != nil {
			s.log.Error("failed to mark transaction failed", zap.Error(merr))
		}
		return nil
	}

	if err := s.txRepo.MarkCompleted(ctx, row.ID, receipt.TxHash, receipt.BlockNumber); err != nil {
		s.log.Error("failed to mark transaction completed", zap.Error(err))
	}
	return &receipt.TxHash
}

func (s *ScoreService) creditReferrer(ctx context.Context, referralCode string, earned float64) {
	referrer, err := s.userRepo.GetByReferralCode(ctx, referralCode)
	if err != nil {
		s.log.Warn("referrer lookup failed", zap.String("code", referralCode), zap.Error(err))
		return
	}

	bonus := math.Round(earned*s.cfg.ReferralBonusRate*1e6) / 1e6
	if err := s.userRepo.CreditBalance(ctx, referrer.ID, bonus); err != nil {
		s.log.Warn("referral bonus credit failed", zap.String("referrer", referrer.ID.String()), zap.Error(err))
		return
	}

	if err := s.txRepo.Create(ctx, &models.Transaction{
		UserID: referrer.ID,
		Amount: bonus,
		Status: models.TxStatusCompleted,
		Note:   models.TxNoteReferralBonus,
	}); err != nil {
		s.log.Warn("referral bonus transaction record failed", zap.Error(err))
	}
}

func (s *ScoreService) publishEvents(ctx context.Context, user *models.User, score int, reward float64, streak int, newBest bool) {
	_ = s.publisher.Publish(ctx, events.StreamGame, events.Event{
		Type: events.EventRewardIssued,
		Payload: map[string]any{
			"user_id": user.ID.String(),
			"reward":  reward,
			"streak":  streak,
		},
	})
	if newBest {
		_ = s.publisher.Publish(ctx, events.StreamGame, events.Event{
			Type: events.EventLeaderboardUpdated,
			Payload: map[string]any{
				"user_id":    user.ID.String(),
				"username":   user.Username,
				"best_score": score,
			},
		})
	}
}

// RecentScores lists the user's latest accepted submissions, newest first.
func (s *ScoreService) RecentScores(ctx context.Context, userID uuid.UUID, limit int) ([]models.GameScore, error) {
	return s.scoreRepo.ListByUser(ctx, userID, limit)
}

// Stats returns the full user record plus the games-played count.
func (s *ScoreService) Stats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "load user", err)
	}

	played, err := s.scoreRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "count games", err)
	}

	return &models.UserStats{User: *user, GamesPlayed: played}, nil
}
