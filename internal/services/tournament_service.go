package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sharpplay/backend/internal/config"
	"github.com/sharpplay/backend/internal/events"
	"github.com/sharpplay/backend/internal/models"
	"github.com/sharpplay/backend/internal/repositories"
)

// TournamentService settles the weekly tournament: it pays the prize table
// to the top of the leaderboard and writes one summary row per period.
type TournamentService struct {
	lbRepo         *repositories.LeaderboardRepo
	userRepo       *repositories.UserRepo
	txRepo         *repositories.TransactionRepo
	tournamentRepo *repositories.TournamentRepo
	publisher      events.Publisher
	cfg            *config.Config
	log            *zap.Logger
}

func NewTournamentService(
	lbRepo *repositories.LeaderboardRepo,
	userRepo *repositories.UserRepo,
	txRepo *repositories.TransactionRepo,
	tournamentRepo *repositories.TournamentRepo,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *TournamentService {
	return &TournamentService{
		lbRepo:         lbRepo,
		userRepo:       userRepo,
		txRepo:         txRepo,
		tournamentRepo: tournamentRepo,
		publisher:      publisher,
		cfg:            cfg,
		log:            log,
	}
}

// PeriodStart returns the start of the weekly period containing t: the most
// recent Sunday midnight in UTC.
func PeriodStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Settle processes the period that ends at now. The tournaments row is the
// idempotency marker: it is written first, so a re-run for the same period
// stops before paying anyone twice.
func (s *TournamentService) Settle(ctx context.Context, now time.Time) error {
	periodEnd := PeriodStart(now)
	periodStart := periodEnd.AddDate(0, 0, -7)

	processed, err := s.tournamentRepo.PeriodProcessed(ctx, periodStart)
	if err != nil {
		return fmt.Errorf("check period: %w", err)
	}
	if processed {
		s.log.Info("tournament period already settled", zap.Time("period_start", periodStart))
		return nil
	}

	top, err := s.lbRepo.Top(ctx, len(s.cfg.TournamentPrizes))
	if err != nil {
		return fmt.Errorf("load leaderboard: %w", err)
	}
	if len(top) == 0 {
		s.log.Info("no players to reward, skipping tournament settlement")
		return nil
	}

	var prizePool float64
	for _, p := range s.cfg.TournamentPrizes {
		prizePool += p
	}

	// Claim the period before paying. If a concurrent run claimed it first
	// the unique constraint stops this one cold.
	summary := &models.Tournament{
		Name:         "Weekly Tournament",
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		PrizePool:    prizePool,
		Winner:       top[0].Username,
		Participants: len(top),
	}
	if err := s.tournamentRepo.Create(ctx, summary); err != nil {
		if errors.Is(err, repositories.ErrPeriodProcessed) {
			s.log.Info("tournament period claimed by another run", zap.Time("period_start", periodStart))
			return nil
		}
		return fmt.Errorf("record tournament: %w", err)
	}

	for rank, entry := range top {
		prize := s.cfg.TournamentPrizes[rank]
		if prize <= 0 {
			continue
		}

		if err := s.userRepo.CreditBalance(ctx, entry.UserID, prize); err != nil {
			s.log.Error("prize credit failed",
				zap.String("user_id", entry.UserID.String()),
				zap.Int("rank", rank+1),
				zap.Error(err),
			)
			continue
		}

		if err := s.txRepo.Create(ctx, &models.Transaction{
			UserID: entry.UserID,
			Amount: prize,
			Status: models.TxStatusCompleted,
			Note:   fmt.Sprintf("Tournament reward - Rank #%d", rank+1),
		}); err != nil {
			s.log.Error("prize transaction record failed", zap.Error(err))
		}
	}

	_ = s.publisher.Publish(ctx, events.StreamGame, events.Event{
		Type: events.EventTournamentSettled,
		Payload: map[string]any{
			"period_start": periodStart.Format(time.RFC3339),
			"winner":       summary.Winner,
			"prize_pool":   prizePool,
			"participants": summary.Participants,
		},
	})

	s.log.Info("tournament settled",
		zap.Time("period_start", periodStart),
		zap.String("winner", summary.Winner),
		zap.Int("participants", summary.Participants),
	)
	return nil
}

func (s *TournamentService) List(ctx context.Context, limit int) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, limit)
}

// Latest returns the most recently settled tournament.
func (s *TournamentService) Latest(ctx context.Context) (*models.Tournament, error) {
	return s.tournamentRepo.Latest(ctx)
}
