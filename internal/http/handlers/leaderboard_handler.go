package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sharpplay/backend/internal/apperr"
	"github.com/sharpplay/backend/internal/http/dto"
	"github.com/sharpplay/backend/internal/repositories"
	"github.com/sharpplay/backend/internal/services"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 200
)

type LeaderboardHandler struct {
	lbRepo            *repositories.LeaderboardRepo
	tournamentService *services.TournamentService
	log               *zap.Logger
}

func NewLeaderboardHandler(lbRepo *repositories.LeaderboardRepo, tournamentService *services.TournamentService, log *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{lbRepo: lbRepo, tournamentService: tournamentService, log: log}
}

// GetLeaderboard returns entries ordered by best score.
// GET /leaderboard?limit=N
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLeaderboardLimit)
	if limit < 1 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := h.lbRepo.Top(c.Context(), limit)
	if err != nil {
		h.log.Error("leaderboard query failed", zap.Error(err))
		return writeAppError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}

// ListTournaments returns past tournament settlements, most recent first.
// GET /tournaments
func (h *LeaderboardHandler) ListTournaments(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	tournaments, err := h.tournamentService.List(c.Context(), limit)
	if err != nil {
		h.log.Error("tournament query failed", zap.Error(err))
		return writeAppError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: tournaments})
}

// GetLatestTournament returns the most recently settled tournament.
// GET /tournaments/latest
func (h *LeaderboardHandler) GetLatestTournament(c *fiber.Ctx) error {
	t, err := h.tournamentService.Latest(c.Context())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return writeAppError(c, apperr.New(apperr.NotFound, "no tournament settled yet"))
		}
		h.log.Error("latest tournament query failed", zap.Error(err))
		return writeAppError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: t})
}
