package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sharpplay/backend/internal/anticheat"
	"github.com/sharpplay/backend/internal/apperr"
	"github.com/sharpplay/backend/internal/game"
	"github.com/sharpplay/backend/internal/http/dto"
	"github.com/sharpplay/backend/internal/middleware"
	"github.com/sharpplay/backend/internal/services"
)

type ScoreHandler struct {
	scoreService *services.ScoreService
	log          *zap.Logger
}

func NewScoreHandler(scoreService *services.ScoreService, log *zap.Logger) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService, log: log}
}

// SubmitScore runs the validation/reward/ledger pipeline for one play.
// POST /scores
func (h *ScoreHandler) SubmitScore(c *fiber.Ctx) error {
	var req dto.SubmitScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return writeAppError(c, apperr.New(apperr.InvalidArgument, "invalid request body"))
	}

	if req.Score == nil || req.PlayDuration == nil || req.Timestamp == nil {
		return writeAppError(c, apperr.New(apperr.InvalidArgument, "missing required fields"))
	}

	in := services.SubmitInput{
		Score:        *req.Score,
		PlayDuration: *req.PlayDuration,
		Timestamp:    *req.Timestamp,
		GameKind:     game.Kind(req.GameKind),
		Nonce:        req.Nonce,
	}
	if req.AntiCheat != nil {
		in.AntiCheat = &anticheat.Analysis{
			Passed:     req.AntiCheat.Passed,
			Warnings:   req.AntiCheat.Warnings,
			Confidence: req.AntiCheat.Confidence,
			Risk:       anticheat.Risk(req.AntiCheat.Risk),
		}
	}

	result, err := h.scoreService.Submit(c.Context(), middleware.GetUserID(c), in)
	if err != nil {
		e := apperr.AsError(err)
		if e.Kind == apperr.Internal {
			h.log.Error("score submission failed", zap.Error(err))
		}
		return writeAppError(c, err)
	}

	return c.JSON(dto.SubmitScoreResponse{
		Success:      true,
		Reward:       result.Reward,
		DailyStreak:  result.DailyStreak,
		NewBestScore: result.NewBestScore,
		TxHash:       result.TxHash,
	})
}
