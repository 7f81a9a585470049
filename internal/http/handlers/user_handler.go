package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sharpplay/backend/internal/apperr"
	"github.com/sharpplay/backend/internal/eth"
	"github.com/sharpplay/backend/internal/http/dto"
	"github.com/sharpplay/backend/internal/middleware"
	"github.com/sharpplay/backend/internal/repositories"
	"github.com/sharpplay/backend/internal/services"
)

type UserHandler struct {
	userRepo     *repositories.UserRepo
	txRepo       *repositories.TransactionRepo
	scoreService *services.ScoreService
	log          *zap.Logger
}

func NewUserHandler(userRepo *repositories.UserRepo, txRepo *repositories.TransactionRepo, scoreService *services.ScoreService, log *zap.Logger) *UserHandler {
	return &UserHandler{userRepo: userRepo, txRepo: txRepo, scoreService: scoreService, log: log}
}

// GetMe returns the user record plus the games-played count.
// GET /me
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	stats, err := h.scoreService.Stats(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return writeAppError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}

// UpdateProfile edits the mutable profile fields. The wallet address must be
// exactly 0x plus 40 hex characters; anything else is rejected up front so a
// payout never targets a malformed address.
// PUT /me/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.WalletAddress != nil && !eth.IsValidAddress(*req.WalletAddress) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "wallet address must be 0x followed by 40 hex characters",
		})
	}
	if req.Username != nil && *req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "username cannot be empty"})
	}

	userID := middleware.GetUserID(c)
	if err := h.userRepo.UpdateProfile(c.Context(), userID, req.Username, req.WalletAddress, req.PhotoURL); err != nil {
		h.log.Error("profile update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}

// ListTransactions returns the user's reward/bonus/payout history.
// GET /me/transactions
func (h *UserHandler) ListTransactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	txs, err := h.txRepo.ListByUser(c.Context(), middleware.GetUserID(c), limit)
	if err != nil {
		h.log.Error("transaction list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: txs})
}

// GetReferrals reports the user's referral code, the activity of users it
// brought in, and the referral-bonus credits actually received.
// GET /me/referrals
func (h *UserHandler) GetReferrals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}

	referred, err := h.userRepo.ListReferred(c.Context(), user.ReferralCode)
	if err != nil {
		h.log.Error("referral list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	earnings, err := h.txRepo.SumReferralBonuses(c.Context(), userID)
	if err != nil {
		h.log.Error("referral earnings query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	stats := dto.ReferralStatsResponse{
		ReferralCode:     user.ReferralCode,
		TotalReferrals:   len(referred),
		ReferralEarnings: earnings,
	}
	activeCutoff := time.Now().AddDate(0, 0, -7)
	for _, r := range referred {
		if r.LastPlayedAt != nil && r.LastPlayedAt.After(activeCutoff) {
			stats.ActiveReferrals++
		}
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}

// ListScores returns the user's recent accepted submissions.
// GET /me/scores
func (h *UserHandler) ListScores(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	scores, err := h.scoreService.RecentScores(c.Context(), middleware.GetUserID(c), limit)
	if err != nil {
		h.log.Error("score list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: scores})
}

// writeAppError maps pipeline errors onto the fixed kind taxonomy.
func writeAppError(c *fiber.Ctx, err error) error {
	e := apperr.AsError(err)
	return c.Status(apperr.HTTPStatus(e.Kind)).JSON(dto.ErrorResponse{
		Error:       e.Message,
		Kind:        string(e.Kind),
		WaitSeconds: e.WaitSeconds,
		RequestID:   middleware.RequestID(c),
	})
}
