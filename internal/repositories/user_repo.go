package repositories

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharpplay/backend/internal/models"
)

var ErrNotFound = errors.New("not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, username, photo_url, wallet_address, best_score, daily_streak,
	tokens_balance, total_earned, last_played_at, referral_code, invited_by, created_at, password_hash`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PhotoURL, &u.WalletAddress, &u.BestScore, &u.DailyStreak,
		&u.TokensBalance, &u.TotalEarned, &u.LastPlayedAt, &u.ReferralCode, &u.InvitedBy, &u.CreatedAt, &u.PasswordHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user with a freshly generated referral code. The
// referral code and invited-by binding are immutable afterwards.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, username string, invitedBy *string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, username, referral_code, invited_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		email, passwordHash, username, GenerateReferralCode(), invitedBy))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepo) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code))
}

// ApplyScoreResult performs the single atomic read-modify-write for an
// accepted submission: advances last_played_at, sets the streak, credits the
// reward into balance and total earned, and ratchets best_score upward.
func (r *UserRepo) ApplyScoreResult(ctx context.Context, id uuid.UUID, streak int, reward float64, score int, playedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET
			last_played_at = $2,
			daily_streak = $3,
			tokens_balance = tokens_balance + $4,
			total_earned = total_earned + $4,
			best_score = GREATEST(best_score, $5)
		WHERE id = $1
	`, id, playedAt, streak, reward, score)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreditBalance adds amount to balance and total earned. Used for referral
// bonuses and tournament prizes; amounts are always positive.
func (r *UserRepo) CreditBalance(ctx context.Context, id uuid.UUID, amount float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET
			tokens_balance = tokens_balance + $2,
			total_earned = total_earned + $2
		WHERE id = $1
	`, id, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile changes the mutable profile fields. Nil fields are left as-is.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, username, walletAddress, photoURL *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET
			username = COALESCE($2, username),
			wallet_address = COALESCE($3, wallet_address),
			photo_url = COALESCE($4, photo_url)
		WHERE id = $1
	`, id, username, walletAddress, photoURL)
	return err
}

// ListReferred returns the users whose invited_by matches the given referral
// code.
func (r *UserRepo) ListReferred(ctx context.Context, referralCode string) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE invited_by = $1`, referralCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode produces an 8-character code from an alphabet without
// lookalike characters.
func GenerateReferralCode() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = referralAlphabet[int(b[i])%len(referralAlphabet)]
	}
	return string(b)
}
