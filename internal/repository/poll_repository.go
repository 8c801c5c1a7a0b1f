package repository

import (
	"context"
	"errors"
	"time"

	"pollpay/internal/domain/poll"
	pollpay_errors "pollpay/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresPollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) PollRepository {
	return &PostgresPollRepository{db: db}
}

func (r *PostgresPollRepository) WithTx(tx *gorm.DB) PollRepository {
	return &PostgresPollRepository{db: tx}
}

func (r *PostgresPollRepository) Create(ctx context.Context, p *poll.Poll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PostgresPollRepository) GetByID(ctx context.Context, id uuid.UUID) (poll.Poll, error) {
	var p poll.Poll
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return poll.Poll{}, pollpay_errors.ErrNotFound
		}
		return poll.Poll{}, err
	}
	return p, nil
}

func (r *PostgresPollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&poll.Poll{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pollpay_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresPollRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]poll.Poll, error) {
	var polls []poll.Poll
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&polls).Error
	if err != nil {
		return nil, err
	}
	return polls, nil
}

// Discover returns the newest ACTIVE polls the user neither created nor
// already voted on.
func (r *PostgresPollRepository) Discover(ctx context.Context, userID uuid.UUID, limit int) ([]poll.Poll, error) {
	var polls []poll.Poll
	voted := r.db.Table("votes").Select("poll_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).
		Where("status = ? AND creator_id != ? AND id NOT IN (?)", poll.StatusActive, userID, voted).
		Order("created_at DESC").
		Limit(limit).
		Find(&polls).Error
	if err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *PostgresPollRepository) MarkPaid(ctx context.Context, id uuid.UUID, fee, rewardPool, rewardPerVoter decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&poll.Poll{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_paid":          true,
			"poll_fee":         fee,
			"reward_pool":      rewardPool,
			"reward_per_voter": rewardPerVoter,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pollpay_errors.ErrNotFound
	}
	return nil
}

// Close is guarded on the current status so the ACTIVE -> CLOSED transition
// happens exactly once no matter how many callers race on it.
func (r *PostgresPollRepository) Close(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&poll.Poll{}).
		Where("id = ? AND status = ?", id, poll.StatusActive).
		Updates(map[string]interface{}{
			"status":     poll.StatusClosed,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AdmitVote is the single serialization point for vote counting: the
// capacity and status checks ride in the WHERE clause of the increment, so
// concurrent votes on the same poll cannot push the total past max_votes.
func (r *PostgresPollRepository) AdmitVote(ctx context.Context, id uuid.UUID, selectedOption string) (bool, error) {
	column := "votes_count_a"
	if selectedOption == "B" {
		column = "votes_count_b"
	}
	res := r.db.WithContext(ctx).
		Model(&poll.Poll{}).
		Where("id = ? AND status = ? AND votes_count_a + votes_count_b < max_votes", id, poll.StatusActive).
		Updates(map[string]interface{}{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DebitRewardPool mirrors AdmitVote for the reward budget: the pool check is
// part of the UPDATE so it can never go negative.
func (r *PostgresPollRepository) DebitRewardPool(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&poll.Poll{}).
		Where("id = ? AND is_paid AND reward_pool >= ?", id, amount).
		Updates(map[string]interface{}{
			"reward_pool": gorm.Expr("reward_pool - ?", amount),
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
