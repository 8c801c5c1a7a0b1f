package repository

import (
	"context"
	"errors"

	"pollpay/internal/domain/vote"
	pollpay_errors "pollpay/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresVoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &PostgresVoteRepository{db: db}
}

func (r *PostgresVoteRepository) WithTx(tx *gorm.DB) VoteRepository {
	return &PostgresVoteRepository{db: tx}
}

func (r *PostgresVoteRepository) Create(ctx context.Context, v *vote.Vote) error {
	res := r.db.WithContext(ctx).Create(v)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return pollpay_errors.ErrDuplicateVote
		}
		return res.Error
	}
	return nil
}

func (r *PostgresVoteRepository) GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (vote.Vote, error) {
	var v vote.Vote
	err := r.db.WithContext(ctx).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return vote.Vote{}, pollpay_errors.ErrNotFound
		}
		return vote.Vote{}, err
	}
	return v, nil
}

func (r *PostgresVoteRepository) Exists(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&vote.Vote{}).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresVoteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]vote.Vote, error) {
	var votes []vote.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *PostgresVoteRepository) SetReward(ctx context.Context, pollID, userID uuid.UUID, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&vote.Vote{}).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Updates(map[string]interface{}{
			"reward_earned": amount,
			"reward_paid":   true,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pollpay_errors.ErrNotFound
	}
	return nil
}
