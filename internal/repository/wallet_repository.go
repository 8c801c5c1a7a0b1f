package repository

import (
	"context"

	"pollpay/internal/domain/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresWalletTransactionRepository struct {
	db *gorm.DB
}

func NewWalletTransactionRepository(db *gorm.DB) WalletTransactionRepository {
	return &PostgresWalletTransactionRepository{db: db}
}

func (r *PostgresWalletTransactionRepository) WithTx(tx *gorm.DB) WalletTransactionRepository {
	return &PostgresWalletTransactionRepository{db: tx}
}

func (r *PostgresWalletTransactionRepository) Create(ctx context.Context, t *wallet.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PostgresWalletTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]wallet.Transaction, error) {
	var txns []wallet.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *PostgresWalletTransactionRepository) SumAmounts(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&wallet.Transaction{}).
		Select("SUM(amount)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
