package repository

import (
	"context"
	"errors"

	"deposit-service/models"

	"gorm.io/gorm"
)

// ErrDepositNotFound is returned when no deposit exists for the given id.
var ErrDepositNotFound = errors.New("deposit not found")

// DepositRepository defines persistence operations for deposits.
type DepositRepository interface {
	// Create inserts a fresh pending deposit and fills in its generated ID.
	Create(ctx context.Context, deposit *models.Deposit) error

	// FindByID fetches a deposit by primary key.
	FindByID(ctx context.Context, id uint) (*models.Deposit, error)

	// Finalize applies the terminal transition as a single conditional
	// update keyed on id and the pending status. It returns false when no
	// row matched, which covers both unknown ids and rows already in a
	// terminal state; duplicate callbacks therefore cannot overwrite a
	// settled deposit.
	Finalize(ctx context.Context, id uint, status models.DepositStatus, transactionID *string) (bool, error)
}

type gormDepositRepo struct {
	db *gorm.DB
}

// NewGormDepositRepository creates a DepositRepository backed by GORM.
func NewGormDepositRepository(db *gorm.DB) DepositRepository {
	return &gormDepositRepo{db: db}
}

func (r *gormDepositRepo) Create(ctx context.Context, deposit *models.Deposit) error {
	deposit.Status = models.DepositStatusPending
	return r.db.WithContext(ctx).Create(deposit).Error
}

func (r *gormDepositRepo) FindByID(ctx context.Context, id uint) (*models.Deposit, error) {
	var deposit models.Deposit
	if err := r.db.WithContext(ctx).First(&deposit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

func (r *gormDepositRepo) Finalize(ctx context.Context, id uint, status models.DepositStatus, transactionID *string) (bool, error) {
	updates := map[string]interface{}{"status": status}
	if transactionID != nil {
		updates["transaction_id"] = *transactionID
	}

	res := r.db.WithContext(ctx).
		Model(&models.Deposit{}).
		Where("id = ? AND status = ?", id, models.DepositStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
