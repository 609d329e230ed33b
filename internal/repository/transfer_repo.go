package repository

import (
	"context"

	"basetrack/internal/apperr"
	"basetrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStatusConflict is returned when a guarded status update finds the row
// no longer in the expected status, meaning another request transitioned it
// first.
var ErrStatusConflict = apperr.New(apperr.CodeInvalidTransition, "record was updated by another request")

type TransferRepository interface {
	Create(ctx context.Context, transfer *model.Transfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transfer, error)
	FindByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) ([]model.Transfer, error)
	FindAll(ctx context.Context, filters model.LedgerFilters) ([]model.Transfer, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, approvedBy *uuid.UUID) error
	Stats(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) (model.TransferStats, error)
}

type transferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Create(ctx context.Context, transfer *model.Transfer) error {
	return GetDB(ctx, r.db).Create(transfer).Error
}

func (r *transferRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transfer, error) {
	var transfer model.Transfer
	if err := GetDB(ctx, r.db).First(&transfer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transfer, nil
}

// FindByBase returns transfers where the base is either side: a base sees
// both its inbound and outbound transfer activity.
func (r *transferRepository) FindByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) ([]model.Transfer, error) {
	var transfers []model.Transfer
	db := r.filtered(ctx, filters).
		Where("transfers.from_base_id = ? OR transfers.to_base_id = ?", baseID, baseID)
	if err := db.Order("transfers.transfer_date desc").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

func (r *transferRepository) FindAll(ctx context.Context, filters model.LedgerFilters) ([]model.Transfer, error) {
	var transfers []model.Transfer
	if err := r.filtered(ctx, filters).Order("transfers.transfer_date desc").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// UpdateStatus transitions a transfer only when it is still in fromStatus.
// The status predicate keeps concurrent approvals honest: whichever request
// commits first wins, the other sees ErrStatusConflict instead of applying
// the transition twice.
func (r *transferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, approvedBy *uuid.UUID) error {
	res := GetDB(ctx, r.db).Model(&model.Transfer{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{"status": toStatus, "approved_by": approvedBy})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := GetDB(ctx, r.db).Model(&model.Transfer{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// Stats sums quantities of completed transfers into and out of the base
// within the filter window.
func (r *transferRepository) Stats(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) (model.TransferStats, error) {
	var result struct {
		TransfersIn  int64
		TransfersOut int64
	}
	db := r.filtered(ctx, filters).Where("transfers.status = ?", model.TransferStatusCompleted)
	err := db.Select(
		"COALESCE(SUM(CASE WHEN transfers.to_base_id = ? THEN transfers.quantity ELSE 0 END), 0) as transfers_in, "+
			"COALESCE(SUM(CASE WHEN transfers.from_base_id = ? THEN transfers.quantity ELSE 0 END), 0) as transfers_out",
		baseID, baseID).
		Where("transfers.from_base_id = ? OR transfers.to_base_id = ?", baseID, baseID).
		Scan(&result).Error
	if err != nil {
		return model.TransferStats{}, err
	}
	return model.TransferStats{TransfersIn: int(result.TransfersIn), TransfersOut: int(result.TransfersOut)}, nil
}

func (r *transferRepository) filtered(ctx context.Context, filters model.LedgerFilters) *gorm.DB {
	db := GetDB(ctx, r.db).Model(&model.Transfer{})
	if filters.Category != "" {
		db = db.Joins("JOIN assets ON assets.id = transfers.asset_id").
			Where("assets.category = ?", filters.Category)
	}
	if filters.Status != "" {
		db = db.Where("transfers.status = ?", filters.Status)
	}
	if filters.StartDate != nil {
		db = db.Where("transfers.transfer_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		db = db.Where("transfers.transfer_date <= ?", *filters.EndDate)
	}
	return db
}
