package repository

import (
	"context"

	"basetrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	FindByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) ([]model.Purchase, error)
	FindAll(ctx context.Context, filters model.LedgerFilters) ([]model.Purchase, error)
	TotalQuantityByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) (quantity int, value float64, err error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	return GetDB(ctx, r.db).Create(purchase).Error
}

func (r *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := GetDB(ctx, r.db).First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) FindByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) ([]model.Purchase, error) {
	var purchases []model.Purchase
	db := r.filtered(ctx, filters).Where("purchases.base_id = ?", baseID)
	if err := db.Order("purchases.purchase_date desc").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *purchaseRepository) FindAll(ctx context.Context, filters model.LedgerFilters) ([]model.Purchase, error) {
	var purchases []model.Purchase
	if err := r.filtered(ctx, filters).Order("purchases.purchase_date desc").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *purchaseRepository) TotalQuantityByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) (int, float64, error) {
	var result struct {
		Quantity int64
		Value    float64
	}
	db := r.filtered(ctx, filters).Where("purchases.base_id = ?", baseID)
	if err := db.
		Select("COALESCE(SUM(purchases.quantity), 0) as quantity, COALESCE(SUM(purchases.total_price), 0) as value").
		Scan(&result).Error; err != nil {
		return 0, 0, err
	}
	return int(result.Quantity), result.Value, nil
}

// filtered applies the shared ledger filter conjunction. Category filtering
// joins through the referenced asset.
func (r *purchaseRepository) filtered(ctx context.Context, filters model.LedgerFilters) *gorm.DB {
	db := GetDB(ctx, r.db).Model(&model.Purchase{})
	if filters.Category != "" {
		db = db.Joins("JOIN assets ON assets.id = purchases.asset_id").
			Where("assets.category = ?", filters.Category)
	}
	if filters.StartDate != nil {
		db = db.Where("purchases.purchase_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		db = db.Where("purchases.purchase_date <= ?", *filters.EndDate)
	}
	return db
}
