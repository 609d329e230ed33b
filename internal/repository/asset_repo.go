package repository

import (
	"context"
	"errors"

	"basetrack/internal/apperr"
	"basetrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned when a guarded decrement would push an
// asset's quantity below zero.
var ErrInsufficientStock = apperr.New(apperr.CodeInsufficientStock, "insufficient asset quantity")

type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	FindByBase(ctx context.Context, baseID uuid.UUID, filters model.AssetFilters) ([]model.Asset, error)
	FindAll(ctx context.Context, filters model.AssetFilters) ([]model.Asset, error)
	FindByBaseAndName(ctx context.Context, baseID uuid.UUID, name, category string) (*model.Asset, error)
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
	SumQuantityByBase(ctx context.Context, baseID uuid.UUID, category string) (int, error)
}

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *model.Asset) error {
	return GetDB(ctx, r.db).Create(asset).Error
}

func (r *assetRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	if err := GetDB(ctx, r.db).First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) FindByBase(ctx context.Context, baseID uuid.UUID, filters model.AssetFilters) ([]model.Asset, error) {
	var assets []model.Asset
	db := GetDB(ctx, r.db).Where("base_id = ?", baseID)
	db = applyAssetFilters(db, filters)
	if err := db.Order("created_at desc").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) FindAll(ctx context.Context, filters model.AssetFilters) ([]model.Asset, error) {
	var assets []model.Asset
	db := applyAssetFilters(GetDB(ctx, r.db), filters)
	if err := db.Order("created_at desc").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) FindByBaseAndName(ctx context.Context, baseID uuid.UUID, name, category string) (*model.Asset, error) {
	var asset model.Asset
	err := GetDB(ctx, r.db).
		Where("base_id = ? AND name = ? AND category = ?", baseID, name, category).
		First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	res := GetDB(ctx, r.db).Model(&model.Asset{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustQuantity applies delta to the asset's quantity as a single guarded
// update. The WHERE clause makes the sufficiency check and the write one
// atomic statement, so concurrent decrements cannot drive stock negative.
func (r *assetRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	res := GetDB(ctx, r.db).Model(&model.Asset{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing row from an insufficient one.
		var asset model.Asset
		if err := GetDB(ctx, r.db).First(&asset, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gorm.ErrRecordNotFound
			}
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *assetRepository) SumQuantityByBase(ctx context.Context, baseID uuid.UUID, category string) (int, error) {
	var total int64
	db := GetDB(ctx, r.db).Model(&model.Asset{}).Where("base_id = ?", baseID)
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if err := db.Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func applyAssetFilters(db *gorm.DB, filters model.AssetFilters) *gorm.DB {
	if filters.Category != "" {
		db = db.Where("category = ?", filters.Category)
	}
	if filters.Status != "" {
		db = db.Where("status = ?", filters.Status)
	}
	return db
}
