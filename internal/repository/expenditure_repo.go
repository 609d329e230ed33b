package repository

import (
	"context"

	"basetrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenditureRepository interface {
	Create(ctx context.Context, expenditure *model.Expenditure) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expenditure, error)
	FindByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) ([]model.Expenditure, error)
	ExpendedTotal(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) (int, error)
}

type expenditureRepository struct {
	db *gorm.DB
}

func NewExpenditureRepository(db *gorm.DB) ExpenditureRepository {
	return &expenditureRepository{db: db}
}

func (r *expenditureRepository) Create(ctx context.Context, expenditure *model.Expenditure) error {
	return GetDB(ctx, r.db).Create(expenditure).Error
}

func (r *expenditureRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expenditure, error) {
	var expenditure model.Expenditure
	if err := GetDB(ctx, r.db).First(&expenditure, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expenditure, nil
}

// FindByBase scopes expenditures through the referenced asset's base.
func (r *expenditureRepository) FindByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) ([]model.Expenditure, error) {
	var expenditures []model.Expenditure
	db := r.filtered(ctx, filters).Where("assets.base_id = ?", baseID)
	if err := db.Order("expenditures.expenditure_date desc").Find(&expenditures).Error; err != nil {
		return nil, err
	}
	return expenditures, nil
}

// ExpendedTotal sums expended quantities for the base within the filter
// window; zero when no rows match.
func (r *expenditureRepository) ExpendedTotal(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) (int, error) {
	var total int64
	db := r.filtered(ctx, filters).Where("assets.base_id = ?", baseID)
	if err := db.Select("COALESCE(SUM(expenditures.quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *expenditureRepository) filtered(ctx context.Context, filters model.LedgerFilters) *gorm.DB {
	db := GetDB(ctx, r.db).Model(&model.Expenditure{}).
		Joins("JOIN assets ON assets.id = expenditures.asset_id")
	if filters.Category != "" {
		db = db.Where("assets.category = ?", filters.Category)
	}
	if filters.StartDate != nil {
		db = db.Where("expenditures.expenditure_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		db = db.Where("expenditures.expenditure_date <= ?", *filters.EndDate)
	}
	return db
}
