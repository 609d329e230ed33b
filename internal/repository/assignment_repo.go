package repository

import (
	"context"

	"basetrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
	FindByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) ([]model.Assignment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error
	ActiveAssignedTotal(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) (int, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	return GetDB(ctx, r.db).Create(assignment).Error
}

func (r *assignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := GetDB(ctx, r.db).First(&assignment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByBase scopes assignments through the referenced asset's base.
func (r *assignmentRepository) FindByBase(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) ([]model.Assignment, error) {
	var assignments []model.Assignment
	db := r.filtered(ctx, filters).Where("assets.base_id = ?", baseID)
	if err := db.Order("assignments.assignment_date desc").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// UpdateStatus transitions an assignment only when it is still in fromStatus,
// so two concurrent returns cannot both restore stock.
func (r *assignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error {
	res := GetDB(ctx, r.db).Model(&model.Assignment{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := GetDB(ctx, r.db).Model(&model.Assignment{}).
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

// ActiveAssignedTotal sums quantities of active assignments for the base
// within the filter window; zero when no rows match.
func (r *assignmentRepository) ActiveAssignedTotal(ctx context.Context, baseID uuid.UUID, filters model.LedgerFilters) (int, error) {
	var total int64
	db := r.filtered(ctx, filters).
		Where("assets.base_id = ?", baseID).
		Where("assignments.status = ?", model.AssignmentStatusActive)
	if err := db.Select("COALESCE(SUM(assignments.quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *assignmentRepository) filtered(ctx context.Context, filters model.LedgerFilters) *gorm.DB {
	db := GetDB(ctx, r.db).Model(&model.Assignment{}).
		Joins("JOIN assets ON assets.id = assignments.asset_id")
	if filters.Category != "" {
		db = db.Where("assets.category = ?", filters.Category)
	}
	if filters.Status != "" {
		db = db.Where("assignments.status = ?", filters.Status)
	}
	if filters.StartDate != nil {
		db = db.Where("assignments.assignment_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		db = db.Where("assignments.assignment_date <= ?", *filters.EndDate)
	}
	return db
}
