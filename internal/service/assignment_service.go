package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"basetrack/internal/apperr"
	"basetrack/internal/model"
	"basetrack/internal/policy"
	"basetrack/internal/repository"
	ws "basetrack/internal/websocket"

	"github.com/google/uuid"
)

type CreateAssignmentRequest struct {
	AssetID          string `json:"asset_id" binding:"required"`
	AssignedToUserID string `json:"assigned_to_user_id" binding:"required"`
	Quantity         int    `json:"quantity" binding:"required,gt=0"`
	AssignmentDate   string `json:"assignment_date"`
	ReturnDate       string `json:"return_date"`
	Notes            string `json:"notes"`
}

type AssignmentService interface {
	Create(ctx context.Context, actor policy.Actor, req CreateAssignmentRequest) (*model.Assignment, error)
	List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) ([]model.Assignment, error)
	UpdateStatus(ctx context.Context, actor policy.Actor, id, newStatus string) (*model.Assignment, error)
	AssignedTotal(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (int, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	assets      repository.AssetRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewAssignmentService(
	assignments repository.AssignmentRepository,
	assets repository.AssetRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		assets:      assets,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// Create reserves stock for the assignee: the asset quantity is decremented
// in the same transaction that appends the assignment row, so two concurrent
// assignments cannot both claim the last units.
func (s *assignmentService) Create(ctx context.Context, actor policy.Actor, req CreateAssignmentRequest) (*model.Assignment, error) {
	if err := policy.CanAssign(actor); err != nil {
		return nil, err
	}

	assetID, err := parseEntityID(req.AssetID, "asset")
	if err != nil {
		return nil, err
	}
	asset, err := s.assets.FindByID(ctx, assetID)
	if err != nil {
		return nil, notFoundOr(err, "asset")
	}
	if err := policy.AuthorizeBaseAccess(actor, asset.BaseID.String()); err != nil {
		return nil, err
	}

	assigneeID, err := uuid.Parse(req.AssignedToUserID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "assigned_to_user_id", Message: "must be a valid user id"})
	}

	assignmentDate := time.Now()
	if req.AssignmentDate != "" {
		if parsed, parseErr := time.Parse("2006-01-02", req.AssignmentDate); parseErr == nil {
			assignmentDate = parsed
		}
	}
	var returnDate *time.Time
	if req.ReturnDate != "" {
		if parsed, parseErr := time.Parse("2006-01-02", req.ReturnDate); parseErr == nil {
			returnDate = &parsed
		}
	}

	assignment := &model.Assignment{
		AssetID:          assetID,
		AssignedToUserID: assigneeID,
		AssignedBy:       actorUUID(actor),
		Quantity:         req.Quantity,
		AssignmentDate:   assignmentDate,
		ReturnDate:       returnDate,
		Status:           model.AssignmentStatusActive,
		Notes:            req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.assets.AdjustQuantity(txCtx, assetID, -req.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return apperr.New(apperr.CodeInsufficientStock, "insufficient asset quantity for assignment")
			}
			return notFoundOr(err, "asset")
		}
		if err := s.assignments.Create(txCtx, assignment); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]interface{}{
			"asset_id":            assetID.String(),
			"assigned_to_user_id": assigneeID.String(),
			"quantity":            req.Quantity,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     actorUUID(actor),
			Action:     model.ActionCreateAssignment,
			EntityID:   assignment.ID.String(),
			EntityName: asset.Name,
			Details:    string(details),
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(ws.EventAssignmentCreated, map[string]interface{}{
		"assignment_id": assignment.ID.String(),
		"asset_id":      assetID.String(),
		"base_id":       asset.BaseID.String(),
		"quantity":      req.Quantity,
	})

	return assignment, nil
}

func (s *assignmentService) List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) ([]model.Assignment, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "base id is required"})
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}
	return s.assignments.FindByBase(ctx, baseID, filters)
}

// UpdateStatus enforces the monotonic state machine: active assignments may
// be returned (stock restored) or completed (stock consumed), nothing else.
func (s *assignmentService) UpdateStatus(ctx context.Context, actor policy.Actor, id, newStatus string) (*model.Assignment, error) {
	if err := policy.CanAssign(actor); err != nil {
		return nil, err
	}

	assignmentID, err := parseEntityID(id, "assignment")
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, notFoundOr(err, "assignment")
	}

	asset, err := s.assets.FindByID(ctx, assignment.AssetID)
	if err != nil {
		return nil, notFoundOr(err, "asset")
	}
	if err := policy.AuthorizeBaseAccess(actor, asset.BaseID.String()); err != nil {
		return nil, err
	}

	if !model.ValidAssignmentTransition(assignment.Status, newStatus) {
		return nil, apperr.Newf(apperr.CodeInvalidTransition,
			"cannot transition assignment from %s to %s", assignment.Status, newStatus)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// The guarded status write goes first so a racing return loses
		// before the stock is restored a second time.
		if err := s.assignments.UpdateStatus(txCtx, assignmentID, assignment.Status, newStatus); err != nil {
			return notFoundOr(err, "assignment")
		}
		if newStatus == model.AssignmentStatusReturned {
			if err := s.assets.AdjustQuantity(txCtx, assignment.AssetID, assignment.Quantity); err != nil {
				return notFoundOr(err, "asset")
			}
		}
		details, _ := json.Marshal(map[string]interface{}{
			"previous_status": assignment.Status,
			"new_status":      newStatus,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:   actorUUID(actor),
			Action:   model.ActionAssignmentStatus,
			EntityID: assignment.ID.String(),
			Details:  string(details),
		})
	})
	if err != nil {
		return nil, err
	}

	assignment.Status = newStatus
	return assignment, nil
}

func (s *assignmentService) AssignedTotal(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (int, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		return 0, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "base id is required"})
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return 0, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}
	return s.assignments.ActiveAssignedTotal(ctx, baseID, filters)
}
