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

type CreateExpenditureRequest struct {
	AssetID         string `json:"asset_id" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required,gt=0"`
	ExpenditureDate string `json:"expenditure_date"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
}

type ExpenditureService interface {
	Create(ctx context.Context, actor policy.Actor, req CreateExpenditureRequest) (*model.Expenditure, error)
	List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) ([]model.Expenditure, error)
	ExpendedTotal(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (int, error)
}

type expenditureService struct {
	expenditures repository.ExpenditureRepository
	assets       repository.AssetRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewExpenditureService(
	expenditures repository.ExpenditureRepository,
	assets repository.AssetRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) ExpenditureService {
	return &expenditureService{
		expenditures: expenditures,
		assets:       assets,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// Create appends an expenditure row and decrements the asset's stock in one
// transaction. The guarded decrement is the sufficiency check; the whole
// operation fails if stock would go negative.
func (s *expenditureService) Create(ctx context.Context, actor policy.Actor, req CreateExpenditureRequest) (*model.Expenditure, error) {
	if err := policy.CanRecordExpenditure(actor); err != nil {
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

	expenditureDate := time.Now()
	if req.ExpenditureDate != "" {
		if parsed, parseErr := time.Parse("2006-01-02", req.ExpenditureDate); parseErr == nil {
			expenditureDate = parsed
		}
	}

	expenditure := &model.Expenditure{
		AssetID:         assetID,
		Quantity:        req.Quantity,
		ExpenditureDate: expenditureDate,
		Reason:          req.Reason,
		RecordedBy:      actorUUID(actor),
		Notes:           req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.assets.AdjustQuantity(txCtx, assetID, -req.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return apperr.New(apperr.CodeInsufficientStock, "insufficient asset quantity for expenditure")
			}
			return notFoundOr(err, "asset")
		}
		if err := s.expenditures.Create(txCtx, expenditure); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]interface{}{
			"asset_id": assetID.String(),
			"quantity": req.Quantity,
			"reason":   req.Reason,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     actorUUID(actor),
			Action:     model.ActionRecordExpenditure,
			EntityID:   expenditure.ID.String(),
			EntityName: asset.Name,
			Details:    string(details),
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(ws.EventExpenditureRecorded, map[string]interface{}{
		"expenditure_id": expenditure.ID.String(),
		"asset_id":       assetID.String(),
		"base_id":        asset.BaseID.String(),
		"quantity":       req.Quantity,
	})

	return expenditure, nil
}

func (s *expenditureService) List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) ([]model.Expenditure, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "base id is required"})
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}
	return s.expenditures.FindByBase(ctx, baseID, filters)
}

func (s *expenditureService) ExpendedTotal(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (int, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		return 0, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "base id is required"})
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return 0, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}
	return s.expenditures.ExpendedTotal(ctx, baseID, filters)
}
