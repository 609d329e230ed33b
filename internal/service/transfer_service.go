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
	"gorm.io/gorm"
)

type CreateTransferRequest struct {
	AssetID      string `json:"asset_id" binding:"required"`
	FromBaseID   string `json:"from_base_id" binding:"required"`
	ToBaseID     string `json:"to_base_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	TransferDate string `json:"transfer_date"`
	Notes        string `json:"notes"`
}

type TransferStatsResponse struct {
	BaseID         string               `json:"base_id"`
	TransfersIn    int                  `json:"transfers_in"`
	TransfersOut   int                  `json:"transfers_out"`
	NetTransfer    int                  `json:"net_transfer"`
	FiltersApplied model.AppliedFilters `json:"filters_applied"`
}

type TransferService interface {
	Initiate(ctx context.Context, actor policy.Actor, req CreateTransferRequest) (*model.Transfer, error)
	List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) ([]model.Transfer, error)
	Get(ctx context.Context, actor policy.Actor, id string) (*model.Transfer, error)
	UpdateStatus(ctx context.Context, actor policy.Actor, id, newStatus string) (*model.Transfer, error)
	Stats(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (*TransferStatsResponse, error)
}

type transferService struct {
	transfers repository.TransferRepository
	assets    repository.AssetRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewTransferService(
	transfers repository.TransferRepository,
	assets repository.AssetRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) TransferService {
	return &transferService{
		transfers: transfers,
		assets:    assets,
		auditRepo: auditRepo,
		txManager: txManager,
		hub:       hub,
	}
}

// Initiate creates a pending transfer. Stock sufficiency is checked here but
// stock only moves when the transfer completes.
func (s *transferService) Initiate(ctx context.Context, actor policy.Actor, req CreateTransferRequest) (*model.Transfer, error) {
	if err := policy.CanInitiateTransfer(actor, req.FromBaseID); err != nil {
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

	fromBaseID, err := uuid.Parse(req.FromBaseID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "from_base_id", Message: "must be a valid base id"})
	}
	toBaseID, err := uuid.Parse(req.ToBaseID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "to_base_id", Message: "must be a valid base id"})
	}
	if fromBaseID == toBaseID {
		return nil, apperr.Validation(apperr.FieldError{Field: "to_base_id", Message: "destination must differ from source"})
	}

	if asset.Quantity < req.Quantity {
		return nil, apperr.New(apperr.CodeInsufficientStock, "insufficient asset quantity for transfer")
	}

	transferDate := time.Now()
	if req.TransferDate != "" {
		if parsed, parseErr := time.Parse("2006-01-02", req.TransferDate); parseErr == nil {
			transferDate = parsed
		}
	}

	transfer := &model.Transfer{
		AssetID:      assetID,
		FromBaseID:   fromBaseID,
		ToBaseID:     toBaseID,
		Quantity:     req.Quantity,
		TransferDate: transferDate,
		Notes:        req.Notes,
		InitiatedBy:  actorUUID(actor),
		Status:       model.TransferStatusPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.transfers.Create(txCtx, transfer); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]interface{}{
			"asset_id":     assetID.String(),
			"from_base_id": fromBaseID.String(),
			"to_base_id":   toBaseID.String(),
			"quantity":     req.Quantity,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     actorUUID(actor),
			Action:     model.ActionInitiateTransfer,
			EntityID:   transfer.ID.String(),
			EntityName: asset.Name,
			Details:    string(details),
		})
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

func (s *transferService) List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) ([]model.Transfer, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		return s.transfers.FindAll(ctx, filters)
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}
	return s.transfers.FindByBase(ctx, baseID, filters)
}

// Get lets either side of the transfer (or an admin) see it.
func (s *transferService) Get(ctx context.Context, actor policy.Actor, id string) (*model.Transfer, error) {
	transferID, err := parseEntityID(id, "transfer")
	if err != nil {
		return nil, err
	}
	transfer, err := s.transfers.FindByID(ctx, transferID)
	if err != nil {
		return nil, notFoundOr(err, "transfer")
	}
	if !actor.IsAdmin() &&
		actor.BaseID != transfer.FromBaseID.String() &&
		actor.BaseID != transfer.ToBaseID.String() {
		return nil, apperr.New(apperr.CodeForbiddenScope, "access denied to this transfer")
	}
	return transfer, nil
}

// UpdateStatus drives the transfer state machine. Completing a transfer
// moves stock between the bases atomically with the status write: the source
// row is decremented under a guard and the destination row is incremented or
// created, all in one transaction that fails whole on insufficient stock.
func (s *transferService) UpdateStatus(ctx context.Context, actor policy.Actor, id, newStatus string) (*model.Transfer, error) {
	transferID, err := parseEntityID(id, "transfer")
	if err != nil {
		return nil, err
	}
	transfer, err := s.transfers.FindByID(ctx, transferID)
	if err != nil {
		return nil, notFoundOr(err, "transfer")
	}

	if err := policy.CanApproveTransfer(actor, transfer.ToBaseID.String()); err != nil {
		return nil, err
	}

	if !model.ValidTransferTransition(transfer.Status, newStatus) {
		return nil, apperr.Newf(apperr.CodeInvalidTransition,
			"cannot transition transfer from %s to %s", transfer.Status, newStatus)
	}

	approver := actorUUID(actor)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// The guarded status write goes first: a request racing on the same
		// transition loses here and never reaches the stock movement.
		if err := s.transfers.UpdateStatus(txCtx, transferID, transfer.Status, newStatus, approver); err != nil {
			return notFoundOr(err, "transfer")
		}
		if newStatus == model.TransferStatusCompleted {
			if err := s.moveStock(txCtx, transfer); err != nil {
				return err
			}
		}
		details, _ := json.Marshal(map[string]interface{}{
			"previous_status": transfer.Status,
			"new_status":      newStatus,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:   approver,
			Action:   model.ActionTransferStatus,
			EntityID: transfer.ID.String(),
			Details:  string(details),
		})
	})
	if err != nil {
		return nil, err
	}

	transfer.Status = newStatus
	transfer.ApprovedBy = approver

	if newStatus == model.TransferStatusCompleted {
		s.hub.BroadcastEvent(ws.EventTransferCompleted, map[string]interface{}{
			"transfer_id":  transfer.ID.String(),
			"asset_id":     transfer.AssetID.String(),
			"from_base_id": transfer.FromBaseID.String(),
			"to_base_id":   transfer.ToBaseID.String(),
			"quantity":     transfer.Quantity,
		})
	}

	return transfer, nil
}

// moveStock relocates the transferred quantity: guarded decrement at the
// source, increment or create at the destination. Runs inside the status
// transaction; the source row is locked first so a concurrent expenditure
// cannot slip between the sufficiency re-check and the write.
func (s *transferService) moveStock(ctx context.Context, transfer *model.Transfer) error {
	source, err := s.assets.FindByIDForUpdate(ctx, transfer.AssetID)
	if err != nil {
		return notFoundOr(err, "asset")
	}

	if err := s.assets.AdjustQuantity(ctx, source.ID, -transfer.Quantity); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return apperr.New(apperr.CodeInsufficientStock, "source base no longer has sufficient stock")
		}
		return notFoundOr(err, "asset")
	}

	dest, err := s.assets.FindByBaseAndName(ctx, transfer.ToBaseID, source.Name, source.Category)
	switch {
	case err == nil:
		return s.assets.AdjustQuantity(ctx, dest.ID, transfer.Quantity)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.assets.Create(ctx, &model.Asset{
			Name:         source.Name,
			Category:     source.Category,
			SerialNumber: source.SerialNumber,
			BaseID:       transfer.ToBaseID,
			Quantity:     transfer.Quantity,
			Status:       model.AssetStatusAvailable,
		})
	default:
		return err
	}
}

func (s *transferService) Stats(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (*TransferStatsResponse, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "base id is required"})
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}

	stats, err := s.transfers.Stats(ctx, baseID, filters)
	if err != nil {
		return nil, err
	}
	return &TransferStatsResponse{
		BaseID:         target,
		TransfersIn:    stats.TransfersIn,
		TransfersOut:   stats.TransfersOut,
		NetTransfer:    stats.TransfersIn - stats.TransfersOut,
		FiltersApplied: appliedFilters(filters),
	}, nil
}
