package service

import (
	"context"
	"encoding/json"

	"basetrack/internal/apperr"
	"basetrack/internal/model"
	"basetrack/internal/policy"
	"basetrack/internal/repository"

	"github.com/google/uuid"
)

type CreateAssetRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	SerialNumber string `json:"serial_number"`
	BaseID       string `json:"base_id"`
	Quantity     int    `json:"quantity" binding:"gte=0"`
	Status       string `json:"status"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

type AssetService interface {
	List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.AssetFilters) ([]model.Asset, error)
	Create(ctx context.Context, actor policy.Actor, req CreateAssetRequest) (*model.Asset, error)
	Get(ctx context.Context, actor policy.Actor, id string) (*model.Asset, error)
	UpdateQuantity(ctx context.Context, actor policy.Actor, id string, quantity int) (*model.Asset, error)
}

type assetService struct {
	assets    repository.AssetRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewAssetService(
	assets repository.AssetRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) AssetService {
	return &assetService{assets: assets, auditRepo: auditRepo, txManager: txManager}
}

// List returns assets scoped by the policy evaluator: non-admins always see
// their own base's assets regardless of the requested filter; an admin with
// no base filter sees every base.
func (s *assetService) List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.AssetFilters) ([]model.Asset, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		return s.assets.FindAll(ctx, filters)
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}
	return s.assets.FindByBase(ctx, baseID, filters)
}

func (s *assetService) Create(ctx context.Context, actor policy.Actor, req CreateAssetRequest) (*model.Asset, error) {
	if err := policy.CanManageAssets(actor); err != nil {
		return nil, err
	}

	// Non-admins create assets at their own base no matter what the payload says.
	rawBase := actor.BaseID
	if actor.IsAdmin() {
		rawBase = req.BaseID
	}
	baseID, err := uuid.Parse(rawBase)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}

	status := req.Status
	if status == "" {
		status = model.AssetStatusAvailable
	}

	asset := &model.Asset{
		Name:         req.Name,
		Category:     req.Category,
		SerialNumber: req.SerialNumber,
		BaseID:       baseID,
		Quantity:     req.Quantity,
		Status:       status,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.assets.Create(txCtx, asset); err != nil {
			return err
		}
		details, _ := json.Marshal(req)
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     actorUUID(actor),
			Action:     model.ActionCreateAsset,
			EntityID:   asset.ID.String(),
			EntityName: asset.Name,
			Details:    string(details),
		})
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) Get(ctx context.Context, actor policy.Actor, id string) (*model.Asset, error) {
	assetID, err := parseEntityID(id, "asset")
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
	return asset, nil
}

func (s *assetService) UpdateQuantity(ctx context.Context, actor policy.Actor, id string, quantity int) (*model.Asset, error) {
	if err := policy.CanManageAssets(actor); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, apperr.Validation(apperr.FieldError{Field: "quantity", Message: "must not be negative"})
	}

	asset, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.assets.SetQuantity(txCtx, asset.ID, quantity); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]interface{}{
			"previous_quantity": asset.Quantity,
			"new_quantity":      quantity,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     actorUUID(actor),
			Action:     model.ActionUpdateAssetQuantity,
			EntityID:   asset.ID.String(),
			EntityName: asset.Name,
			Details:    string(details),
		})
	})
	if err != nil {
		return nil, err
	}

	asset.Quantity = quantity
	return asset, nil
}
