package service

import (
	"context"
	"encoding/json"
	"time"

	"basetrack/internal/apperr"
	"basetrack/internal/model"
	"basetrack/internal/policy"
	"basetrack/internal/repository"
	ws "basetrack/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePurchaseRequest struct {
	AssetID      string  `json:"asset_id" binding:"required"`
	BaseID       string  `json:"base_id"`
	Quantity     int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice    float64 `json:"unit_price" binding:"required,gt=0"`
	PurchaseDate string  `json:"purchase_date"`
	Vendor       string  `json:"vendor"`
	Notes        string  `json:"notes"`
}

type PurchaseStats struct {
	BaseID         string               `json:"base_id"`
	TotalPurchases int                  `json:"total_purchases"`
	TotalValue     float64              `json:"total_value"`
	FiltersApplied model.AppliedFilters `json:"filters_applied"`
}

type PurchaseService interface {
	Create(ctx context.Context, actor policy.Actor, req CreatePurchaseRequest) (*model.Purchase, error)
	List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) ([]model.Purchase, error)
	Get(ctx context.Context, actor policy.Actor, id string) (*model.Purchase, error)
	Stats(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (*PurchaseStats, error)
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	assets    repository.AssetRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	assets repository.AssetRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) PurchaseService {
	return &purchaseService{
		purchases: purchases,
		assets:    assets,
		auditRepo: auditRepo,
		txManager: txManager,
		hub:       hub,
	}
}

// Create appends a purchase row and increments the asset's stock in one
// transaction. Purchases are immutable once created.
func (s *purchaseService) Create(ctx context.Context, actor policy.Actor, req CreatePurchaseRequest) (*model.Purchase, error) {
	if err := policy.CanRecordPurchase(actor); err != nil {
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

	// Admins may book the purchase against an explicit base, defaulting to
	// the asset's own base; everyone else is pinned to the asset's base.
	baseID := asset.BaseID
	if actor.IsAdmin() && req.BaseID != "" {
		if parsed, parseErr := uuid.Parse(req.BaseID); parseErr == nil {
			baseID = parsed
		}
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != "" {
		if parsed, parseErr := time.Parse("2006-01-02", req.PurchaseDate); parseErr == nil {
			purchaseDate = parsed
		}
	}

	// Exact money math; floats only at the storage boundary.
	total := decimal.NewFromFloat(req.UnitPrice).Mul(decimal.NewFromInt(int64(req.Quantity)))

	purchase := &model.Purchase{
		AssetID:      assetID,
		BaseID:       baseID,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		TotalPrice:   total.InexactFloat64(),
		PurchaseDate: purchaseDate,
		Vendor:       req.Vendor,
		Notes:        req.Notes,
		CreatedBy:    actorUUID(actor),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.purchases.Create(txCtx, purchase); err != nil {
			return err
		}
		if err := s.assets.AdjustQuantity(txCtx, assetID, req.Quantity); err != nil {
			return notFoundOr(err, "asset")
		}
		details, _ := json.Marshal(map[string]interface{}{
			"asset_id":    assetID.String(),
			"quantity":    req.Quantity,
			"unit_price":  req.UnitPrice,
			"total_price": purchase.TotalPrice,
			"vendor":      req.Vendor,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     actorUUID(actor),
			Action:     model.ActionRecordPurchase,
			EntityID:   purchase.ID.String(),
			EntityName: asset.Name,
			Details:    string(details),
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(ws.EventPurchaseRecorded, map[string]interface{}{
		"purchase_id": purchase.ID.String(),
		"asset_id":    assetID.String(),
		"base_id":     baseID.String(),
		"quantity":    req.Quantity,
	})

	return purchase, nil
}

func (s *purchaseService) List(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) ([]model.Purchase, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		return s.purchases.FindAll(ctx, filters)
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}
	return s.purchases.FindByBase(ctx, baseID, filters)
}

func (s *purchaseService) Get(ctx context.Context, actor policy.Actor, id string) (*model.Purchase, error) {
	purchaseID, err := parseEntityID(id, "purchase")
	if err != nil {
		return nil, err
	}
	purchase, err := s.purchases.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, notFoundOr(err, "purchase")
	}
	if err := policy.AuthorizeBaseAccess(actor, purchase.BaseID.String()); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *purchaseService) Stats(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (*PurchaseStats, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "base id is required"})
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}

	quantity, value, err := s.purchases.TotalQuantityByBase(ctx, baseID, filters)
	if err != nil {
		return nil, err
	}
	return &PurchaseStats{
		BaseID:         target,
		TotalPurchases: quantity,
		TotalValue:     value,
		FiltersApplied: appliedFilters(filters),
	}, nil
}
