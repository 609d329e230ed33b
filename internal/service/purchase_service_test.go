package service

import (
	"context"
	"testing"

	"basetrack/internal/apperr"
	"basetrack/internal/model"
	"basetrack/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminActor() policy.Actor {
	return policy.Actor{ID: uuid.NewString(), Username: "root", Role: model.RoleAdmin}
}

func commanderActor(baseID uuid.UUID) policy.Actor {
	return policy.Actor{ID: uuid.NewString(), Username: "cmdr", Role: model.RoleBaseCommander, BaseID: baseID.String()}
}

func officerActor(baseID uuid.UUID) policy.Actor {
	return policy.Actor{ID: uuid.NewString(), Username: "officer", Role: model.RoleLogisticsOfficer, BaseID: baseID.String()}
}

func managerActor(baseID uuid.UUID) policy.Actor {
	return policy.Actor{ID: uuid.NewString(), Username: "mgr", Role: model.RoleInventoryManager, BaseID: baseID.String()}
}

type purchaseFixture struct {
	svc       PurchaseService
	assets    *fakeAssetRepo
	purchases *fakePurchaseRepo
	audit     *fakeAuditRepo
}

func newPurchaseFixture() *purchaseFixture {
	assets := newFakeAssetRepo()
	purchases := newFakePurchaseRepo()
	audit := &fakeAuditRepo{}
	return &purchaseFixture{
		svc:       NewPurchaseService(purchases, assets, audit, newFakeTxManager(assets, purchases, audit), nil),
		assets:    assets,
		purchases: purchases,
		audit:     audit,
	}
}

func TestRecordPurchaseIncrementsStock(t *testing.T) {
	f := newPurchaseFixture()
	baseID := uuid.New()
	asset := f.assets.seed(&model.Asset{Name: "5.56mm Rounds", Category: "ammunition", BaseID: baseID, Quantity: 10})

	purchase, err := f.svc.Create(context.Background(), officerActor(baseID), CreatePurchaseRequest{
		AssetID:   asset.ID.String(),
		Quantity:  5,
		UnitPrice: 100.0,
		Vendor:    "Acme Defense",
	})
	require.NoError(t, err)

	assert.Equal(t, 15, f.assets.quantity(asset.ID), "stock rises by the purchased quantity")
	assert.Equal(t, 500.0, purchase.TotalPrice)
	assert.Equal(t, baseID, purchase.BaseID)
	assert.Equal(t, []string{model.ActionRecordPurchase}, f.audit.actions())
}

func TestRecordPurchaseComputesFractionalTotals(t *testing.T) {
	f := newPurchaseFixture()
	baseID := uuid.New()
	asset := f.assets.seed(&model.Asset{Name: "Rations", Category: "supplies", BaseID: baseID, Quantity: 0})

	purchase, err := f.svc.Create(context.Background(), commanderActor(baseID), CreatePurchaseRequest{
		AssetID:   asset.ID.String(),
		Quantity:  3,
		UnitPrice: 10.10,
	})
	require.NoError(t, err)
	assert.InDelta(t, 30.30, purchase.TotalPrice, 0.0001)
}

func TestRecordPurchaseForbiddenForInventoryManager(t *testing.T) {
	f := newPurchaseFixture()
	baseID := uuid.New()
	asset := f.assets.seed(&model.Asset{Name: "Humvee", BaseID: baseID, Quantity: 2})

	_, err := f.svc.Create(context.Background(), managerActor(baseID), CreatePurchaseRequest{
		AssetID:   asset.ID.String(),
		Quantity:  1,
		UnitPrice: 100000,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbiddenRole, apperr.CodeOf(err))
	assert.Equal(t, 2, f.assets.quantity(asset.ID))
}

func TestRecordPurchaseForbiddenAcrossBases(t *testing.T) {
	f := newPurchaseFixture()
	homeBase := uuid.New()
	otherBase := uuid.New()
	asset := f.assets.seed(&model.Asset{Name: "Humvee", BaseID: otherBase, Quantity: 2})

	_, err := f.svc.Create(context.Background(), officerActor(homeBase), CreatePurchaseRequest{
		AssetID:   asset.ID.String(),
		Quantity:  1,
		UnitPrice: 100000,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbiddenScope, apperr.CodeOf(err))
}

func TestRecordPurchaseUnknownAsset(t *testing.T) {
	f := newPurchaseFixture()

	_, err := f.svc.Create(context.Background(), adminActor(), CreatePurchaseRequest{
		AssetID:   uuid.NewString(),
		Quantity:  1,
		UnitPrice: 10,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestPurchaseListPinsNonAdminsToOwnBase(t *testing.T) {
	f := newPurchaseFixture()
	homeBase := uuid.New()
	otherBase := uuid.New()
	asset := f.assets.seed(&model.Asset{Name: "Fuel", BaseID: homeBase, Quantity: 100})

	_, err := f.svc.Create(context.Background(), officerActor(homeBase), CreatePurchaseRequest{
		AssetID:   asset.ID.String(),
		Quantity:  10,
		UnitPrice: 3.5,
	})
	require.NoError(t, err)

	// The requested base id is ignored for non-admins.
	listed, err := f.svc.List(context.Background(), officerActor(homeBase), otherBase.String(), model.LedgerFilters{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, homeBase, listed[0].BaseID)
}

func TestPurchaseStatsRequiresBase(t *testing.T) {
	f := newPurchaseFixture()

	_, err := f.svc.Stats(context.Background(), adminActor(), "", model.LedgerFilters{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestPurchaseStatsSumsBaseTotals(t *testing.T) {
	f := newPurchaseFixture()
	baseID := uuid.New()
	asset := f.assets.seed(&model.Asset{Name: "Fuel", BaseID: baseID, Quantity: 0})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, commanderActor(baseID), CreatePurchaseRequest{
			AssetID:   asset.ID.String(),
			Quantity:  10,
			UnitPrice: 2.0,
		})
		require.NoError(t, err)
	}

	stats, err := f.svc.Stats(ctx, commanderActor(baseID), "", model.LedgerFilters{})
	require.NoError(t, err)
	assert.Equal(t, 30, stats.TotalPurchases)
	assert.InDelta(t, 60.0, stats.TotalValue, 0.0001)
	assert.Equal(t, baseID.String(), stats.BaseID)
}
