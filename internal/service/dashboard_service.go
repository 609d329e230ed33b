package service

import (
	"context"

	"basetrack/internal/model"
	"basetrack/internal/policy"
	"basetrack/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	Metrics(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (*model.DashboardMetrics, error)
}

type dashboardService struct {
	assets       repository.AssetRepository
	purchases    repository.PurchaseRepository
	transfers    repository.TransferRepository
	assignments  repository.AssignmentRepository
	expenditures repository.ExpenditureRepository
}

func NewDashboardService(
	assets repository.AssetRepository,
	purchases repository.PurchaseRepository,
	transfers repository.TransferRepository,
	assignments repository.AssignmentRepository,
	expenditures repository.ExpenditureRepository,
) DashboardService {
	return &dashboardService{
		assets:       assets,
		purchases:    purchases,
		transfers:    transfers,
		assignments:  assignments,
		expenditures: expenditures,
	}
}

// Metrics aggregates the base's movement totals concurrently and derives
// closing_balance = opening + purchases + transfers_in - transfers_out
// - assigned - expended. Any aggregation failure fails the whole call.
func (s *dashboardService) Metrics(ctx context.Context, actor policy.Actor, requestedBaseID string, filters model.LedgerFilters) (*model.DashboardMetrics, error) {
	target := policy.ResolveTargetBase(actor, requestedBaseID)
	if target == "" {
		// Admin with no base selected and no home base sees empty metrics.
		return &model.DashboardMetrics{FiltersApplied: appliedFilters(filters)}, nil
	}
	if err := policy.AuthorizeBaseAccess(actor, target); err != nil {
		return nil, err
	}
	baseID, err := uuid.Parse(target)
	if err != nil {
		return &model.DashboardMetrics{BaseID: target, FiltersApplied: appliedFilters(filters)}, nil
	}

	var (
		opening   int
		purchased int
		stats     model.TransferStats
		assigned  int
		expended  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opening, err = s.assets.SumQuantityByBase(gctx, baseID, filters.Category)
		return err
	})
	g.Go(func() error {
		var err error
		purchased, _, err = s.purchases.TotalQuantityByBase(gctx, baseID, filters)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.transfers.Stats(gctx, baseID, filters)
		return err
	})
	g.Go(func() error {
		var err error
		assigned, err = s.assignments.ActiveAssignedTotal(gctx, baseID, filters)
		return err
	})
	g.Go(func() error {
		var err error
		expended, err = s.expenditures.ExpendedTotal(gctx, baseID, filters)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics := &model.DashboardMetrics{
		BaseID:         target,
		OpeningBalance: opening,
		Purchases:      purchased,
		TransfersIn:    stats.TransfersIn,
		TransfersOut:   stats.TransfersOut,
		NetMovement:    purchased + stats.TransfersIn - stats.TransfersOut,
		Assigned:       assigned,
		Expended:       expended,
		FiltersApplied: appliedFilters(filters),
	}
	metrics.ClosingBalance = metrics.OpeningBalance + metrics.NetMovement - metrics.Assigned - metrics.Expended
	return metrics, nil
}
