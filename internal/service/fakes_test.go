package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"basetrack/internal/model"
	"basetrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory doubles for the ledger repositories. They honor the same
// contracts as the production implementations, in particular the guarded
// quantity update that refuses to drive stock negative.

// snapshotter lets fakeTxManager capture repo state before a transaction
// and restore it when the transaction function fails.
type snapshotter interface {
	snapshot() func()
}

type fakeTxManager struct {
	repos []snapshotter
}

func newFakeTxManager(repos ...snapshotter) fakeTxManager {
	return fakeTxManager{repos: repos}
}

func (m fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	restores := make([]func(), 0, len(m.repos))
	for _, r := range m.repos {
		restores = append(restores, r.snapshot())
	}
	if err := fn(ctx); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}

type fakeAssetRepo struct {
	mu     sync.Mutex
	assets map[uuid.UUID]*model.Asset

	failSum bool
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[uuid.UUID]*model.Asset)}
}

func (r *fakeAssetRepo) seed(asset *model.Asset) *model.Asset {
	r.mu.Lock()
	defer r.mu.Unlock()
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	r.assets[asset.ID] = asset
	return asset
}

func (r *fakeAssetRepo) Create(_ context.Context, asset *model.Asset) error {
	r.seed(asset)
	return nil
}

func (r *fakeAssetRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.assets[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAssetRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeAssetRepo) FindByBase(_ context.Context, baseID uuid.UUID, filters model.AssetFilters) ([]model.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Asset
	for _, a := range r.assets {
		if a.BaseID == baseID && matchAssetFilters(a, filters) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeAssetRepo) FindAll(_ context.Context, filters model.AssetFilters) ([]model.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Asset
	for _, a := range r.assets {
		if matchAssetFilters(a, filters) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeAssetRepo) FindByBaseAndName(_ context.Context, baseID uuid.UUID, name, category string) (*model.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assets {
		if a.BaseID == baseID && a.Name == name && a.Category == category {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAssetRepo) SetQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Quantity = quantity
	return nil
}

func (r *fakeAssetRepo) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if a.Quantity+delta < 0 {
		return repository.ErrInsufficientStock
	}
	a.Quantity += delta
	return nil
}

func (r *fakeAssetRepo) SumQuantityByBase(_ context.Context, baseID uuid.UUID, category string) (int, error) {
	if r.failSum {
		return 0, errors.New("asset store unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, a := range r.assets {
		if a.BaseID == baseID && (category == "" || a.Category == category) {
			total += a.Quantity
		}
	}
	return total, nil
}

func (r *fakeAssetRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uuid.UUID]*model.Asset, len(r.assets))
	for id, a := range r.assets {
		copied := *a
		saved[id] = &copied
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.assets = saved
	}
}

func (r *fakeAssetRepo) quantity(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.assets[id]; ok {
		return a.Quantity
	}
	return -1
}

func matchAssetFilters(a *model.Asset, filters model.AssetFilters) bool {
	if filters.Category != "" && a.Category != filters.Category {
		return false
	}
	if filters.Status != "" && a.Status != filters.Status {
		return false
	}
	return true
}

type fakePurchaseRepo struct {
	mu        sync.Mutex
	purchases map[uuid.UUID]*model.Purchase

	totalQuantity int
	totalValue    float64
	failTotal     bool
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[uuid.UUID]*model.Purchase)}
}

func (r *fakePurchaseRepo) Create(_ context.Context, purchase *model.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	r.purchases[purchase.ID] = purchase
	return nil
}

func (r *fakePurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.purchases[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePurchaseRepo) FindByBase(_ context.Context, baseID uuid.UUID, _ model.LedgerFilters) ([]model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Purchase
	for _, p := range r.purchases {
		if p.BaseID == baseID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) FindAll(_ context.Context, _ model.LedgerFilters) ([]model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Purchase
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePurchaseRepo) TotalQuantityByBase(_ context.Context, baseID uuid.UUID, _ model.LedgerFilters) (int, float64, error) {
	if r.failTotal {
		return 0, 0, errors.New("purchase store unavailable")
	}
	if r.totalQuantity != 0 || r.totalValue != 0 {
		return r.totalQuantity, r.totalValue, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	quantity, value := 0, 0.0
	for _, p := range r.purchases {
		if p.BaseID == baseID {
			quantity += p.Quantity
			value += p.TotalPrice
		}
	}
	return quantity, value, nil
}

func (r *fakePurchaseRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uuid.UUID]*model.Purchase, len(r.purchases))
	for id, p := range r.purchases {
		copied := *p
		saved[id] = &copied
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.purchases = saved
	}
}

type fakeTransferRepo struct {
	mu        sync.Mutex
	transfers map[uuid.UUID]*model.Transfer

	stats model.TransferStats

	// findHook mutates the copy returned by FindByID; tests use it to hand
	// the service a stale view of a row another request already updated.
	findHook func(*model.Transfer)
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{transfers: make(map[uuid.UUID]*model.Transfer)}
}

func (r *fakeTransferRepo) Create(_ context.Context, transfer *model.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if transfer.ID == uuid.Nil {
		transfer.ID = uuid.New()
	}
	r.transfers[transfer.ID] = transfer
	return nil
}

func (r *fakeTransferRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.transfers[id]; ok {
		copied := *t
		if r.findHook != nil {
			r.findHook(&copied)
		}
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTransferRepo) FindByBase(_ context.Context, baseID uuid.UUID, _ model.LedgerFilters) ([]model.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transfer
	for _, t := range r.transfers {
		if t.FromBaseID == baseID || t.ToBaseID == baseID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTransferRepo) FindAll(_ context.Context, _ model.LedgerFilters) ([]model.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transfer
	for _, t := range r.transfers {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTransferRepo) UpdateStatus(_ context.Context, id uuid.UUID, fromStatus, toStatus string, approvedBy *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transfers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t.Status != fromStatus {
		return repository.ErrStatusConflict
	}
	t.Status = toStatus
	t.ApprovedBy = approvedBy
	return nil
}

func (r *fakeTransferRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uuid.UUID]*model.Transfer, len(r.transfers))
	for id, t := range r.transfers {
		copied := *t
		saved[id] = &copied
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.transfers = saved
	}
}

func (r *fakeTransferRepo) Stats(_ context.Context, baseID uuid.UUID, _ model.LedgerFilters) (model.TransferStats, error) {
	if r.stats != (model.TransferStats{}) {
		return r.stats, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats model.TransferStats
	for _, t := range r.transfers {
		if t.Status != model.TransferStatusCompleted {
			continue
		}
		if t.ToBaseID == baseID {
			stats.TransfersIn += t.Quantity
		}
		if t.FromBaseID == baseID {
			stats.TransfersOut += t.Quantity
		}
	}
	return stats, nil
}

func (r *fakeTransferRepo) status(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.transfers[id]; ok {
		return t.Status
	}
	return ""
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[uuid.UUID]*model.Assignment
	assets      *fakeAssetRepo

	assignedTotal int
	failTotal     bool

	findHook func(*model.Assignment)
}

func newFakeAssignmentRepo(assets *fakeAssetRepo) *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[uuid.UUID]*model.Assignment), assets: assets}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	r.assignments[assignment.ID] = assignment
	return nil
}

func (r *fakeAssignmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.assignments[id]; ok {
		copied := *a
		if r.findHook != nil {
			r.findHook(&copied)
		}
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAssignmentRepo) FindByBase(ctx context.Context, baseID uuid.UUID, _ model.LedgerFilters) ([]model.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Assignment
	for _, a := range r.assignments {
		if asset, err := r.assets.FindByID(ctx, a.AssetID); err == nil && asset.BaseID == baseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, fromStatus, toStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if a.Status != fromStatus {
		return repository.ErrStatusConflict
	}
	a.Status = toStatus
	return nil
}

func (r *fakeAssignmentRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uuid.UUID]*model.Assignment, len(r.assignments))
	for id, a := range r.assignments {
		copied := *a
		saved[id] = &copied
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.assignments = saved
	}
}

func (r *fakeAssignmentRepo) ActiveAssignedTotal(ctx context.Context, baseID uuid.UUID, _ model.LedgerFilters) (int, error) {
	if r.failTotal {
		return 0, errors.New("assignment store unavailable")
	}
	if r.assignedTotal != 0 {
		return r.assignedTotal, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, a := range r.assignments {
		if a.Status != model.AssignmentStatusActive {
			continue
		}
		if asset, err := r.assets.FindByID(ctx, a.AssetID); err == nil && asset.BaseID == baseID {
			total += a.Quantity
		}
	}
	return total, nil
}

type fakeExpenditureRepo struct {
	mu           sync.Mutex
	expenditures map[uuid.UUID]*model.Expenditure
	assets       *fakeAssetRepo

	expendedTotal int
}

func newFakeExpenditureRepo(assets *fakeAssetRepo) *fakeExpenditureRepo {
	return &fakeExpenditureRepo{expenditures: make(map[uuid.UUID]*model.Expenditure), assets: assets}
}

func (r *fakeExpenditureRepo) Create(_ context.Context, expenditure *model.Expenditure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if expenditure.ID == uuid.Nil {
		expenditure.ID = uuid.New()
	}
	r.expenditures[expenditure.ID] = expenditure
	return nil
}

func (r *fakeExpenditureRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Expenditure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.expenditures[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeExpenditureRepo) FindByBase(ctx context.Context, baseID uuid.UUID, _ model.LedgerFilters) ([]model.Expenditure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Expenditure
	for _, e := range r.expenditures {
		if asset, err := r.assets.FindByID(ctx, e.AssetID); err == nil && asset.BaseID == baseID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeExpenditureRepo) ExpendedTotal(ctx context.Context, baseID uuid.UUID, _ model.LedgerFilters) (int, error) {
	if r.expendedTotal != 0 {
		return r.expendedTotal, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, e := range r.expenditures {
		if asset, err := r.assets.FindByID(ctx, e.AssetID); err == nil && asset.BaseID == baseID {
			total += e.Quantity
		}
	}
	return total, nil
}

func (r *fakeExpenditureRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uuid.UUID]*model.Expenditure, len(r.expenditures))
	for id, e := range r.expenditures {
		copied := *e
		saved[id] = &copied
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.expenditures = saved
	}
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.AuditLog(nil), r.entries...), int64(len(r.entries)), nil
}

func (r *fakeAuditRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := append([]model.AuditLog(nil), r.entries...)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.entries = saved
	}
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}
