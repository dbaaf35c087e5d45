package reorder

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
	"github.com/jhoicas/Reposicion-api/pkg/logger"
)

// Dobles en memoria de los puertos del paquete, con la misma semántica que
// los adaptadores PostgreSQL (índice único parcial, FOR UPDATE serializado).

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

type fakeSettings struct {
	byItem     map[string]*entity.ReorderSetting
	candidates []repository.ReorderCandidate
	err        error
}

func (f *fakeSettings) GetByItem(ctx context.Context, itemID string) (*entity.ReorderSetting, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byItem[itemID], nil
}

func (f *fakeSettings) ListCandidates(ctx context.Context, warehouseID string) ([]repository.ReorderCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

type fakeLedger struct {
	positions map[string]repository.StockPosition // clave item|wh
}

func (f *fakeLedger) GetPosition(ctx context.Context, itemID, warehouseID string) (repository.StockPosition, error) {
	return f.positions[itemID+"|"+warehouseID], nil
}

func (f *fakeLedger) GetConsumptionHistory(ctx context.Context, itemID, warehouseID string, from, to time.Time) ([]repository.ConsumptionRecord, error) {
	return nil, nil
}

type fakeItems struct {
	items map[string]*repository.ItemInfo
}

func (f *fakeItems) GetItem(ctx context.Context, itemID string) (*repository.ItemInfo, error) {
	return f.items[itemID], nil
}

type fakeDemand struct {
	avg map[string]decimal.Decimal // clave item|wh
}

func (f *fakeDemand) AverageDailyDemand(ctx context.Context, itemID, warehouseID string, windowDays int) (decimal.Decimal, error) {
	if v, ok := f.avg[itemID+"|"+warehouseID]; ok {
		return v, nil
	}
	return decimal.Zero, nil
}

// memAlertStore repositorio de alertas en memoria. Un mutex global hace de
// "FOR UPDATE": las transiciones concurrentes se serializan igual que con el
// bloqueo de fila en PostgreSQL.
type memAlertStore struct {
	mu     sync.Mutex
	alerts map[string]*entity.ReorderAlert
}

func newMemAlertStore() *memAlertStore {
	return &memAlertStore{alerts: make(map[string]*entity.ReorderAlert)}
}

func (s *memAlertStore) Create(ctx context.Context, alert *entity.ReorderAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.ItemID == alert.ItemID && a.WarehouseID == alert.WarehouseID && a.IsOpen() {
			return domain.ErrDuplicate
		}
	}
	clone := *alert
	s.alerts[alert.ID] = &clone
	return nil
}

func (s *memAlertStore) GetByID(ctx context.Context, id string) (*entity.ReorderAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.alerts[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, nil
}

func (s *memAlertStore) GetByIDForUpdate(ctx context.Context, id string) (*entity.ReorderAlert, error) {
	// el lock de la "transacción" ya está tomado por memAlertTx
	if a, ok := s.alerts[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, nil
}

func (s *memAlertStore) FindOpen(ctx context.Context, itemID, warehouseID string) (*entity.ReorderAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.ItemID == itemID && a.WarehouseID == warehouseID && a.IsOpen() {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *memAlertStore) UpdateStatus(ctx context.Context, alert *entity.ReorderAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *alert
	s.alerts[alert.ID] = &clone
	return nil
}

func (s *memAlertStore) List(ctx context.Context, status string, limit int) ([]*entity.ReorderAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.ReorderAlert
	for _, a := range s.alerts {
		if status == "" || a.Status == status {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *memAlertStore) CountByStatus(ctx context.Context) (repository.AlertStatusCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c repository.AlertStatusCounts
	for _, a := range s.alerts {
		switch a.Status {
		case entity.AlertStatusPending:
			c.Pending++
		case entity.AlertStatusAcknowledged:
			c.Acknowledged++
		case entity.AlertStatusPOCreated:
			c.POCreated++
		case entity.AlertStatusDismissed:
			c.Dismissed++
		}
	}
	return c, nil
}

// memAlertTx serializa cada "transacción" con el mutex del store y descarta
// los cambios si fn falla (rollback).
type memAlertTx struct {
	store *memAlertStore
}

func (t *memAlertTx) RunAlerts(ctx context.Context, fn func(alertRepo repository.ReorderAlertRepository) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snapshot := make(map[string]entity.ReorderAlert, len(t.store.alerts))
	for id, a := range t.store.alerts {
		snapshot[id] = *a
	}
	if err := fn(txAlertRepo{t.store}); err != nil {
		t.store.alerts = make(map[string]*entity.ReorderAlert, len(snapshot))
		for id, a := range snapshot {
			clone := a
			t.store.alerts[id] = &clone
		}
		return err
	}
	return nil
}

// txAlertRepo variante atada a la tx: no toma el mutex (ya lo tiene la tx).
type txAlertRepo struct {
	store *memAlertStore
}

func (r txAlertRepo) Create(ctx context.Context, alert *entity.ReorderAlert) error {
	clone := *alert
	r.store.alerts[alert.ID] = &clone
	return nil
}

func (r txAlertRepo) GetByID(ctx context.Context, id string) (*entity.ReorderAlert, error) {
	return r.store.GetByIDForUpdate(ctx, id)
}

func (r txAlertRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.ReorderAlert, error) {
	return r.store.GetByIDForUpdate(ctx, id)
}

func (r txAlertRepo) FindOpen(ctx context.Context, itemID, warehouseID string) (*entity.ReorderAlert, error) {
	for _, a := range r.store.alerts {
		if a.ItemID == itemID && a.WarehouseID == warehouseID && a.IsOpen() {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (r txAlertRepo) UpdateStatus(ctx context.Context, alert *entity.ReorderAlert) error {
	clone := *alert
	r.store.alerts[alert.ID] = &clone
	return nil
}

func (r txAlertRepo) List(ctx context.Context, status string, limit int) ([]*entity.ReorderAlert, error) {
	return nil, nil
}

func (r txAlertRepo) CountByStatus(ctx context.Context) (repository.AlertStatusCounts, error) {
	return repository.AlertStatusCounts{}, nil
}

// fakePurchasing colaborador de compras contable y con fallas inyectables.
type fakePurchasing struct {
	mu      sync.Mutex
	calls   int
	failNow bool
	delay   time.Duration
}

func (p *fakePurchasing) CreateDraftPurchaseOrder(ctx context.Context, req repository.PurchaseOrderRequest) (string, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failNow {
		return "", context.DeadlineExceeded
	}
	return "po-0001", nil
}

func (p *fakePurchasing) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
