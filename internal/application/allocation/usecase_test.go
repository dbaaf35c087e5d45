package allocation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reposicion-api/internal/domain"
	"github.com/jhoicas/Reposicion-api/internal/domain/entity"
	"github.com/jhoicas/Reposicion-api/internal/domain/inventory"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// memBatchRepo repositorio de lotes en memoria para tests. Deplete replica
// la semántica condicional del adaptador PostgreSQL.
type memBatchRepo struct {
	mu      sync.Mutex
	batches map[string]*entity.Batch
}

func newMemBatchRepo(batches ...*entity.Batch) *memBatchRepo {
	r := &memBatchRepo{batches: make(map[string]*entity.Batch)}
	for _, b := range batches {
		clone := *b
		r.batches[b.ID] = &clone
	}
	return r
}

func (r *memBatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.batches[b.ID] = &clone
	return nil
}

func (r *memBatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.batches[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, nil
}

func (r *memBatchRepo) List(ctx context.Context, filter repository.BatchFilter) ([]*entity.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Batch
	for _, b := range r.batches {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memBatchRepo) ListAllocatable(ctx context.Context, itemID, warehouseID string) ([]*entity.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.ItemID == itemID && b.WarehouseID == warehouseID && b.IsAllocatable() {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memBatchRepo) Deplete(ctx context.Context, batchID string, qty decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	if qty.GreaterThan(b.QuantityRemaining) {
		return domain.ErrInsufficientBatchQuantity
	}
	b.QuantityRemaining = b.QuantityRemaining.Sub(qty)
	if b.QuantityRemaining.IsZero() && b.Status != entity.BatchStatusRecalled {
		b.Status = entity.BatchStatusDepleted
	}
	return nil
}

func (r *memBatchRepo) AdjustQuantity(ctx context.Context, batchID string, delta decimal.Decimal) error {
	return nil
}

func (r *memBatchRepo) ReconcileExpiry(ctx context.Context, asOf time.Time) (int64, error) {
	return 0, nil
}

// snapshot / restore dan al txRunner de test la semántica de rollback.
func (r *memBatchRepo) snapshot() map[string]entity.Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := make(map[string]entity.Batch, len(r.batches))
	for id, b := range r.batches {
		s[id] = *b
	}
	return s
}

func (r *memBatchRepo) restore(s map[string]entity.Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = make(map[string]*entity.Batch, len(s))
	for id, b := range s {
		clone := b
		r.batches[id] = &clone
	}
}

// memTxRunner todo-o-nada sobre el repositorio en memoria.
type memTxRunner struct {
	repo *memBatchRepo
	// hook opcional que corre antes de cada transacción (simula concurrencia)
	beforeTx func()
}

func (t *memTxRunner) Run(ctx context.Context, fn func(batchRepo repository.BatchRepository) error) error {
	if t.beforeTx != nil {
		t.beforeTx()
	}
	snap := t.repo.snapshot()
	if err := fn(t.repo); err != nil {
		t.repo.restore(snap)
		return err
	}
	return nil
}

func activeBatch(id string, qty int64, expiry string, createdAt time.Time) *entity.Batch {
	var exp *time.Time
	if expiry != "" {
		t, _ := time.Parse("2006-01-02", expiry)
		exp = &t
	}
	return &entity.Batch{
		ID:                id,
		ItemID:            "item-1",
		WarehouseID:       "wh-1",
		BatchNumber:       "BN-" + id,
		QuantityRemaining: decimal.NewFromInt(qty),
		ExpiryDate:        exp,
		Status:            entity.BatchStatusActive,
		CreatedAt:         createdAt,
	}
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestAllocateAndCommit_FEFOCompleto(t *testing.T) {
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	repo := newMemBatchRepo(
		activeBatch("a", 20, "2025-01-01", base),
		activeBatch("b", 30, "2025-02-01", base.Add(time.Hour)),
	)
	uc := NewUseCase(repo, &memTxRunner{repo: repo})

	res, err := uc.AllocateAndCommit(context.Background(), "item-1", "wh-1", qty(35), inventory.MethodFEFO)
	require.NoError(t, err)

	assert.True(t, res.Shortfall.IsZero())
	assert.True(t, res.Allocated.Equal(qty(35)))
	require.Len(t, res.Plan.Lines, 2)
	assert.Equal(t, "a", res.Plan.Lines[0].BatchID)

	a, _ := repo.GetByID(context.Background(), "a")
	b, _ := repo.GetByID(context.Background(), "b")
	assert.Equal(t, entity.BatchStatusDepleted, a.Status)
	assert.True(t, b.QuantityRemaining.Equal(qty(15)))
}

func TestAllocateAndCommit_AsignacionesSucesivasNuncaSobregiran(t *testing.T) {
	// Registrar 100 → asignar 30, 40, 40: la tercera reporta faltante 10 y
	// el lote termina en 0/DEPLETED. La suma comprometida jamás supera 100.
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	repo := newMemBatchRepo(activeBatch("unico", 100, "2025-06-01", base))
	uc := NewUseCase(repo, &memTxRunner{repo: repo})
	ctx := context.Background()

	res1, err := uc.AllocateAndCommit(ctx, "item-1", "wh-1", qty(30), inventory.MethodFEFO)
	require.NoError(t, err)
	assert.True(t, res1.Shortfall.IsZero())

	res2, err := uc.AllocateAndCommit(ctx, "item-1", "wh-1", qty(40), inventory.MethodFEFO)
	require.NoError(t, err)
	assert.True(t, res2.Shortfall.IsZero())

	res3, err := uc.AllocateAndCommit(ctx, "item-1", "wh-1", qty(40), inventory.MethodFEFO)
	require.NoError(t, err)
	assert.True(t, res3.Shortfall.Equal(qty(10)))
	assert.True(t, res3.Allocated.Equal(qty(30)))

	b, _ := repo.GetByID(ctx, "unico")
	assert.True(t, b.QuantityRemaining.IsZero())
	assert.Equal(t, entity.BatchStatusDepleted, b.Status)
}

func TestCommit_ReplanteaUnaVezAnteCambioConcurrente(t *testing.T) {
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	repo := newMemBatchRepo(
		activeBatch("a", 20, "2025-01-01", base),
		activeBatch("b", 50, "2025-02-01", base.Add(time.Hour)),
	)
	runner := &memTxRunner{repo: repo}
	uc := NewUseCase(repo, runner)
	ctx := context.Background()

	plan, err := uc.Plan(ctx, "item-1", "wh-1", qty(30), inventory.MethodFEFO)
	require.NoError(t, err)

	// Entre el plan y el commit, otro proceso consume el lote "a".
	drained := false
	runner.beforeTx = func() {
		if !drained {
			drained = true
			_ = repo.Deplete(ctx, "a", qty(20))
		}
	}

	res, err := uc.Commit(ctx, plan)
	require.NoError(t, err)
	assert.True(t, res.Retried, "debió replantear una vez")
	assert.True(t, res.Shortfall.IsZero())

	b, _ := repo.GetByID(ctx, "b")
	assert.True(t, b.QuantityRemaining.Equal(qty(20)), "el replanteo tomó 30 de b")
}

func TestCommit_SegundaFallaDevuelveConflicto(t *testing.T) {
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	repo := newMemBatchRepo(activeBatch("a", 20, "2025-01-01", base))
	runner := &memTxRunner{repo: repo}
	uc := NewUseCase(repo, runner)
	ctx := context.Background()

	plan, err := uc.Plan(ctx, "item-1", "wh-1", qty(10), inventory.MethodFEFO)
	require.NoError(t, err)

	// Un competidor le gana la carrera en ambos intentos: antes de cada
	// transacción el lote queda con menos de lo que el plan vigente pide.
	remaining := []int64{5, 2}
	runner.beforeTx = func() {
		r := remaining[0]
		if len(remaining) > 1 {
			remaining = remaining[1:]
		}
		repo.mu.Lock()
		repo.batches["a"].QuantityRemaining = qty(r)
		repo.mu.Unlock()
	}

	_, err = uc.Commit(ctx, plan)
	assert.ErrorIs(t, err, domain.ErrAllocationConflict)

	b, _ := repo.GetByID(ctx, "a")
	assert.False(t, b.QuantityRemaining.IsNegative(), "ningún lote queda negativo")
}

func TestCommit_PlanVacioNoMuta(t *testing.T) {
	repo := newMemBatchRepo()
	uc := NewUseCase(repo, &memTxRunner{repo: repo})

	res, err := uc.AllocateAndCommit(context.Background(), "item-1", "wh-1", qty(25), inventory.MethodFIFO)
	require.NoError(t, err)
	assert.True(t, res.Shortfall.Equal(qty(25)))
	assert.True(t, res.Allocated.IsZero())
}

func TestPlan_MetodoInvalido(t *testing.T) {
	repo := newMemBatchRepo()
	uc := NewUseCase(repo, &memTxRunner{repo: repo})

	_, err := uc.Plan(context.Background(), "item-1", "wh-1", qty(1), "LIFO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommit_ClavesDistintasNoSeBloquean(t *testing.T) {
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	b1 := activeBatch("w1", 100, "", base)
	b2 := activeBatch("w2", 100, "", base)
	b2.WarehouseID = "wh-2"
	repo := newMemBatchRepo(b1, b2)
	uc := NewUseCase(repo, &memTxRunner{repo: repo})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, wh := range []string{"wh-1", "wh-2"} {
		wg.Add(1)
		go func(wh string) {
			defer wg.Done()
			_, err := uc.AllocateAndCommit(ctx, "item-1", wh, qty(60), inventory.MethodFIFO)
			errs <- err
		}(wh)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
