package reorder

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
	"github.com/jhoicas/Reposicion-api/pkg/logger"
)

// ExpiryReconciler concilia vencimientos de lotes antes de evaluar, para que
// la evaluación no cuente stock vencido como disponible.
type ExpiryReconciler interface {
	ReconcileExpiry(ctx context.Context, asOf time.Time) (int64, error)
}

// SweepStats resumen de una pasada del barrido.
type SweepStats struct {
	StartedAt      time.Time
	Duration       time.Duration
	ExpiredBatches int64
	Evaluated      int
	BelowReorder   int
	Failed         int
}

// Sweeper barrido periódico de reposición: en cada pasada concilia
// vencimientos, evalúa cada (ítem, bodega) candidato y entrega los
// resultados al orquestador de alertas. La evaluación por ítem es
// independiente: no hay lock global y el error de un ítem no detiene a los
// demás. La cancelación cooperativa se verifica en el borde de cada ítem.
type Sweeper struct {
	settingRepo  repository.ReorderSettingRepository
	evaluator    *Evaluator
	orchestrator *Orchestrator
	expiry       ExpiryReconciler
	log          *logger.Logger
	interval     time.Duration
	now          func() time.Time
}

// NewSweeper construye el barrido. interval <= 0 deshabilita Start (solo RunOnce).
func NewSweeper(
	settingRepo repository.ReorderSettingRepository,
	evaluator *Evaluator,
	orchestrator *Orchestrator,
	expiry ExpiryReconciler,
	log *logger.Logger,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		settingRepo:  settingRepo,
		evaluator:    evaluator,
		orchestrator: orchestrator,
		expiry:       expiry,
		log:          log,
		interval:     interval,
		now:          time.Now,
	}
}

// Start ejecuta el barrido cada intervalo hasta que el contexto se cancele.
// Pensado para correr en su propia goroutine desde main.
func (s *Sweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info().Msg("barrido periódico deshabilitado (intervalo 0)")
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("barrido de reposición iniciado")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("barrido de reposición detenido")
			return
		case <-ticker.C:
			stats, err := s.RunOnce(ctx)
			if err != nil {
				// La pasada aborta sin mutación parcial; la próxima
				// reintenta desde un estado limpio.
				s.log.Error().Err(err).Msg("pasada de barrido abortada")
				continue
			}
			s.log.Info().
				Int("evaluated", stats.Evaluated).
				Int("below_reorder", stats.BelowReorder).
				Int("failed", stats.Failed).
				Int64("expired_batches", stats.ExpiredBatches).
				Dur("duration", stats.Duration).
				Msg("pasada de barrido completada")
		}
	}
}

// RunOnce ejecuta una única pasada. La indisponibilidad del almacén al
// listar candidatos aborta solo esta pasada.
func (s *Sweeper) RunOnce(ctx context.Context) (SweepStats, error) {
	stats := SweepStats{StartedAt: s.now()}

	expired, err := s.expiry.ReconcileExpiry(ctx, stats.StartedAt)
	if err != nil {
		return stats, fmt.Errorf("conciliar vencimientos: %w", err)
	}
	stats.ExpiredBatches = expired

	candidates, err := s.settingRepo.ListCandidates(ctx, "")
	if err != nil {
		return stats, fmt.Errorf("listar candidatos: %w", err)
	}

	for _, c := range candidates {
		// Cancelación cooperativa en el borde de cada ítem: cada
		// commit/alerta es todo-o-nada, cancelar nunca deja mitades.
		if err := ctx.Err(); err != nil {
			stats.Duration = s.now().Sub(stats.StartedAt)
			return stats, err
		}

		result, err := s.evaluator.Evaluate(ctx, c.ItemID, c.WarehouseID)
		if err != nil {
			stats.Failed++
			s.log.Error().Err(err).
				Str("item_id", c.ItemID).
				Str("warehouse_id", c.WarehouseID).
				Msg("evaluación de reorden falló; se continúa con el siguiente ítem")
			continue
		}
		stats.Evaluated++
		if !result.BelowReorder {
			continue
		}
		stats.BelowReorder++

		if _, err := s.orchestrator.HandleEvaluation(ctx, result); err != nil {
			stats.Failed++
			s.log.Error().Err(err).
				Str("item_id", c.ItemID).
				Str("warehouse_id", c.WarehouseID).
				Msg("gestión de alerta falló")
		}
	}

	stats.Duration = s.now().Sub(stats.StartedAt)
	return stats, nil
}
