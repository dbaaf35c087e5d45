package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Reposicion-api/internal/application/allocation"
	"github.com/jhoicas/Reposicion-api/internal/application/batch"
	"github.com/jhoicas/Reposicion-api/internal/application/forecast"
	"github.com/jhoicas/Reposicion-api/internal/application/reorder"
	"github.com/jhoicas/Reposicion-api/internal/infrastructure/postgres"
	infrapurchasing "github.com/jhoicas/Reposicion-api/internal/infrastructure/purchasing"
	httpRouter "github.com/jhoicas/Reposicion-api/internal/interfaces/http"
	"github.com/jhoicas/Reposicion-api/pkg/config"
	"github.com/jhoicas/Reposicion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios y colaboradores
	batchRepo := postgres.NewBatchRepository(pool)
	alertRepo := postgres.NewReorderAlertRepository(pool)
	settingRepo := postgres.NewReorderSettingRepository(pool)
	ledgerRepo := postgres.NewStockLedgerRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	purchasingClient := infrapurchasing.NewClient(cfg.Purchasing.BaseURL, cfg.Purchasing.Timeout)

	// Use cases
	batchUC := batch.NewUseCase(batchRepo, cfg.Sweep.ExpiringSoonDays)
	allocationUC := allocation.NewUseCase(batchRepo, txRunner)
	forecastUC := forecast.NewUseCase(ledgerRepo, cfg.Sweep.MovingAvgWindow)
	evaluator := reorder.NewEvaluator(settingRepo, ledgerRepo, itemRepo, forecastUC, cfg.Sweep.DemandWindowDays)
	orchestrator := reorder.NewOrchestrator(
		alertRepo, txRunner, settingRepo, purchasingClient,
		log.Component("orchestrator"), cfg.Purchasing.Timeout,
	)
	reporter := reorder.NewReporter(settingRepo, alertRepo, evaluator)
	sweeper := reorder.NewSweeper(
		settingRepo, evaluator, orchestrator, batchUC,
		log.Component("sweep"), cfg.Sweep.Interval,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Reposicion API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BatchUC:      batchUC,
		AllocationUC: allocationUC,
		ForecastUC:   forecastUC,
		Evaluator:    evaluator,
		Orchestrator: orchestrator,
		Reporter:     reporter,
		Sweeper:      sweeper,
		AlertRepo:    alertRepo,
	})

	// Barrido periódico en background; se detiene al apagar.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go sweeper.Start(sweepCtx)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
