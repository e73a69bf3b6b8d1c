package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/afip-mock/internal/application/auth"
	"github.com/jhoicas/afip-mock/internal/application/billing"
	"github.com/jhoicas/afip-mock/internal/application/validation"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
	"github.com/jhoicas/afip-mock/internal/infrastructure/memory"
	"github.com/jhoicas/afip-mock/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/afip-mock/internal/infrastructure/pdf"
	"github.com/jhoicas/afip-mock/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/afip-mock/internal/interfaces/http"
	"github.com/jhoicas/afip-mock/pkg/afip"
	"github.com/jhoicas/afip-mock/pkg/config"
	"github.com/jhoicas/afip-mock/pkg/logger"
)

// storage adaptadores de persistencia según STORE_DRIVER.
type storage struct {
	txRunner billing.IssuanceTxRunner
	invoices repository.InvoiceRepository
	posRepo  repository.POSConfigRepository
	pinger   httpRouter.Pinger
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Store.Driver == config.StoreMemory {
		store := memory.NewStore()
		return &storage{
			txRunner: store,
			invoices: store,
			posRepo:  store.POSConfigs(),
			pinger:   store,
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		txRunner: postgres.NewTxRunner(pool),
		invoices: postgres.NewInvoiceRepository(pool),
		posRepo:  postgres.NewPOSConfigRepository(pool),
		pinger:   pool,
		close:    pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	rules, err := config.NewRulesStore(cfg.AFIP.RulesPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.AFIP.RulesPath).Msg("cargar reglas de negocio")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	appMetrics := metrics.New(prometheus.DefaultRegisterer, metrics.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
	})

	caeGen := afip.NewCAEGenerator(rules.Current().Validation().CAEExpirationDays)
	invoiceSvc := billing.NewInvoiceService(
		store.txRunner, store.invoices,
		billing.NewInvoiceSequencer(store.posRepo),
		rules, caeGen, appMetrics, log,
	)
	wsfeUC := billing.NewWSFEUseCase(invoiceSvc, cfg.AFIP.DefaultTaxCategory)
	invoicePDFUC := billing.NewPDFUseCase(invoiceSvc, infrapdf.NewMarotoPDFGenerator())
	wsaaUC := auth.NewWSAAUseCase(auth.WSAAConfig{
		Secret:       cfg.WSAA.Secret,
		TTL:          time.Duration(cfg.WSAA.TTLHours) * time.Hour,
		Service:      cfg.WSAA.Service,
		Issuer:       cfg.App.Name,
		DefaultCUIT:  cfg.AFIP.DefaultCUIT,
		AuthRequired: cfg.AFIP.RequireAuth,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(cfg.App.IsDevelopment(), log.Named("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http"), appMetrics))

	httpRouter.Router(app, httpRouter.RouterDeps{
		WSAA:       wsaaUC,
		WSFE:       wsfeUC,
		Invoices:   invoiceSvc,
		InvoicePDF: invoicePDFUC,
		Validation: validation.NewUseCase(),
		Rules:      rules,
		Storage:    store.pinger,
		Gatherer:   prometheus.DefaultGatherer,
		Info: httpRouter.SystemInfo{
			ServiceName:    cfg.App.Name,
			StoreDriver:    cfg.Store.Driver,
			AuthRequired:   cfg.AFIP.RequireAuth,
			SimulateDelays: cfg.AFIP.SimulateDelays,
			StartedAt:      time.Now(),
		},
		DefaultCUIT: cfg.AFIP.DefaultCUIT,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	// SIGHUP recarga el archivo de reglas sin reiniciar.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if _, err := rules.Reload(); err != nil {
				log.Error().Err(err).Msg("recarga de reglas fallida, se mantienen las anteriores")
				continue
			}
			log.Info().Str("path", cfg.AFIP.RulesPath).Msg("reglas recargadas")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
