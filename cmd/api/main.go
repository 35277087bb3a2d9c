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

	_ "github.com/alumasa/almoxarifado-api/docs"
	"github.com/alumasa/almoxarifado-api/internal/application/audit"
	"github.com/alumasa/almoxarifado-api/internal/application/auth"
	"github.com/alumasa/almoxarifado-api/internal/application/backup"
	"github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/application/report"
	"github.com/alumasa/almoxarifado-api/internal/application/usecase"
	infrapdf "github.com/alumasa/almoxarifado-api/internal/infrastructure/pdf"
	httpRouter "github.com/alumasa/almoxarifado-api/internal/interfaces/http"
	"github.com/alumasa/almoxarifado-api/pkg/config"
	"github.com/alumasa/almoxarifado-api/pkg/logger"
)

// @title                       Alumasa Almoxarifado API
// @version                     1.0
// @description                 Controle do almoxarifado: itens, movimentações, contagem de inventário e relatórios.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	coord := openCoordination(cfg, log)
	defer coord.close()

	loc := cfg.App.Location()
	auditSvc := audit.NewService(store.audit, loc)

	ledger := inventory.NewLedger(store.items, coord.locker, auditSvc)
	recorder := inventory.NewMovementRecorder(
		store.tx, store.items, store.suppliers, coord.locker, auditSvc,
		inventory.WithLocation(loc),
		inventory.WithLowStockNotifier(coord.notifier),
	)
	reconciler := inventory.NewReconciler(store.items, store.tx, coord.locker, auditSvc)

	// PDF: posição de estoque y folha de contagem
	renderer := infrapdf.NewMarotoRenderer("Alumasa")
	reports := report.NewService(store.items, store.movements, store.suppliers, renderer, loc)

	authUC := auth.NewAuthUseCase(store.users, auditSvc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.App.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Almoxarifado API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Ledger:     ledger,
		Recorder:   recorder,
		Reconciler: reconciler,
		Reports:    reports,
		SupplierUC: usecase.NewSupplierUseCase(store.suppliers, auditSvc),
		UserUC:     usecase.NewUserUseCase(store.users, auditSvc),
		Audit:      auditSvc,
		Backup:     backup.NewService(store.snapshots, auditSvc, loc),
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
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
