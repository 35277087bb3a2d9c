package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/alumasa/almoxarifado-api/internal/application/audit"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/postgres"
	"github.com/alumasa/almoxarifado-api/internal/jobs"
	"github.com/alumasa/almoxarifado-api/pkg/config"
	"github.com/alumasa/almoxarifado-api/pkg/logger"
)

// Worker de alertas de estoque baixo. Consume la cola que la API alimenta cuando REDIS_ADDR está definido.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("REDIS_ADDR es obligatorio para el worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Con memoria cada proceso tiene su propio estado: la auditoría solo tiene sentido en PostgreSQL.
	var recorder jobs.AuditRecorder
	if cfg.Storage.Driver == config.StoragePostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		recorder = audit.NewService(postgres.NewAuditRepository(pool), cfg.App.Location())
	} else {
		log.Warn().Msg("STORAGE_DRIVER=memory: alertas solo en log")
	}

	lowStock := jobs.NewLowStockHandler(recorder)
	worker := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Logger:      log.Zerolog(),
		Concurrency: 5,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLowStock, Handler: lowStock.Handle},
		},
	})

	log.Info().Str("redis", cfg.Redis.Addr).Msg("iniciando worker")
	if err := worker.Run(ctx); err != nil {
		log.Error().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
