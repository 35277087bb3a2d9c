package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/lock"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/memory"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/postgres"
	"github.com/alumasa/almoxarifado-api/internal/jobs"
	"github.com/alumasa/almoxarifado-api/pkg/config"
	"github.com/alumasa/almoxarifado-api/pkg/logger"
)

// storage repositorios del backend elegido en STORAGE_DRIVER.
type storage struct {
	items     repository.ItemRepository
	movements repository.MovementRepository
	suppliers repository.SupplierRepository
	users     repository.UserRepository
	audit     repository.AuditRepository
	snapshots repository.SnapshotStore
	tx        inventory.TxRunner
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StoragePostgres {
		return openPostgres(ctx, cfg, log)
	}
	store := memory.NewStore()
	if cfg.Seed.Enabled {
		adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin: %w", err)
		}
		opHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.OperatorPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash almoxarife: %w", err)
		}
		memory.Seed(store, string(adminHash), string(opHash), time.Now())
		log.Info().Msg("catálogo de demostración cargado")
	}
	return &storage{
		items:     store.Items(),
		movements: store.Movements(),
		suppliers: store.Suppliers(),
		users:     store.Users(),
		audit:     store.Audit(),
		snapshots: store.SnapshotStore(),
		tx:        memory.NewTxRunner(store),
		close:     func() {},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("hash admin: %w", err)
	}
	created, err := postgres.EnsureAdmin(ctx, pool, "admin", string(hash))
	if err != nil {
		pool.Close()
		return nil, err
	}
	if created {
		log.Warn().Msg("usuario admin inicial creado; cambie la contraseña")
	}
	return &storage{
		items:     postgres.NewItemRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		suppliers: postgres.NewSupplierRepository(pool),
		users:     postgres.NewUserRepository(pool),
		audit:     postgres.NewAuditRepository(pool),
		snapshots: postgres.NewSnapshotStore(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}

// coordination locks y aviso de estoque baixo. Con REDIS_ADDR son distribuidos.
type coordination struct {
	locker   inventory.Locker
	notifier inventory.LowStockNotifier
	close    func()
}

func openCoordination(cfg *config.Config, log *logger.Logger) *coordination {
	if !cfg.Redis.Enabled() {
		log.Info().Msg("sin Redis: locks locales, alertas solo en log")
		return &coordination{locker: lock.NewLocalLocker(), notifier: jobs.LogNotifier{}, close: func() {}}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Info().Str("redis", cfg.Redis.Addr).Msg("locks distribuidos y cola de alertas habilitados")
	return &coordination{
		locker:   lock.NewRedisLocker(rdb, "almoxarifado:lock:"),
		notifier: jobs.NewAsynqNotifier(client),
		close: func() {
			_ = client.Close()
			_ = rdb.Close()
		},
	}
}
