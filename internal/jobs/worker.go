package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TaskHandler permite registrar handlers adicionales al armar el worker.
type TaskHandler struct {
	Type    string
	Handler asynq.HandlerFunc
}

// WorkerConfig dependencias del worker.
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Logger      zerolog.Logger
	Concurrency int
	Handlers    []TaskHandler
}

// Worker envuelve el servidor asynq.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger zerolog.Logger
}

// NewWorker construye el worker con los handlers recibidos.
func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	logger := cfg.Logger
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{QueueDefault: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, t *asynq.Task, err error) {
			logger.Error().Err(err).Str("task", t.Type()).Msg("tarea falhou")
		}),
	})
	mux := asynq.NewServeMux()
	for _, h := range cfg.Handlers {
		if h.Type == "" || h.Handler == nil {
			continue
		}
		mux.HandleFunc(h.Type, h.Handler)
	}
	return &Worker{server: srv, mux: mux, logger: logger}
}

// Run arranca el servidor y procesa tareas hasta que se cancele ctx.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: no configurado")
	}
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	w.logger.Info().Msg("worker: processando tarefas")
	<-ctx.Done()
	w.logger.Info().Msg("worker: apagando")
	w.server.Shutdown()
	return nil
}
