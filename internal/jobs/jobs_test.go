package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/jobs"
)

type recordedAudit struct {
	actor, action, description string
}

type fakeAudit struct {
	entries []recordedAudit
}

func (f *fakeAudit) Record(_ context.Context, actor, action, description string) {
	f.entries = append(f.entries, recordedAudit{actor, action, description})
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t-1", Type: task.Type()}, nil
}

func luva() entity.Item {
	return entity.Item{
		ID: "item-1", Code: "EPI-100", Description: "Luva de vaqueta",
		Quantity: decimal.NewFromInt(20), MinQuantity: decimal.NewFromInt(30),
	}
}

func TestAsynqNotifier_EncolaPayload(t *testing.T) {
	enq := &fakeEnqueuer{}
	require.NoError(t, jobs.NewAsynqNotifier(enq).NotifyLowStock(context.Background(), luva()))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, jobs.TaskLowStock, enq.tasks[0].Type())

	var p jobs.LowStockPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
	assert.Equal(t, "EPI-100", p.Code)
	assert.Equal(t, "20", p.Quantity)
	assert.Equal(t, "30", p.MinQuantity)
}

func TestAsynqNotifier_ErrorDeRedis(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	err := jobs.NewAsynqNotifier(enq).NotifyLowStock(context.Background(), luva())
	assert.ErrorContains(t, err, "redis down")
}

func TestLowStockHandler_AuditaAlerta(t *testing.T) {
	audit := &fakeAudit{}
	task, err := jobs.NewLowStockTask(jobs.PayloadFromItem(luva()))
	require.NoError(t, err)

	require.NoError(t, jobs.NewLowStockHandler(audit).Handle(context.Background(), task))
	require.Len(t, audit.entries, 1)
	assert.Equal(t, jobs.SystemActor, audit.entries[0].actor)
	assert.Equal(t, entity.AuditLowStock, audit.entries[0].action)
	assert.Contains(t, audit.entries[0].description, "EPI-100")
}

func TestLowStockHandler_PayloadInvalidoNoReintenta(t *testing.T) {
	h := jobs.NewLowStockHandler(nil)
	err := h.Handle(context.Background(), asynq.NewTask(jobs.TaskLowStock, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.Handle(context.Background(), asynq.NewTask(jobs.TaskLowStock, []byte(`{"code":""}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, jobs.LogNotifier{}.NotifyLowStock(context.Background(), luva()))
}
