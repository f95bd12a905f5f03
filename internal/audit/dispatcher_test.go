package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/testutil"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestDispatcher_WritesAndPublishes(t *testing.T) {
	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	d := NewDispatcher(New(db), pub, zap.NewNop())

	userID := uint(3)
	d.Dispatch(Event{
		PracticeID: 1,
		UserID:     &userID,
		Action:     "create",
		EntityType: "appointment",
		EntityID:   42,
		Diff:       map[string]any{"status": "scheduled"},
	})
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	assert.Equal(t, uint(1), logs[0].PracticeID)
	assert.Equal(t, "create", logs[0].Action)
	assert.Equal(t, "appointment", logs[0].EntityType)
	assert.Equal(t, uint(42), logs[0].EntityID)
	assert.JSONEq(t, `{"status":"scheduled"}`, string(logs[0].Diff))

	assert.Equal(t, []string{"appointment.create"}, pub.keys)
}

func TestDispatcher_PublishFailureIsSwallowed(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db), &recordingPublisher{err: errors.New("broker down")}, zap.NewNop())

	d.Dispatch(Event{PracticeID: 1, Action: "delete", EntityType: "payment", EntityID: 9})
	d.Close()

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDispatcher_DispatchAfterCloseIsDropped(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db), nil, zap.NewNop())
	d.Close()
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(Event{PracticeID: 1, Action: "create", EntityType: "client"})
	})
}
