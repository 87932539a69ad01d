package netmon

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonstantinov/wrench/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder накапливает опубликованные статусы.
type recorder struct {
	mu       sync.Mutex
	statuses []models.NetworkStatus
}

func (r *recorder) record(status models.NetworkStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *recorder) all() []models.NetworkStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.NetworkStatus, len(r.statuses))
	copy(out, r.statuses)
	return out
}

func (r *recorder) onlineTransitions() int {
	count := 0
	for _, s := range r.all() {
		if s.Online() {
			count++
		}
	}
	return count
}

func TestNew_StartsOnline(t *testing.T) {
	m := New(ProbeFunc(func(context.Context) bool { return true }), time.Second, time.Minute, testLogger())
	assert.True(t, m.Status().Online())
}

func TestHandleDisconnect_ImmediateOffline(t *testing.T) {
	m := New(ProbeFunc(func(context.Context) bool { return true }), time.Second, time.Minute, testLogger())

	rec := &recorder{}
	m.Subscribe(rec.record)

	m.HandleDisconnect()

	assert.Equal(t, models.NetworkStatus{}, m.Status())
	require.Len(t, rec.all(), 1)
	assert.False(t, rec.all()[0].Online())

	// Повторный сигнал обрыва ничего не публикует
	m.HandleDisconnect()
	assert.Len(t, rec.all(), 1)
}

func TestHandleConnect_SettlesIntoOnline(t *testing.T) {
	m := New(ProbeFunc(func(context.Context) bool { return true }), 20*time.Millisecond, time.Minute, testLogger())
	m.HandleDisconnect()

	rec := &recorder{}
	m.Subscribe(rec.record)

	m.HandleConnect()

	// До истечения settle-окна статус RECONNECTING, не ONLINE
	status := m.Status()
	assert.True(t, status.IsConnecting)
	assert.False(t, status.Online())

	require.Eventually(t, func() bool {
		return m.Status().Online()
	}, time.Second, 5*time.Millisecond)

	// ONLINE опубликован ровно один раз
	assert.Equal(t, 1, rec.onlineTransitions())
}

func TestFlapDuringSettle_NeverGoesOnline(t *testing.T) {
	m := New(ProbeFunc(func(context.Context) bool { return true }), 30*time.Millisecond, time.Minute, testLogger())
	m.HandleDisconnect()

	rec := &recorder{}
	m.Subscribe(rec.record)

	// Flap: восстановление и обрыв внутри settle-окна
	m.HandleConnect()
	m.HandleDisconnect()

	// Даем settle-таймеру шанс сработать, если он не был остановлен
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, models.NetworkStatus{}, m.Status())
	assert.Equal(t, 0, rec.onlineTransitions())
}

func TestFlap_RepeatedCyclesSuppressed(t *testing.T) {
	m := New(ProbeFunc(func(context.Context) bool { return true }), 50*time.Millisecond, time.Minute, testLogger())
	m.HandleDisconnect()

	rec := &recorder{}
	m.Subscribe(rec.record)

	for i := 0; i < 5; i++ {
		m.HandleConnect()
		m.HandleDisconnect()
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, rec.onlineTransitions())
}

func TestSettle_SecondConnectDoesNotDoubleEmit(t *testing.T) {
	m := New(ProbeFunc(func(context.Context) bool { return true }), 20*time.Millisecond, time.Minute, testLogger())
	m.HandleDisconnect()

	rec := &recorder{}
	m.Subscribe(rec.record)

	m.HandleConnect()
	// Повторный connect в состоянии RECONNECTING игнорируется
	m.HandleConnect()

	require.Eventually(t, func() bool {
		return m.Status().Online()
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, rec.onlineTransitions())
}

func TestPoll_DetectsMissedDisconnect(t *testing.T) {
	var online atomic.Bool
	online.Store(true)

	m := New(ProbeFunc(func(context.Context) bool { return online.Load() }),
		10*time.Millisecond, 15*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	require.Eventually(t, func() bool {
		return m.Status().Online()
	}, time.Second, 5*time.Millisecond)

	// Событие обрыва "потерялось": его обнаруживает периодический опрос
	online.Store(false)

	require.Eventually(t, func() bool {
		s := m.Status()
		return !s.IsOnline && !s.IsConnecting
	}, time.Second, 5*time.Millisecond)
}

func TestPoll_DetectsMissedConnect(t *testing.T) {
	var online atomic.Bool

	m := New(ProbeFunc(func(context.Context) bool { return online.Load() }),
		10*time.Millisecond, 15*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	// Первый же опрос переводит базовый ONLINE в OFFLINE
	require.Eventually(t, func() bool {
		return !m.Status().Online()
	}, time.Second, 5*time.Millisecond)

	online.Store(true)

	// Связь вернулась: опрос проводит машину через RECONNECTING в ONLINE
	require.Eventually(t, func() bool {
		return m.Status().Online()
	}, time.Second, 5*time.Millisecond)
}
