package netmon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/okonstantinov/wrench/internal/models"
)

// Probe is the raw connectivity signal the monitor observes.
// Продакшен-реализация пингует health-эндпоинт удаленного хранилища.
type Probe interface {
	Online(ctx context.Context) bool
}

// ProbeFunc adapts a plain function to the Probe interface
type ProbeFunc func(ctx context.Context) bool

// Online calls the wrapped function
func (f ProbeFunc) Online(ctx context.Context) bool {
	return f(ctx)
}

// Monitor observes connectivity transitions, debounces flapping and exposes
// a stable status.
//
// Машина состояний:
//
//	ONLINE  -> OFFLINE       немедленно по сигналу обрыва
//	OFFLINE -> RECONNECTING  немедленно по сигналу восстановления
//	RECONNECTING -> OFFLINE  если обрыв пришел до истечения settle-окна
//	RECONNECTING -> ONLINE   если окно истекло, а связь держится
//
// Переход в ONLINE публикуется ровно один раз. Периодический опрос probe
// сверяет сырой сигнал с последним опубликованным статусом и доводит машину
// до согласованного состояния, если события были пропущены.
type Monitor struct {
	probe        Probe
	settle       time.Duration
	pollInterval time.Duration
	logger       *slog.Logger

	mu          sync.Mutex
	status      models.NetworkStatus
	settleTimer *time.Timer
	subs        []func(models.NetworkStatus)
}

// New creates a monitor with the ONLINE baseline.
// Первый же опрос в Start скорректирует статус, если связи нет.
func New(probe Probe, settle, pollInterval time.Duration, logger *slog.Logger) *Monitor {
	return &Monitor{
		probe:        probe,
		settle:       settle,
		pollInterval: pollInterval,
		logger:       logger,
		status:       models.NetworkStatus{IsOnline: true},
	}
}

// Status returns the current connectivity status
func (m *Monitor) Status() models.NetworkStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Subscribe registers a listener for status changes.
// Листенеры вызываются синхронно, без удержания внутреннего лока.
func (m *Monitor) Subscribe(fn func(models.NetworkStatus)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Start runs the periodic poll cross-check until ctx is cancelled.
// Возвращается сразу, опрос работает в отдельной горутине.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		m.poll(ctx)

		ticker := time.NewTicker(m.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.poll(ctx)
			}
		}
	}()
}

// HandleConnect feeds a raw connect signal into the state machine
func (m *Monitor) HandleConnect() {
	m.mu.Lock()

	if m.status.IsOnline || m.status.IsConnecting {
		m.mu.Unlock()
		return
	}

	// OFFLINE -> RECONNECTING: запускаем settle-таймер
	m.status = models.NetworkStatus{IsConnecting: true}
	m.settleTimer = time.AfterFunc(m.settle, m.settleFired)
	status := m.status
	subs := m.listeners()
	m.mu.Unlock()

	m.logger.Debug("connectivity restored, settling", "settle", m.settle)
	notify(subs, status)
}

// HandleDisconnect feeds a raw disconnect signal into the state machine
func (m *Monitor) HandleDisconnect() {
	m.mu.Lock()

	if !m.status.IsOnline && !m.status.IsConnecting {
		m.mu.Unlock()
		return
	}

	wasConnecting := m.status.IsConnecting
	if m.settleTimer != nil {
		m.settleTimer.Stop()
		m.settleTimer = nil
	}
	m.status = models.NetworkStatus{}
	status := m.status
	subs := m.listeners()
	m.mu.Unlock()

	if wasConnecting {
		m.logger.Debug("connectivity flapped during settle window")
	} else {
		m.logger.Info("connectivity lost")
	}
	notify(subs, status)
}

// settleFired переводит RECONNECTING в ONLINE, если обрыв не успел вернуть
// машину в OFFLINE.
func (m *Monitor) settleFired() {
	m.mu.Lock()

	if !m.status.IsConnecting {
		m.mu.Unlock()
		return
	}

	m.status = models.NetworkStatus{IsOnline: true}
	m.settleTimer = nil
	status := m.status
	subs := m.listeners()
	m.mu.Unlock()

	m.logger.Info("connectivity stable, back online")
	notify(subs, status)
}

// poll сверяет сырой сигнал с текущим статусом и доводит машину до него.
func (m *Monitor) poll(ctx context.Context) {
	raw := m.probe.Online(ctx)

	m.mu.Lock()
	current := m.status
	m.mu.Unlock()

	switch {
	case raw && !current.IsOnline && !current.IsConnecting:
		m.logger.Debug("poll detected missed connect event")
		m.HandleConnect()
	case !raw && (current.IsOnline || current.IsConnecting):
		m.logger.Debug("poll detected missed disconnect event")
		m.HandleDisconnect()
	}
}

// listeners возвращает копию списка подписчиков под локом.
func (m *Monitor) listeners() []func(models.NetworkStatus) {
	subs := make([]func(models.NetworkStatus), len(m.subs))
	copy(subs, m.subs)
	return subs
}

func notify(subs []func(models.NetworkStatus), status models.NetworkStatus) {
	for _, fn := range subs {
		fn(status)
	}
}
