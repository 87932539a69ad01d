package sync

import (
	"sync"
	"time"
)

// Notifier delivers user-visible sync summaries with de-duplication:
// одинаковый тип уведомления не повторяется чаще одного раза за окно.
// Состояние дедупликации принадлежит экземпляру, глобальных переменных нет.
type Notifier struct {
	sink   func(message string)
	window time.Duration

	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
}

// NewNotifier creates a notifier writing through sink.
// nil sink отключает уведомления (удобно в тестах).
func NewNotifier(window time.Duration, sink func(message string)) *Notifier {
	return &Notifier{
		sink:   sink,
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Notify delivers the message unless the same kind fired within the window
func (n *Notifier) Notify(kind, message string) {
	if n.sink == nil {
		return
	}

	n.mu.Lock()
	now := n.now()
	if fired, ok := n.last[kind]; ok && now.Sub(fired) < n.window {
		n.mu.Unlock()
		return
	}
	n.last[kind] = now
	n.mu.Unlock()

	n.sink(message)
}
