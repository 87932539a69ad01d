package cli

import (
	"context"
	"errors"
	"time"

	"github.com/okonstantinov/wrench/internal/client/sync"
	"github.com/okonstantinov/wrench/internal/models"
)

// runWatch runs the client in foreground mode: the network monitor works
// continuously, reconnects trigger a queue drain and the pending badge is
// refreshed periodically.
func (c *Cli) runWatch(ctx context.Context) error {
	c.io.Println("=== Watch Mode ===")
	c.io.Println()
	c.io.Println("Watching for connectivity changes. Press Ctrl+C to stop.")
	c.io.Println()

	// Итог прогона печатаем один раз: финальная публикация дублирует
	// публикацию последнего элемента
	var lastPrinted models.SyncStats
	c.reconciler.Subscribe(func(stats models.SyncStats) {
		if stats.Processed != stats.Total || stats.Total == 0 || stats == lastPrinted {
			return
		}
		lastPrinted = stats
		c.io.Printf("[%s] Sync finished: %d succeeded, %d failed\n",
			time.Now().Format("15:04:05"), stats.Success, stats.Errors)
	})

	c.monitor.Subscribe(func(status models.NetworkStatus) {
		c.io.Printf("[%s] Network: %s\n", time.Now().Format("15:04:05"), networkLabel(status))
		if status.Online() {
			go c.drainQuietly(ctx)
		}
	})

	c.monitor.Start(ctx)

	// Стартовый прогон подхватывает очередь, накопленную между запусками
	if c.monitor.Status().Online() {
		go c.drainQuietly(ctx)
	}

	ticker := time.NewTicker(c.cfg.Sync.PendingPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.io.Println()
			c.io.Println("Stopped.")
			return nil
		case <-ticker.C:
			pending, err := c.orders.PendingOperationsCount(ctx)
			if err != nil {
				c.io.Printf("Warning: failed to get pending count: %v\n", err)
				continue
			}
			if pending > 0 {
				c.io.Printf("[%s] Pending sync: %d operation(s)\n",
					time.Now().Format("15:04:05"), pending)
			}
		}
	}
}

// drainQuietly запускает прогон, глотая ожидаемые не-ошибки.
func (c *Cli) drainQuietly(ctx context.Context) {
	if _, err := c.reconciler.Drain(ctx); err != nil {
		if errors.Is(err, sync.ErrSyncInProgress) || errors.Is(err, context.Canceled) {
			return
		}
		c.io.Printf("Warning: synchronization failed: %v\n", err)
	}
}
