package cli

import (
	"fmt"

	"github.com/okonstantinov/wrench/internal/client/auth"
	"github.com/okonstantinov/wrench/internal/client/config"
	"github.com/okonstantinov/wrench/internal/client/iocli"
	"github.com/okonstantinov/wrench/internal/client/netmon"
	"github.com/okonstantinov/wrench/internal/client/repository"
	"github.com/okonstantinov/wrench/internal/client/sync"
)

// Cli ties the user-facing commands to the engine services.
// Команды тонкие: вся логика живет в repository и sync.
type Cli struct {
	io          iocli.IO
	authService *auth.Service
	orders      repository.Orders
	reconciler  *sync.Reconciler
	monitor     *netmon.Monitor
	cfg         *config.Config
}

func New(
	io iocli.IO,
	authService *auth.Service,
	orders repository.Orders,
	reconciler *sync.Reconciler,
	monitor *netmon.Monitor,
	cfg *config.Config,
) *Cli {
	return &Cli{
		io:          io,
		authService: authService,
		orders:      orders,
		reconciler:  reconciler,
		monitor:     monitor,
		cfg:         cfg,
	}
}

func PrintUsage() {
	fmt.Println("Wrench Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  wrench [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version      Show version information")
	fmt.Println("  --server URL   Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH      Path to local database (default: ~/.wrench/wrench.db)")
	fmt.Println("  --config PATH  Path to config file (default: ~/.wrench/config.yaml)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login                Login to the remote store")
	fmt.Println("  logout               Delete the local session")
	fmt.Println("  status               Show network, session and pending-sync status")
	fmt.Println("  add                  Add a new repair order (interactive)")
	fmt.Println("  list [-status S]     List orders, optionally filtered by status")
	fmt.Println("  get <id>             Show full order details")
	fmt.Println("  delete <id>          Delete an order")
	fmt.Println("  sync                 Force a synchronization pass")
	fmt.Println("  watch                Run in foreground, syncing on reconnect")
	fmt.Println()
	fmt.Println("Order statuses: new, in_progress, done, cancelled")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  wrench login")
	fmt.Println("  wrench add")
	fmt.Println("  wrench list -status in_progress")
	fmt.Println("  wrench get b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5")
	fmt.Println("  wrench --server https://workshop.example.com sync")
}
