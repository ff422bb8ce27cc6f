package cli

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/revline/revline-go/internal/client/api"
	"github.com/revline/revline-go/internal/client/auth"
	"github.com/revline/revline-go/internal/client/config"
	"github.com/revline/revline-go/internal/client/portals"
	"github.com/revline/revline-go/internal/client/session"
	"github.com/revline/revline-go/internal/client/vault"
	"github.com/revline/revline-go/internal/filex"
	"github.com/revline/revline-go/internal/logging"
)

// App wires the whole client together for the interactive CLI: config,
// session store with its vault, transport, auth orchestrator, and the
// role-scoped portal facades.
type App struct {
	config   *config.Config
	log      logging.Logger
	sessions *session.Store
	auth     *auth.Orchestrator
	vault    vault.Vault

	admin         *portals.Admin
	seller        *portals.Seller
	mechanic      *portals.Mechanic
	investor      *portals.Investor
	notifications *portals.Notifications

	reader *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewConsoleLogger(os.Stderr, cfg.LogLevel)

	dir, err := filex.EnsureSubDir(cfg.VaultDir)
	if err != nil {
		return nil, err
	}

	v, err := vault.Open(ctx, filepath.Join(dir, "session.db"), []byte(cfg.DeviceSecret))
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(v, log)

	apiClient := api.New(cfg.BaseURL, cfg.RequestTimeout, sessions, log)
	apiClient.SetDebug(cfg.Debug)
	// A 401 anywhere terminates the session for every screen.
	apiClient.SetUnauthorizedHook(func() {
		sessions.Logout(context.Background())
	})

	return &App{
		config:        cfg,
		log:           log,
		sessions:      sessions,
		auth:          auth.New(apiClient, sessions, log),
		vault:         v,
		admin:         portals.NewAdmin(apiClient),
		seller:        portals.NewSeller(apiClient),
		mechanic:      portals.NewMechanic(apiClient),
		investor:      portals.NewInvestor(apiClient),
		notifications: portals.NewNotifications(apiClient),
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

// Run hydrates the persisted session and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.sessions.Hydrate(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close releases the vault.
func (a *App) Close() {
	if err := a.vault.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close vault", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Snapshot().Authenticated
}
