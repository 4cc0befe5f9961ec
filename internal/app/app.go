package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"

	"agoradb/internal/statsweep"
	"agoradb/pkg/banner"
	"agoradb/pkg/config"
	"agoradb/pkg/forum"
	"agoradb/pkg/ledger"
	"agoradb/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	svc *forum.Service
	srv *http.Server
}

// New initializes resources that do not require a running context (env,
// runtime keys, store, forum state). It does not start the HTTP server
// or the stats sweeper; call Run to start those and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	// runtime keys
	runtimeCfg := &config.RuntimeConfig{BackendKeys: map[string]struct{}{}, SigningKeys: map[string]struct{}{}}
	for _, k := range eff.Config.Security.APIKeys.Backend {
		runtimeCfg.BackendKeys[k] = struct{}{}
		runtimeCfg.SigningKeys[k] = struct{}{}
	}
	config.SetRuntime(runtimeCfg)

	// open store
	if err := store.Open(eff.DBPath); err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
	}

	svc, err := forum.New(forum.Options{
		Operator:    eff.Config.Forum.Operator,
		DefaultFees: eff.Config.Forum.Fees,
		Ledger:      ledger.NewJournal(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load forum state: %w", err)
	}

	return &App{eff: eff, version: version, commit: commit, buildDate: buildDate, svc: svc}, nil
}

// validateConfig rejects configurations the server cannot run with.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.Config == nil {
		return fmt.Errorf("no configuration loaded")
	}
	if eff.Config.Forum.Operator == "" {
		return fmt.Errorf("forum.operator is required")
	}
	if eff.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	cert := eff.Config.Server.TLS.CertFile
	key := eff.Config.Server.TLS.KeyFile
	if (cert == "") != (key == "") {
		return fmt.Errorf("tls cert_file and key_file must both be set")
	}
	return nil
}

// Run starts the stats sweeper and the HTTP server, and blocks until
// ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	stopSweep, err := statsweep.Start(ctx, a.eff.Config.Stats, a.svc)
	if err != nil {
		return err
	}
	defer stopSweep()

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// printBanner prints the startup banner and build info.
func (a *App) printBanner() {
	verStr := a.version
	if a.commit != "" && a.commit != "none" {
		verStr += " (" + a.commit + ")"
	}
	if a.buildDate != "" && a.buildDate != "unknown" {
		verStr += " @ " + a.buildDate
	}
	banner.PrintWithEff(a.eff, verStr)
}
