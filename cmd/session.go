// ABOUTME: Wires the API client, token store and session machine for commands
// ABOUTME: Also flushes metrics and closes logs when a command finishes

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/config"
	"github.com/markalston/hrdesk/internal/logger"
	"github.com/markalston/hrdesk/internal/metrics"
	"github.com/markalston/hrdesk/internal/session"
	"github.com/markalston/hrdesk/internal/tokenstore"
)

// app bundles the collaborators a command needs
type app struct {
	cfg     *config.Config
	client  *client.Client
	store   tokenstore.Store
	machine *session.Machine

	closeLog func()
}

// openSession builds the client and machine from configuration. The client
// reads its bearer token from the machine and reports 401s back to it.
func openSession(ctx context.Context) (*app, error) {
	cfg, err := appConfig(ctx)
	if err != nil {
		return nil, err
	}
	closeLog := logger.Setup(cfg.ConfigDir, cfg.LogLevel, cfg.LogFormat)

	store, err := tokenstore.Open(tokenstore.Config{
		Backend: cfg.TokenBackend,
		Dir:     cfg.ConfigDir,
		Origin:  tokenstore.Origin(cfg.APIURL),
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	return newApp(cfg, client.New(cfg.APIURL, client.WithTimeout(cfg.APITimeout)), store, closeLog), nil
}

// newApp connects an existing client and store through a new machine
func newApp(cfg *config.Config, c *client.Client, store tokenstore.Store, closeLog func()) *app {
	m := session.New(c, store)
	c.SetTokenSource(m.Token)
	c.OnUnauthorized(m.HandleUnauthorized)

	slog.Debug("Session opened", "api_url", c.BaseURL(), "backend", cfg.TokenBackend)
	return &app{cfg: cfg, client: c, store: store, machine: m, closeLog: closeLog}
}

// close writes the metrics textfile and releases the store and log file
func (a *app) close() {
	if err := metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		slog.Warn("Failed to write metrics", "path", a.cfg.MetricsFile, "error", err)
	}
	if c, ok := a.store.(io.Closer); ok {
		c.Close()
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}

// finish closes the app and exits with code; deferred calls do not run after
// os.Exit so this must be the last thing a command does
func (a *app) finish(code int) {
	a.close()
	if code != exitOK {
		os.Exit(code)
	}
}

// withSession opens a session, runs fn and exits with its code
func withSession(ctx context.Context, fn func(a *app) int) {
	a, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
	a.finish(fn(a))
}
