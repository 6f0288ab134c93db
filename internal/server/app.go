// Package server wires the feedback server together: content tree, site
// resolution, plugin chain, entry store and the gRPC endpoint. It also
// handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophfeedback/internal/logging"
	"github.com/dmitrijs2005/gophfeedback/internal/server/config"
	"github.com/dmitrijs2005/gophfeedback/internal/server/content"
	"github.com/dmitrijs2005/gophfeedback/internal/server/plugins"
	"github.com/dmitrijs2005/gophfeedback/internal/server/services"
	"github.com/dmitrijs2005/gophfeedback/internal/server/sites"
	"github.com/dmitrijs2005/gophfeedback/internal/server/store"

	gs "github.com/dmitrijs2005/gophfeedback/internal/server/grpc"
)

var logOutput io.Writer = os.Stdout

type App struct {
	config       *config.Config
	logger       logging.Logger
	tree         *content.Tree
	resolver     *sites.Resolver
	chain        *plugins.Chain
	store        *store.Store
	entryService *services.EntryService
}

// NewApp builds the application from c. Extra plugins run after the
// default plugin, in the given order.
func NewApp(ctx context.Context, c *config.Config, extra ...plugins.Plugin) (*App, error) {

	logger := logging.NewJSONLogger(logOutput, c.Level())

	if err := c.Validate(); err != nil {
		return nil, err
	}

	tree, err := content.LoadTree(c.ContentFile)
	if err != nil {
		return nil, fmt.Errorf("content init error: %w", err)
	}
	resolver := sites.NewResolver(tree, sites.SettingsFrom(tree.Settings()))

	chain := plugins.NewChain(logger)
	if !c.DisableDefaultPlugin {
		chain.Register(plugins.NewDefault(resolver, tree))
	}
	for _, p := range extra {
		chain.Register(p)
	}

	st, err := store.Open(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	opts := []services.Option{services.WithPerPage(c.PerPage)}
	if c.CreatedStatus {
		opts = append(opts, services.WithCreatedStatus())
	}
	es := services.NewEntryService(st.Entries, chain, logger, opts...)

	return &App{
		config:       c,
		logger:       logger,
		tree:         tree,
		resolver:     resolver,
		chain:        chain,
		store:        st,
		entryService: es,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.entryService, app.tree, app.resolver, app.tree)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}

	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the store.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "plugins", len(app.chain.Plugins()), "store", app.store.Backend)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
