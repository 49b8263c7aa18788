package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mewc/pkg/api"
	"github.com/matzehuels/mewc/pkg/cache"
	"github.com/matzehuels/mewc/pkg/config"
	"github.com/matzehuels/mewc/pkg/observability"
	"github.com/matzehuels/mewc/pkg/pipeline"
	"github.com/matzehuels/mewc/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	store    string
	mongoURI string
	noCache  bool
}

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve runs the JSON API:

  GET  /healthz
  POST /v1/solve
  POST /v1/compare
  GET  /v1/runs
  GET  /v1/runs/{id}

Runs are recorded in memory or in MongoDB (--store mongo).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = opts.addr
			}
			if flags.Changed("store") {
				cfg.Store.Backend = opts.store
			}
			if flags.Changed("mongo-uri") {
				cfg.Store.MongoURI = opts.mongoURI
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&opts.store, "store", "", "run store: memory (default), mongo")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection string for --store mongo")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// apiKeyScope prefixes cache keys written by the API.
const apiKeyScope = "api:"

func (c *CLI) runServe(ctx context.Context, cfg config.File, noCache bool) error {
	runner, err := c.newAPIRunner(ctx, cfg.Cache, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	observability.NewLogHooks(c.Logger).Register()
	defer observability.Reset()

	srv := api.New(runner, st, api.Config{
		MaxVertices:    cfg.Server.MaxVertices,
		RequestTimeout: cfg.Server.RequestTimeout,
		Concurrency:    cfg.Server.Concurrency,
		Strategy:       cfg.Strategy(),
		Solver:         cfg.SolverOptions(),
	}, c.Logger)

	printSuccess("Serving on %s", StyleLink.Render("http://"+listenHost(cfg.Server.Addr)))
	printDetail("store: %s · cache: %s", cfg.Store.Backend, cacheLabel(cfg.Cache, noCache))

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		return err
	}
	printInfo("Server stopped")
	return nil
}

// newAPIRunner returns a runner whose cache entries live apart from the
// CLI's when both use the same backend.
func (c *CLI) newAPIRunner(ctx context.Context, cfg config.Cache, noCache bool) (*pipeline.Runner, error) {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner.Keyer = cache.NewScopedKeyer(nil, apiKeyScope)
	return runner, nil
}

// newStore opens the run store named in cfg.
func newStore(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Backend {
	case config.StoreMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	default:
		return store.NewMemoryStore(), nil
	}
}

// listenHost turns ":8080" into "localhost:8080" for display.
func listenHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func cacheLabel(cfg config.Cache, noCache bool) string {
	if noCache {
		return config.CacheNone
	}
	return cfg.Backend
}
