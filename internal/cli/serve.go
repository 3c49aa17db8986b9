package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figtree/internal/server"
	"github.com/matzehuels/figtree/pkg/config"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// serveFlags are the flags of the serve command.
type serveFlags struct {
	addr     string
	envFile  string
	settings string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the build API over HTTP",
		Long: `Serve the build API over HTTP.

Configuration is read from the environment, after loading --env-file if it
exists:

  FIGTREE_ADDR        listen address (default :8080)
  FIGTREE_REDIS_URL   Redis bundle cache (optional)
  FIGTREE_MONGO_URI   MongoDB template store (optional)
  FIGTREE_MONGO_DB    MongoDB database (default figtree)
  FIGTREE_STORE_DIR   directory template store, used without MongoDB
  FIGTREE_SETTINGS    settings file applied to every build

Without a store the server keeps builds in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address, overrides "+config.EnvAddr)
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "environment file")
	cmd.Flags().StringVarP(&f.settings, "settings", "s", "", "settings file, overrides "+config.EnvSettings)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, f serveFlags) error {
	cfg, err := config.LoadServer(f.envFile)
	if err != nil {
		return err
	}
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if f.settings != "" {
		cfg.Settings = f.settings
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings := config.Default()
	if cfg.Settings != "" {
		if settings, err = config.Load(cfg.Settings); err != nil {
			return err
		}
	}

	runner, err := server.NewRunner(ctx, cfg, c.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(context.WithoutCancel(ctx)); err != nil {
			c.Logger.Warn("close backends", "err", err)
		}
	}()

	srv := server.New(runner,
		server.WithSettings(settings),
		server.WithLogger(c.Logger),
	)
	return srv.ListenAndServe(ctx, cfg.Addr, shutdownTimeout)
}
