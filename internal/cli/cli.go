package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figtree/pkg/buildinfo"
	"github.com/matzehuels/figtree/pkg/cache"
	"github.com/matzehuels/figtree/pkg/config"
	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/pipeline"
	"github.com/matzehuels/figtree/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "figtree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "figtree turns design documents into UI scene graphs",
		Long: `figtree reads a design document and rebuilds it as a native UI scene graph:
screens and reusable component templates with anchored layout, auto-layout,
scroll containers, masks and prototype transitions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOptions selects the backends of a CLI runner.
type runnerOptions struct {
	noCache  bool
	storeDir string
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(opts runnerOptions) (*pipeline.Runner, error) {
	ch, err := newCache(opts.noCache)
	if err != nil {
		return nil, err
	}
	var st store.Store
	if opts.storeDir != "" {
		if err := errors.ValidateOutputDir(opts.storeDir); err != nil {
			return nil, err
		}
		fs, err := store.NewFileStore(opts.storeDir)
		if err != nil {
			return nil, err
		}
		st = fs
	}
	return pipeline.NewRunner(ch, nil, st, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/figtree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Settings
// =============================================================================

// loadSettings reads the settings file at path. Without a path the
// default settings file in the working directory is used if present.
func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		if _, err := os.Stat(pipeline.DefaultSettingsFile); err != nil {
			return config.Default(), nil
		}
		path = pipeline.DefaultSettingsFile
	}
	return config.Load(path)
}
