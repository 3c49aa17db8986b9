package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figtree/pkg/flow"
	"github.com/matzehuels/figtree/pkg/pipeline"
	"github.com/matzehuels/figtree/pkg/scene"
)

// buildFlags are the flags of the build command.
type buildFlags struct {
	settings string
	output   string
	storeDir string
	noCache  bool
	refresh  bool
	watch    bool
}

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build [document.json]",
		Short: "Generate a scene bundle from a design document",
		Long: `Generate a scene bundle from a design document.

The bundle holds every screen and component template as a standalone scene
tree, plus the prototype flow. It is written next to the document as
<name>.bundle.json unless --output is given.

With --store-dir the templates are also written to a template store, one
JSON file per template under the build id. With --watch the document and
settings file are rebuilt whenever they change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.watch {
				return c.watchBuild(cmd.Context(), args[0], f)
			}
			return c.runBuild(cmd.Context(), args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.settings, "settings", "s", "", "settings file (.toml, .yaml); default "+pipeline.DefaultSettingsFile+" if present")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "bundle output file")
	cmd.Flags().StringVar(&f.storeDir, "store-dir", "", "persist templates to this directory")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached bundles")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "rebuild when the document or settings change")

	return cmd
}

// runBuild builds the document once and writes the bundle.
func (c *CLI) runBuild(ctx context.Context, input string, f buildFlags) error {
	settings, err := loadSettings(f.settings)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(runnerOptions{noCache: f.noCache, storeDir: f.storeDir})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close(context.WithoutCancel(ctx))

	spinner := newSpinner(ctx, "Building "+filepath.Base(input)+"...")
	spinner.Start()
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, pipeline.Options{
		Source:   input,
		Settings: settings,
		Refresh:  f.refresh,
		Logger:   c.Logger,
		OnScreen: func(e flow.Entry) {
			spinner.Update("Building " + e.Name + "...")
		},
	})
	if err != nil {
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build: %w", err)
	}
	spinner.Stop()
	prog.done("Built " + result.Document.Name)

	output := f.output
	if output == "" {
		output = bundlePath(input)
	}
	if err := scene.WriteBundleFile(result.Bundle, output); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	c.printf(statusSuccess, "Generated %d screens and %d components", len(result.Bundle.Screens), len(result.Bundle.Components))
	fmt.Fprintln(c.Out, statsLine(result.Stats, result.CacheInfo.BundleHit))
	c.file(output)
	if result.Stats.Persisted > 0 {
		c.keyValue("Build", result.BuildID)
		c.keyValue("Store", f.storeDir)
	}
	if result.Build != nil && result.Build.Stats.Orphans > 0 {
		c.printf(statusWarning, "%d instances reference missing components", result.Build.Stats.Orphans)
	}
	if result.Stats.MissingAssets > 0 {
		c.printf(statusWarning, "%d server renders missing from %s", result.Stats.MissingAssets, settings.Assets.Dir)
	}
	if fg := result.Bundle.Flow; fg != nil {
		if ids := fg.Unreachable(); len(ids) > 0 {
			c.printf(statusWarning, "%d screens are unreachable from any flow starting point", len(ids))
			c.Logger.Debug("unreachable screens", "ids", strings.Join(ids, ", "))
		}
	}
	return nil
}

// bundlePath derives the default bundle path from the document path:
// shop.json becomes shop.bundle.json.
func bundlePath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".bundle.json"
}

// watchBuild builds once, then rebuilds on every change of the document or
// settings file until ctx is cancelled. Build errors are logged and do not
// stop the watch.
func (c *CLI) watchBuild(ctx context.Context, input string, f buildFlags) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Editors often replace files on save, so the directories are watched
	// and events filtered by name.
	watched := map[string]bool{filepath.Clean(input): true}
	if f.settings != "" {
		watched[filepath.Clean(f.settings)] = true
	}
	dirs := make(map[string]bool)
	for path := range watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	rebuild := func() {
		if err := c.runBuild(ctx, input, f); err != nil && ctx.Err() == nil {
			c.Logger.Error("build failed", "err", err)
		}
	}
	rebuild()
	c.printf(statusInfo, "Watching %s for changes", input)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-fire:
			fire = nil
			rebuild()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isRelevant(ev, watched) {
				continue
			}
			c.Logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			loggerFromContext(ctx).Warn("watcher error", "err", err)
		}
	}
}

// isRelevant reports whether ev writes or creates one of the watched files.
func isRelevant(ev fsnotify.Event, watched map[string]bool) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return false
	}
	return watched[filepath.Clean(ev.Name)]
}
