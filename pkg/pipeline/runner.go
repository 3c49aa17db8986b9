package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figtree/pkg/assets"
	"github.com/matzehuels/figtree/pkg/cache"
	"github.com/matzehuels/figtree/pkg/component"
	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/generate"
	"github.com/matzehuels/figtree/pkg/observability"
	"github.com/matzehuels/figtree/pkg/scene"
	"github.com/matzehuels/figtree/pkg/store"
	"github.com/matzehuels/figtree/pkg/substitution"
)

// Runner encapsulates pipeline execution with caching and persistence.
// Both CLI and API use it to avoid duplicating that logic.
//
// The Runner is stateless except for its backends: it doesn't keep results.
// Multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // nil disables persistence
	Logger *log.Logger
}

// NewRunner creates a runner with the given backends.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, s store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  s,
		Logger: logger,
	}
}

// Execute runs the complete load → build → persist pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{BuildID: store.NewBuildID()}

	// Stage 1: Load
	loadStart := time.Now()
	doc, data, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Document = doc
	result.DocumentHash = cache.Hash(data)
	result.Stats.Nodes = design.NewIndex(doc.Root).Len()
	result.Stats.LoadTime = time.Since(loadStart)

	opts.Logger.Info("loaded document",
		"document", doc.Name,
		"nodes", result.Stats.Nodes,
		"duration", result.Stats.LoadTime)

	var batch *store.Batch
	if r.Store != nil && !opts.NoPersist {
		batch = store.NewBatch(ctx, r.Store, result.BuildID, opts.Concurrency, opts.Logger)
	}

	// Stage 2: Build, or take the bundle from cache
	if opts.Cacheable() {
		result.CacheInfo.Key = r.Keyer.BundleKey(result.DocumentHash, opts.BundleKeyOpts())
		if !opts.Refresh {
			result.Bundle, result.CacheInfo.BundleHit = r.cachedBundle(ctx, result.CacheInfo.Key)
		}
	}
	if result.CacheInfo.BundleHit {
		result.Bundle.BuildID = result.BuildID
		result.Bundle.Document = doc.Name
		opts.Logger.Info("bundle from cache", "document", doc.Name)
		if batch != nil {
			for _, a := range slices.Concat(result.Bundle.Screens, result.Bundle.Components) {
				if err := batch.AddAsset(a); err != nil {
					batch.Abort()
					return nil, fmt.Errorf("persist: %w", err)
				}
			}
		}
	} else {
		buildStart := time.Now()
		build, resolver, err := r.build(ctx, doc, batch, opts)
		if err != nil {
			if batch != nil {
				batch.Abort()
			}
			return nil, fmt.Errorf("build: %w", err)
		}
		result.Build = build
		result.Bundle = build.Bundle(doc.Name)
		result.Bundle.BuildID = result.BuildID
		result.Stats.BuildTime = time.Since(buildStart)
		if resolver != nil {
			result.Stats.MissingAssets = resolver.Missing()
		}

		opts.Logger.Info("generated templates",
			"screens", build.Stats.Screens,
			"components", build.Stats.Components,
			"instances", build.Stats.Instances,
			"warnings", build.Warnings,
			"duration", result.Stats.BuildTime)
	}
	result.Stats.Templates = len(result.Bundle.Screens) + len(result.Bundle.Components)
	result.Stats.Warnings = result.Bundle.Warnings

	// Stage 3: Persist
	if batch != nil {
		n, err := r.waitPersist(ctx, batch, result.Stats.Templates)
		if err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
		result.Stats.Persisted = n
		result.Stats.PersistTime = batch.Elapsed()
		opts.Logger.Info("persisted templates",
			"build", result.BuildID,
			"templates", n,
			"duration", result.Stats.PersistTime)
	}

	if result.CacheInfo.Key != "" && !result.CacheInfo.BundleHit {
		r.storeBundle(ctx, result.CacheInfo.Key, result.Bundle)
	}
	return result, nil
}

// Load reads, decodes and validates the document of opts.
// The raw bytes are returned alongside for hashing.
func (r *Runner) Load(ctx context.Context, opts Options) (*design.Document, []byte, error) {
	source := opts.Source
	if source == "" {
		source = "<data>"
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	doc, data, err := load(opts)
	nodes := 0
	if err == nil {
		nodes = design.NewIndex(doc.Root).Len()
	}
	hooks.OnLoadComplete(ctx, source, nodes, time.Since(start), err)
	return doc, data, err
}

func load(opts Options) (*design.Document, []byte, error) {
	data := opts.Data
	if len(data) == 0 {
		var err error
		data, err = readSource(opts.Source)
		if err != nil {
			return nil, nil, err
		}
	}
	doc, err := design.UnmarshalDocument(data)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	if err := design.Validate(doc); err != nil {
		return nil, nil, err
	}
	if doc.Name == "" {
		doc.Name = DefaultDocumentName
	}
	return doc, data, nil
}

func readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "document not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "stat %s", path)
	}
	if info.Size() > MaxDocumentSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document %s exceeds %d bytes", path, MaxDocumentSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// build generates the templates of doc, handing each finalized template to
// the asset resolver and the batch.
func (r *Runner) build(ctx context.Context, doc *design.Document, batch *store.Batch, opts Options) (*generate.Result, *assets.Resolver, error) {
	s := opts.Settings
	var resolver *assets.Resolver
	if s.Assets.Dir != "" {
		aopts := []assets.Option{assets.WithLogger(opts.Logger), assets.WithCache(r.Cache, r.Keyer)}
		if s.Assets.MaxSize > 0 {
			aopts = append(aopts, assets.WithMaxSize(s.Assets.MaxSize, s.Assets.OutDir))
		}
		resolver = assets.NewResolver(s.Assets.Dir, aopts...)
	}

	gopts := opts.GenerateOptions()
	gopts.Substitutions = substitution.Compute(doc, substitution.Options{ExportMarked: s.GenerateExportMarkedNodes})
	gopts.Persist = func(t *component.Template) error {
		if resolver != nil {
			if err := resolver.Apply(ctx, t.Root); err != nil {
				return err
			}
		}
		if batch != nil {
			return batch.Add(t)
		}
		return nil
	}
	opts.Logger.Debug("computed substitutions", "nodes", len(gopts.Substitutions))

	hooks := observability.Pipeline()
	nodes := design.NewIndex(doc.Root).Len()
	hooks.OnBuildStart(ctx, doc.Name, nodes)
	start := time.Now()
	res, err := generate.Build(doc, gopts)
	templates, warnings := 0, 0
	if res != nil {
		templates, warnings = res.Registry.Len(), res.Warnings
	}
	hooks.OnBuildComplete(ctx, doc.Name, templates, warnings, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return res, resolver, nil
}

func (r *Runner) waitPersist(ctx context.Context, batch *store.Batch, templates int) (int, error) {
	backend := BackendName(r.Store)
	hooks := observability.Pipeline()
	hooks.OnPersistStart(ctx, backend, templates)
	n, err := batch.Wait()
	hooks.OnPersistComplete(ctx, backend, n, batch.Elapsed(), err)
	return n, err
}

func (r *Runner) cachedBundle(ctx context.Context, key string) (*scene.Bundle, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "bundle")
		return nil, false
	}
	b, err := scene.ReadBundle(bytes.NewReader(data))
	if err != nil {
		// A corrupt entry is rebuilt and overwritten.
		observability.Cache().OnCacheMiss(ctx, "bundle")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "bundle")
	return b, true
}

func (r *Runner) storeBundle(ctx context.Context, key string, b *scene.Bundle) {
	cached := *b
	cached.BuildID = ""
	data, err := scene.MarshalBundle(&cached)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLBundle); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "bundle", len(data))
}

// Bundle reassembles a persisted build from the runner's store.
func (r *Runner) Bundle(ctx context.Context, buildID string) (*scene.Bundle, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no template store configured")
	}
	if err := store.ValidateBuildID(buildID); err != nil {
		return nil, err
	}
	return store.Bundle(ctx, r.Store, buildID, "")
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// BackendName names a store backend for logs and metrics.
func BackendName(s store.Store) string {
	switch s.(type) {
	case nil:
		return "none"
	case *store.FileStore:
		return "file"
	case *store.MongoStore:
		return "mongo"
	case *store.MemoryStore:
		return "memory"
	default:
		return "custom"
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
