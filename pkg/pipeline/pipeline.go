// Package pipeline provides the build pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete load → build → persist run, so every
// entry point caches, sizes assets and stores templates the same way.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: Decode the design document and validate it
//  2. Build: Compute substitutions and generate screen and component templates
//  3. Persist: Write the finalized templates to a [store.Store] in a batch
//
// Persistence overlaps the build: every template is handed to the batch as
// soon as it is finalized, and a failing write rolls the whole build back.
// Finished bundles are cached by document content hash and settings.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, st, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:   "shop.json",
//	    Settings: settings,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.BuildID, len(result.Bundle.Screens))
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figtree/pkg/behavior"
	"github.com/matzehuels/figtree/pkg/cache"
	"github.com/matzehuels/figtree/pkg/config"
	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/flow"
	"github.com/matzehuels/figtree/pkg/generate"
	"github.com/matzehuels/figtree/pkg/scene"
	"github.com/matzehuels/figtree/pkg/store"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSettingsFile is looked up in the working directory when no
	// settings file is given.
	DefaultSettingsFile = "figtree.toml"

	// DefaultConcurrency bounds concurrent template writes.
	DefaultConcurrency = store.DefaultConcurrency

	// MaxDocumentSize is the largest document accepted, in bytes.
	MaxDocumentSize = 64 << 20

	// DefaultDocumentName names documents that carry no name.
	DefaultDocumentName = "untitled"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one run.
type Options struct {
	// Source is the document path. It is read when Data is empty and
	// otherwise only labels log output.
	Source string `json:"source,omitempty"`

	// Data is the raw document JSON.
	Data []byte `json:"-"`

	// Settings control the build. Defaults to config.Default().
	Settings *config.Settings `json:"settings,omitempty"`

	// Refresh ignores cached bundles. The fresh bundle is still cached.
	Refresh bool `json:"refresh,omitempty"`

	// NoPersist skips the store even when the runner has one.
	NoPersist bool `json:"no_persist,omitempty"`

	// Concurrency bounds concurrent template writes.
	Concurrency int `json:"concurrency,omitempty"`

	// Runtime options (not serialized)
	Behaviors *behavior.Registry `json:"-"`
	OnScreen  func(flow.Entry)   `json:"-"`
	Logger    *log.Logger        `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a run.
type Result struct {
	// BuildID identifies the run and its persisted templates.
	BuildID string

	// Document is the decoded document.
	Document *design.Document

	// DocumentHash is the content hash of the raw document.
	DocumentHash string

	// Bundle is the serializable build output.
	Bundle *scene.Bundle

	// Build is the full generator result. It is nil when the bundle came
	// from the cache.
	Build *generate.Result

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the bundle came from the cache.
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	Nodes         int
	Templates     int
	Warnings      int
	Persisted     int
	MissingAssets int
	LoadTime      time.Duration
	BuildTime     time.Duration
	PersistTime   time.Duration
}

// CacheInfo tracks the bundle cache lookup.
type CacheInfo struct {
	Key       string // Bundle cache key, empty when the run is not cacheable
	BundleHit bool   // Whether the bundle came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Data) == 0 && o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "document path or data is required")
	}
	if len(o.Data) > MaxDocumentSize {
		return errors.New(errors.ErrCodeInvalidInput, "document exceeds %d bytes", MaxDocumentSize)
	}
	if o.Settings == nil {
		o.Settings = config.Default()
	}
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Cacheable reports whether the bundle depends only on the document and
// the settings. Bundles sized from bitmaps on disk or bound to a behavior
// registry are rebuilt every time.
func (o *Options) Cacheable() bool {
	return o.Settings.Assets.Dir == "" && o.Behaviors == nil
}

// BundleKeyOpts returns cache key options for the bundle.
func (o *Options) BundleKeyOpts() cache.BundleKeyOpts {
	s := o.Settings
	opts := cache.BundleKeyOpts{
		ExportMarked:  s.GenerateExportMarkedNodes,
		PrototypeFlow: s.BuildPrototypeFlow,
		CenterPivots:  s.CenterPivots,
		KeepSourceIDs: s.KeepSourceIDs,
		Namespace:     s.BehaviorNamespace,
	}
	opts.FontsHash = cache.HashJSON(s.Fonts)
	return opts
}

// GenerateOptions returns the generator options for the settings, without
// the persistence hook.
func (o *Options) GenerateOptions() generate.Options {
	s := o.Settings
	return generate.Options{
		Fonts:              s.FontTable(),
		BuildPrototypeFlow: s.BuildPrototypeFlow,
		CenterPivots:       s.CenterPivots,
		KeepSourceIDs:      s.KeepSourceIDs,
		Behaviors:          o.Behaviors,
		BehaviorNamespace:  s.BehaviorNamespace,
		OnScreen:           o.OnScreen,
		Logger:             o.Logger,
	}
}
