package store

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/figtree/pkg/component"
	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/scene"
)

// DefaultConcurrency bounds the writes a batch runs at once.
const DefaultConcurrency = 8

// Batch persists the templates of one build concurrently. Add is meant to
// be used as the generate.Options.Persist hook; Wait reports the first
// failure and rolls back every asset already written.
type Batch struct {
	parent  context.Context
	ctx     context.Context
	group   *errgroup.Group
	store   Store
	buildID string
	logger  *log.Logger

	start   time.Time
	elapsed time.Duration

	mu      sync.Mutex
	written []scene.Asset
}

// NewBatch starts a batch for buildID. limit <= 0 selects
// DefaultConcurrency. A nil logger discards output.
func NewBatch(ctx context.Context, s Store, buildID string, limit int, logger *log.Logger) *Batch {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	return &Batch{parent: ctx, ctx: gctx, group: g, store: s, buildID: buildID, logger: logger, start: time.Now()}
}

// BuildID returns the id the batch writes under.
func (b *Batch) BuildID() string { return b.buildID }

// Add schedules a template write. It blocks while the concurrency limit is
// reached and fails fast once an earlier write has failed.
func (b *Batch) Add(t *component.Template) error {
	return b.AddAsset(t.Asset())
}

// AddAsset schedules the write of an already packaged asset, such as one
// taken from a cached bundle.
func (b *Batch) AddAsset(a scene.Asset) error {
	if err := b.ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "batch %s aborted", b.buildID)
	}
	b.group.Go(func() error {
		if err := b.store.Put(b.ctx, b.buildID, a); err != nil {
			return err
		}
		b.mu.Lock()
		b.written = append(b.written, a)
		b.mu.Unlock()
		b.logger.Debug("persisted template", "kind", a.Kind, "template", a.Name)
		return nil
	})
	return nil
}

// Wait blocks until all writes finish and returns the number of assets
// written. On failure every written asset is deleted again.
func (b *Batch) Wait() (int, error) {
	err := b.group.Wait()
	b.elapsed = time.Since(b.start)
	if err != nil {
		b.rollback()
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "persist build %s", b.buildID)
	}
	return len(b.written), nil
}

// Elapsed returns the time from NewBatch until Wait returned, or until now
// while the batch is still running.
func (b *Batch) Elapsed() time.Duration {
	if b.elapsed > 0 {
		return b.elapsed
	}
	return time.Since(b.start)
}

// Abort waits for pending writes and deletes everything the batch wrote.
// It is used when the build itself fails after templates were handed over.
func (b *Batch) Abort() {
	_ = b.group.Wait()
	b.rollback()
}

func (b *Batch) rollback() {
	ctx := context.WithoutCancel(b.parent)
	b.mu.Lock()
	written := b.written
	b.written = nil
	b.mu.Unlock()
	for _, a := range written {
		if err := b.store.Delete(ctx, b.buildID, a.Kind, a.Name); err != nil {
			b.logger.Warn("rollback failed", "kind", a.Kind, "template", a.Name, "err", err)
		}
	}
	if len(written) > 0 {
		b.logger.Info("rolled back partial build", "build", b.buildID, "templates", len(written))
	}
}
