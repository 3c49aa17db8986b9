package store

import (
	"context"
	"sync"

	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/scene"
)

type assetKey struct {
	kind scene.AssetKind
	name string
}

// MemoryStore keeps assets in process memory. It backs the HTTP server
// when no database is configured, and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	builds map[string]map[assetKey]scene.Asset
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{builds: make(map[string]map[assetKey]scene.Asset)}
}

func (s *MemoryStore) Put(ctx context.Context, buildID string, a scene.Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.builds[buildID]
	if b == nil {
		b = make(map[assetKey]scene.Asset)
		s.builds[buildID] = b
	}
	b[assetKey{a.Kind, a.Name}] = a
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, buildID string, kind scene.AssetKind, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.builds[buildID]
	delete(b, assetKey{kind, name})
	if len(b) == 0 {
		delete(s.builds, buildID)
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context, buildID string) ([]scene.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.builds[buildID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "build %s not found", buildID)
	}
	out := make([]scene.Asset, 0, len(b))
	for _, a := range b {
		out = append(out, a)
	}
	sortAssets(out)
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
