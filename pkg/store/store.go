// Package store persists finalized templates.
//
// A [Store] keeps the assets of each build under its build id. [Batch]
// writes the templates of one build concurrently and removes what it wrote
// if any write fails, so a build is either fully stored or not at all.
package store

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/scene"
)

// Store is a template persistence backend.
type Store interface {
	// Put writes an asset, replacing one of the same kind and name.
	Put(ctx context.Context, buildID string, a scene.Asset) error
	// Delete removes an asset. Removing a missing asset is not an error.
	Delete(ctx context.Context, buildID string, kind scene.AssetKind, name string) error
	// List returns the assets of a build, screens first, each kind sorted
	// by name. An unknown build yields errors.ErrCodeNotFound.
	List(ctx context.Context, buildID string) ([]scene.Asset, error)
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewBuildID returns a fresh build id.
func NewBuildID() string { return uuid.NewString() }

// ValidateBuildID checks that id is a UUID as produced by NewBuildID.
func ValidateBuildID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid build id %q", id)
	}
	return nil
}

// sortAssets orders assets screens first, then by name.
func sortAssets(assets []scene.Asset) {
	rank := func(k scene.AssetKind) int {
		if k == scene.AssetScreen {
			return 0
		}
		return 1
	}
	slices.SortStableFunc(assets, func(a, b scene.Asset) int {
		if d := rank(a.Kind) - rank(b.Kind); d != 0 {
			return d
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
}

// Bundle reassembles the stored assets of a build.
func Bundle(ctx context.Context, s Store, buildID, document string) (*scene.Bundle, error) {
	assets, err := s.List(ctx, buildID)
	if err != nil {
		return nil, err
	}
	b := &scene.Bundle{BuildID: buildID, Document: document, Screens: []scene.Asset{}, Components: []scene.Asset{}}
	for _, a := range assets {
		if a.Kind == scene.AssetScreen {
			b.Screens = append(b.Screens, a)
		} else {
			b.Components = append(b.Components, a)
		}
	}
	return b, nil
}
