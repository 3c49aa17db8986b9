package store

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"

	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/scene"
)

// FileStore writes each asset as an indented JSON file:
//
//	<dir>/<build id>/<kind>/<escaped name>.json
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := errors.ValidateOutputDir(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create store dir")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(buildID string, kind scene.AssetKind, name string) string {
	return filepath.Join(s.dir, buildID, string(kind), url.PathEscape(name)+".json")
}

func (s *FileStore) Put(ctx context.Context, buildID string, a scene.Asset) error {
	if err := ValidateBuildID(buildID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s %s", a.Kind, a.Name)
	}
	path := s.path(buildID, a.Kind, a.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, buildID string, kind scene.AssetKind, name string) error {
	if err := ValidateBuildID(buildID); err != nil {
		return err
	}
	path := s.path(buildID, kind, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove %s", path)
	}
	// Drop directories left empty; Remove fails on non-empty ones.
	_ = os.Remove(filepath.Dir(path))
	_ = os.Remove(filepath.Join(s.dir, buildID))
	return nil
}

func (s *FileStore) List(ctx context.Context, buildID string) ([]scene.Asset, error) {
	if err := ValidateBuildID(buildID); err != nil {
		return nil, err
	}
	root := filepath.Join(s.dir, buildID)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "build %s not found", buildID)
	}
	var out []scene.Asset
	for _, kind := range []scene.AssetKind{scene.AssetScreen, scene.AssetComponent} {
		files, err := filepath.Glob(filepath.Join(root, string(kind), "*.json"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "list %s", root)
		}
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeStorage, err, "read %s", f)
			}
			var a scene.Asset
			if err := json.Unmarshal(data, &a); err != nil {
				return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode %s", f)
			}
			out = append(out, a)
		}
	}
	sortAssets(out)
	return out, nil
}

func (s *FileStore) Close(context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
