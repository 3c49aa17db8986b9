// Package assets resolves the server-rendered bitmaps that stand in for
// substituted nodes.
//
// A [Resolver] looks up the bitmap of each substituted node in a directory
// of downloaded renders, records its pixel size on the scene image and,
// when a size limit is set, writes a downscaled copy. Missing bitmaps are
// logged and counted; they never fail a build.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/figtree/pkg/cache"
	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/scene"
)

// Info describes a resolved bitmap.
type Info struct {
	NodeID  string `json:"node_id"`
	Path    string `json:"path"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Resized bool   `json:"resized,omitempty"`
}

// FileName returns the file name of a node's render: PNG, with the id
// separators replaced so the name is portable.
func FileName(nodeID string) string {
	return strings.NewReplacer(":", "-", ";", "_").Replace(nodeID) + ".png"
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxSize downscales bitmaps whose larger side exceeds px into outDir.
func WithMaxSize(px int, outDir string) Option {
	return func(r *Resolver) {
		r.maxSize = px
		r.outDir = outDir
	}
}

// WithCache caches bitmap sizes by content hash.
func WithCache(c cache.Cache, k cache.Keyer) Option {
	return func(r *Resolver) {
		r.cache = c
		r.keyer = k
	}
}

// WithLogger sets the logger for warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// Resolver sizes bitmaps found in a source directory. It is safe for
// concurrent use.
type Resolver struct {
	dir     string
	outDir  string
	maxSize int
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger

	mu      sync.Mutex
	infos   map[string]Info
	missing map[string]bool
}

// NewResolver returns a resolver reading renders from dir.
func NewResolver(dir string, opts ...Option) *Resolver {
	r := &Resolver{
		dir:     dir,
		cache:   cache.NewNullCache(),
		keyer:   cache.NewDefaultKeyer(),
		logger:  log.New(io.Discard),
		infos:   make(map[string]Info),
		missing: make(map[string]bool),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Missing returns the number of distinct nodes without a bitmap.
func (r *Resolver) Missing() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.missing)
}

// Infos returns the resolved bitmaps keyed by node id.
func (r *Resolver) Infos() map[string]Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Info, len(r.infos))
	for k, v := range r.infos {
		out[k] = v
	}
	return out
}

// Apply sets the pixel size of every server-rendered image below root.
func (r *Resolver) Apply(ctx context.Context, root *scene.Node) error {
	var err error
	scene.Walk(root, func(n, _ *scene.Node) bool {
		if err != nil {
			return false
		}
		img := n.Image
		if img == nil || img.Source != scene.ImageServerRender || img.NodeID == "" {
			return true
		}
		var info Info
		var ok bool
		info, ok, err = r.Resolve(ctx, img.NodeID)
		if ok {
			img.Width, img.Height = info.Width, info.Height
		}
		return true
	})
	return err
}

// Resolve returns the bitmap info for a node. ok is false when the render
// is missing or unreadable.
func (r *Resolver) Resolve(ctx context.Context, nodeID string) (Info, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if info, ok := r.infos[nodeID]; ok {
		return info, true, nil
	}
	if r.missing[nodeID] {
		return Info{}, false, nil
	}

	src := filepath.Join(r.dir, FileName(nodeID))
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		r.missing[nodeID] = true
		r.logger.Warn("server render missing", "node", nodeID, "path", src)
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, errors.Wrap(errors.ErrCodeStorage, err, "read %s", src)
	}

	info, err := r.process(ctx, nodeID, src, data)
	if err != nil {
		r.missing[nodeID] = true
		r.logger.Warn("server render unreadable", "node", nodeID, "path", src, "err", err)
		return Info{}, false, nil
	}
	r.infos[nodeID] = info
	return info, true, nil
}

func (r *Resolver) process(ctx context.Context, nodeID, src string, data []byte) (Info, error) {
	info := Info{NodeID: nodeID, Path: src}
	key := r.keyer.AssetKey(cache.Hash(data), cache.AssetKeyOpts{MaxSize: r.maxSize})
	dst := ""
	if r.maxSize > 0 && r.outDir != "" {
		dst = filepath.Join(r.outDir, FileName(nodeID))
	}

	if cached, hit, _ := r.cache.Get(ctx, key); hit {
		var size Info
		if json.Unmarshal(cached, &size) == nil && (!size.Resized || exists(dst)) {
			info.Width, info.Height, info.Resized = size.Width, size.Height, size.Resized
			if size.Resized {
				info.Path = dst
			}
			return info, nil
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Info{}, err
	}
	b := img.Bounds()
	info.Width, info.Height = b.Dx(), b.Dy()
	if dst != "" && max(info.Width, info.Height) > r.maxSize {
		fitted := imaging.Fit(img, r.maxSize, r.maxSize, imaging.Lanczos)
		if err := os.MkdirAll(r.outDir, 0755); err != nil {
			return Info{}, err
		}
		if err := imaging.Save(fitted, dst); err != nil {
			return Info{}, err
		}
		info.Width, info.Height = fitted.Bounds().Dx(), fitted.Bounds().Dy()
		info.Path = dst
		info.Resized = true
		r.logger.Debug("downscaled render", "node", nodeID, "width", info.Width, "height", info.Height)
	}

	if enc, err := json.Marshal(Info{Width: info.Width, Height: info.Height, Resized: info.Resized}); err == nil {
		_ = r.cache.Set(ctx, key, enc, cache.TTLAsset)
	}
	return info, nil
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
