package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/figtree/pkg/buildinfo"
	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/pipeline"
	"github.com/matzehuels/figtree/pkg/scene"
)

func TestRootCommand(t *testing.T) {
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, LogInfo)
	c.Out = &out
	root := c.RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"build", "inspect", "graph", "serve", "cache", "completion"} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}

	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), buildinfo.Version) {
		t.Errorf("version output = %q", out.String())
	}
}

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(home, ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("cache path = %q", got)
	}
}

func TestBundlePath(t *testing.T) {
	tests := map[string]string{
		"shop.json":          "shop.bundle.json",
		"designs/app.fig":    "designs/app.bundle.json",
		"noext":              "noext.bundle.json",
		"a.b/shop.v2.json":   "a.b/shop.v2.bundle.json",
	}
	for in, want := range tests {
		if got := bundlePath(in); got != want {
			t.Errorf("bundlePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsRelevant(t *testing.T) {
	watched := map[string]bool{"docs/shop.json": true}
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: "docs/shop.json", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "docs/./shop.json", Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: "docs/shop.json", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "docs/other.json", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRelevant(tt.ev, watched); got != tt.want {
				t.Errorf("isRelevant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGraphFlagsValidate(t *testing.T) {
	tests := []struct {
		name string
		f    graphFlags
		code errors.Code
	}{
		{"templates dot", graphFlags{kind: graphTemplates, format: formatDOT}, ""},
		{"flow svg", graphFlags{kind: graphFlow, format: formatSVG}, ""},
		{"bad kind", graphFlags{kind: "tower", format: formatDOT}, errors.ErrCodeInvalidInput},
		{"templates json", graphFlags{kind: graphTemplates, format: formatJSON}, ""},
		{"bad format", graphFlags{kind: graphFlow, format: "png"}, errors.ErrCodeInvalidFormat},
		{"flow json", graphFlags{kind: graphFlow, format: formatJSON}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f.validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	s, err := loadSettings("")
	if err != nil {
		t.Fatal(err)
	}
	if s == nil {
		t.Fatal("default settings should be returned without a settings file")
	}

	if err := os.WriteFile(pipeline.DefaultSettingsFile, []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSettings(""); err == nil {
		t.Error("a malformed default settings file should fail")
	}
	if _, err := loadSettings(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("a missing settings file should fail")
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(pipeline.Stats{Nodes: 12, Templates: 3}, false)
	for _, want := range []string{"12 nodes", "3 templates"} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
	if strings.Contains(line, "warnings") {
		t.Errorf("statsLine() = %q, should omit zero warnings", line)
	}
}

func testAsset() scene.Asset {
	root := scene.NewNode("Home")
	button := scene.NewNode("Buy")
	button.InstanceOf = "Button"
	label := scene.NewNode("Label")
	label.Text = &scene.Text{Characters: "Buy now"}
	button.Children = []*scene.Node{label}
	hidden := scene.NewNode("Badge")
	hidden.Active = false
	root.Children = []*scene.Node{button, hidden}
	return scene.Asset{Name: "Home", Kind: scene.AssetScreen, Root: root}
}

func TestRenderAsset(t *testing.T) {
	full := renderAsset(testAsset(), 0)
	for _, want := range []string{"screen Home", "Buy", "instance of Button", "Label", `"Buy now"`, "hidden"} {
		if !strings.Contains(full, want) {
			t.Errorf("renderAsset() missing %q:\n%s", want, full)
		}
	}

	shallow := renderAsset(testAsset(), 1)
	if strings.Contains(shallow, "Label") {
		t.Errorf("depth 1 should summarize grandchildren:\n%s", shallow)
	}
	if !strings.Contains(shallow, "1 more") {
		t.Errorf("depth 1 should count hidden nodes:\n%s", shallow)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("a long label", 6); got != "a lon…" {
		t.Errorf("truncate() = %q", got)
	}
}

func TestTemplateListModel(t *testing.T) {
	assets := []scene.Asset{
		{Name: "Home", Kind: scene.AssetScreen, Root: scene.NewNode("Home")},
		{Name: "Button", Kind: scene.AssetComponent, Root: scene.NewNode("Button")},
	}
	key := func(s string) tea.KeyMsg {
		switch s {
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			return tea.KeyMsg{Type: tea.KeyEnter}
		default:
			return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
		}
	}

	var m tea.Model = NewTemplateListModel(assets)
	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("j")) // already at the end
	if got := m.(TemplateListModel).Cursor; got != 1 {
		t.Fatalf("cursor = %d, want 1", got)
	}
	m, _ = m.Update(key("k"))
	m, _ = m.Update(key("down"))
	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Error("enter should quit")
	}
	sel := m.(TemplateListModel).Selected
	if sel == nil || sel.Name != "Button" {
		t.Errorf("selected = %v, want Button", sel)
	}

	if view := NewTemplateListModel(assets).View(); !strings.Contains(view, "Home") || !strings.Contains(view, "Button") {
		t.Errorf("view should list every template:\n%s", view)
	}
}

func TestStatusOutput(t *testing.T) {
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, LogInfo)
	c.Out = &out

	c.printf(statusSuccess, "Generated %d screens", 2)
	c.printf(statusWarning, "%d orphans", 1)
	c.keyValue("Build", "abc")
	c.file("shop.bundle.json")

	got := out.String()
	for _, want := range []string{iconSuccess + " Generated 2 screens", iconWarning + " 1 orphans", "Build", "abc", iconArrow + " shop.bundle.json"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCompletion(t *testing.T) {
	for shell := range completionScripts {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			c := New(&bytes.Buffer{}, LogInfo)
			c.Out = &out
			root := c.RootCommand()
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
}
