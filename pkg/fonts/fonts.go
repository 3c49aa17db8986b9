// Package fonts maps design font families and weights to font asset
// handles of the target scene.
//
// A [Table] holds the fonts available to the scene. Lookups that miss the
// exact (family, weight, style) fall back to the closest weight of the same
// family, then to the table's default handle; such lookups report
// exact == false so the caller can warn about the substitution.
package fonts

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// DefaultHandle is the font used when nothing closer is available.
const DefaultHandle = "LiberationSans SDF"

// Mapper resolves a font request to a font asset handle.
type Mapper interface {
	Lookup(family string, weight int, italic bool) (handle string, exact bool)
}

// Entry is one available font face.
type Entry struct {
	Family string `toml:"family" yaml:"family" json:"family"`
	Weight int    `toml:"weight" yaml:"weight" json:"weight"`
	Italic bool   `toml:"italic" yaml:"italic" json:"italic"`
	Handle string `toml:"handle" yaml:"handle" json:"handle"`
}

// Table is a Mapper over a fixed list of faces. It is safe for concurrent
// use once built.
type Table struct {
	fallback string
	entries  []Entry

	once     sync.Once
	byFamily map[string][]Entry
}

// NewTable returns a table over entries. An empty fallback selects
// DefaultHandle.
func NewTable(fallback string, entries ...Entry) *Table {
	if fallback == "" {
		fallback = DefaultHandle
	}
	return &Table{fallback: fallback, entries: slices.Clone(entries)}
}

func (t *Table) index() {
	t.byFamily = make(map[string][]Entry)
	for _, e := range t.entries {
		key := strings.ToLower(e.Family)
		t.byFamily[key] = append(t.byFamily[key], e)
	}
	for _, faces := range t.byFamily {
		slices.SortStableFunc(faces, func(a, b Entry) int { return cmp.Compare(a.Weight, b.Weight) })
	}
}

// Lookup returns the face for family, weight and style. Family names match
// case-insensitively. Among the faces of the family, a face with the
// requested style is preferred, then the smallest weight distance, then the
// lighter face.
func (t *Table) Lookup(family string, weight int, italic bool) (string, bool) {
	t.once.Do(t.index)
	faces := t.byFamily[strings.ToLower(family)]
	if len(faces) == 0 {
		return t.fallback, false
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if better(f, best, weight, italic) {
			best = f
		}
	}
	return best.Handle, best.Weight == weight && best.Italic == italic
}

func better(a, b Entry, weight int, italic bool) bool {
	if (a.Italic == italic) != (b.Italic == italic) {
		return a.Italic == italic
	}
	da, db := abs(a.Weight-weight), abs(b.Weight-weight)
	return da < db
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Default returns a table with only the fallback font.
func Default() *Table { return NewTable("") }
