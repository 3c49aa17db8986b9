// Package flow records the prototype navigation structure of a document:
// screens, the sections grouping them, transitions between screens and the
// flow starting points declared on canvases.
package flow

import (
	"slices"
	"strings"
)

// EntryKind distinguishes screens from sections.
type EntryKind string

const (
	EntryScreen  EntryKind = "screen"
	EntrySection EntryKind = "section"
)

// Entry is a screen or section reported during generation.
type Entry struct {
	Kind      EntryKind `json:"kind" bson:"kind"`
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	SectionID string    `json:"sectionId,omitempty" bson:"section_id,omitempty"`
}

// Transition is an interactive link from a node inside a screen to a
// target screen.
type Transition struct {
	ScreenID string `json:"screenId" bson:"screen_id"`
	SourceID string `json:"sourceId" bson:"source_id"`
	TargetID string `json:"targetId" bson:"target_id"`
}

// StartingPoint is a named entry screen.
type StartingPoint struct {
	ScreenID string `json:"screenId" bson:"screen_id"`
	Name     string `json:"name" bson:"name"`
}

// Edge is a screen-to-screen link, derived from transitions.
type Edge struct {
	From string
	To   string
}

// Graph is the prototype flow of one document. The zero value is ready to
// use. Graph is not safe for concurrent use.
type Graph struct {
	Screens        []Entry         `json:"screens,omitempty" bson:"screens,omitempty"`
	Sections       []Entry         `json:"sections,omitempty" bson:"sections,omitempty"`
	Transitions    []Transition    `json:"transitions,omitempty" bson:"transitions,omitempty"`
	StartingPoints []StartingPoint `json:"startingPoints,omitempty" bson:"starting_points,omitempty"`
}

// Record adds a screen or section. Entries with an id already recorded are
// ignored.
func (g *Graph) Record(e Entry) {
	switch e.Kind {
	case EntrySection:
		if !slices.ContainsFunc(g.Sections, func(x Entry) bool { return x.ID == e.ID }) {
			g.Sections = append(g.Sections, e)
		}
	default:
		e.Kind = EntryScreen
		if _, ok := g.Screen(e.ID); !ok {
			g.Screens = append(g.Screens, e)
		}
	}
}

// AddTransition records a link from source (inside screen) to target.
func (g *Graph) AddTransition(screenID, sourceID, targetID string) {
	g.Transitions = append(g.Transitions, Transition{ScreenID: screenID, SourceID: sourceID, TargetID: targetID})
}

// AddStartingPoint records a flow entry screen.
func (g *Graph) AddStartingPoint(screenID, name string) {
	g.StartingPoints = append(g.StartingPoints, StartingPoint{ScreenID: screenID, Name: name})
}

// Screen returns the screen with the given id.
func (g *Graph) Screen(id string) (Entry, bool) {
	i := slices.IndexFunc(g.Screens, func(x Entry) bool { return x.ID == id })
	if i < 0 {
		return Entry{}, false
	}
	return g.Screens[i], true
}

// ScreensIn returns the screens of a section in recording order.
func (g *Graph) ScreensIn(sectionID string) []Entry {
	var out []Entry
	for _, s := range g.Screens {
		if s.SectionID == sectionID {
			out = append(out, s)
		}
	}
	return out
}

// Edges returns the distinct screen-to-screen links, sorted. Transitions
// whose target is not a recorded screen are dropped.
func (g *Graph) Edges() []Edge {
	seen := make(map[Edge]bool)
	var out []Edge
	for _, t := range g.Transitions {
		if _, ok := g.Screen(t.TargetID); !ok {
			continue
		}
		e := Edge{From: t.ScreenID, To: t.TargetID}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return out
}

// Reachable returns the screens reachable from start by following
// transitions, in breadth-first order, start included.
func (g *Graph) Reachable(start string) []string {
	adj := make(map[string][]string)
	for _, e := range g.Edges() {
		adj[e.From] = append(adj[e.From], e.To)
	}
	visited := map[string]bool{start: true}
	queue := []string{start}
	for i := 0; i < len(queue); i++ {
		for _, next := range adj[queue[i]] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return queue
}

// Unreachable returns screens not reachable from any starting point. With
// no starting points, nothing is reported.
func (g *Graph) Unreachable() []string {
	if len(g.StartingPoints) == 0 {
		return nil
	}
	reached := make(map[string]bool)
	for _, sp := range g.StartingPoints {
		for _, id := range g.Reachable(sp.ScreenID) {
			reached[id] = true
		}
	}
	var out []string
	for _, s := range g.Screens {
		if !reached[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}
