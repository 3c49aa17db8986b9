// Package pkg provides the core libraries of figtree.
//
// # Overview
//
// figtree rebuilds a vector-design document as a native UI scene graph:
// every top-level frame becomes a screen and every component definition a
// reusable template, with anchored geometry, emulated auto-layout, scroll
// containers and masks. The pkg directory is organized into three areas:
//
//  1. Model - [design] (input document), [scene] (output tree), [dag] and
//     [flow] (template and navigation graphs)
//  2. Generation - [generate] drives [anchor], [autolayout], [style],
//     [substitution], [component], [fonts] and [behavior]
//  3. Infrastructure - [pipeline], [cache], [store], [assets], [config],
//     [observability] and [errors]
//
// # Architecture
//
// The typical data flow through figtree:
//
//	design document (JSON)
//	         ↓
//	    [design] package (decode + validate)
//	         ↓
//	    [substitution] package (which nodes become images)
//	         ↓
//	    [generate] package (two-pass build, instancing, cleanup)
//	         ↓
//	    [scene] bundle → [store] templates, [render/dot] graphs
//
// # Quick Start
//
// Most callers use the pipeline, which adds caching and persistence:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, store.NewMemoryStore(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Source: "shop.json"})
//	if err != nil {
//	    return err
//	}
//	err = scene.WriteBundleFile(result.Bundle, "shop.bundle.json")
//
// [design]: github.com/matzehuels/figtree/pkg/design
// [scene]: github.com/matzehuels/figtree/pkg/scene
// [dag]: github.com/matzehuels/figtree/pkg/dag
// [flow]: github.com/matzehuels/figtree/pkg/flow
// [generate]: github.com/matzehuels/figtree/pkg/generate
// [anchor]: github.com/matzehuels/figtree/pkg/anchor
// [autolayout]: github.com/matzehuels/figtree/pkg/autolayout
// [style]: github.com/matzehuels/figtree/pkg/style
// [substitution]: github.com/matzehuels/figtree/pkg/substitution
// [component]: github.com/matzehuels/figtree/pkg/component
// [fonts]: github.com/matzehuels/figtree/pkg/fonts
// [behavior]: github.com/matzehuels/figtree/pkg/behavior
// [pipeline]: github.com/matzehuels/figtree/pkg/pipeline
// [cache]: github.com/matzehuels/figtree/pkg/cache
// [store]: github.com/matzehuels/figtree/pkg/store
// [assets]: github.com/matzehuels/figtree/pkg/assets
// [config]: github.com/matzehuels/figtree/pkg/config
// [observability]: github.com/matzehuels/figtree/pkg/observability
// [errors]: github.com/matzehuels/figtree/pkg/errors
// [render/dot]: github.com/matzehuels/figtree/pkg/render/dot
package pkg
