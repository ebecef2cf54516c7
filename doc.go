// Package coastline is a 2D map-authoring engine: land is painted onto a
// raster mask, coastline effects are derived from the mask's silhouette,
// textured paint and image stamps are layered on top, and the result is
// exported as a raster image and a walkability grid.
//
// The package is pure CPU and has no windowing dependency. The coastline/view
// package displays an [Editor] with [Ebitengine], and coastline/ecs forwards
// editor events to a [Donburi] world.
//
// # Quick start
//
// Create an [Editor], start loading its assets, and drive it from a game
// loop:
//
//	ed, err := coastline.NewEditor(coastline.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	ed.LoadAssets(ctx)
//	ed.SelectTool(coastline.ToolMask)
//
//	// every frame
//	ed.HandlePointer(coastline.PointerEvent{Kind: coastline.PointerDown, ScreenX: x, ScreenY: y})
//	ed.Update(dt)
//
// # Surfaces
//
// A canvas is a fixed stack of [Surfaces], back to front: sea background,
// effects overlay, land mask, rendered stamps, top paint and the grid
// overlay. Each is an *image.NRGBA whose size is the design size times the
// render scale (viewport DPI / 96). Coordinates in the API are design
// pixels unless stated otherwise.
//
// # Edge effects
//
// [ApplyEffects] turns the mask's alpha into a stroke, drop shadows and two
// bands of turbulent ripples using a [Pipeline] of named [Filter] stages.
// The editor re-runs it when a mask stroke ends.
//
// # Layers
//
// Stamps and groups form a tree owned by the [LayerManager]: multi-select
// with Shift ranges and Ctrl/Meta toggles, grouping, reordering and drag
// into groups. Trees are encoded as JSON with a "type" tag on each node.
//
// # Persistence and export
//
// [Editor.SaveProject] and [Editor.LoadProject] read and write a JSON
// document with the rasters embedded as PNG data URLs. [Editor.ExportRaster]
// flattens the canvas at any DPI and [Editor.ExportWalkabilityGrid] samples
// it into a 0/1 grid.
//
// # Scripts
//
// A JSON script of pointer injections and commands can be replayed against
// an editor with [RunScript]; the coastline-export command uses this to
// render maps headlessly.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package coastline
