package coastline

import "errors"

var (
	// ErrInvalidCanvasSize is returned when a canvas dimension is not a
	// positive integer.
	ErrInvalidCanvasSize = errors.New("coastline: canvas width and height must be positive")

	// ErrInvalidProject is returned when a project document is unparseable
	// or lacks a required field. The editor state is left untouched.
	ErrInvalidProject = errors.New("coastline: invalid project file")

	// ErrAssetNotLoaded marks a lookup of an asset whose image has not
	// arrived yet. Painting and placement treat it as a no-op.
	ErrAssetNotLoaded = errors.New("coastline: asset not loaded")

	// ErrAssetLoad wraps fetch and decode failures for assets.
	ErrAssetLoad = errors.New("coastline: asset load failed")

	// ErrIllegalTreeOp is returned by tree moves that would create a cycle.
	ErrIllegalTreeOp = errors.New("coastline: illegal layer tree operation")
)
