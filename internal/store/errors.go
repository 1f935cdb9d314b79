package store

import "errors"

var (
	// ErrNoData indicates a save call with neither trajectories nor a
	// frequency table to persist.
	ErrNoData = errors.New("store: nothing to save")

	// ErrRunNotFound indicates a run ID without a metadata file under the
	// base directory.
	ErrRunNotFound = errors.New("store: run not found")
)
