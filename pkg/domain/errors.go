package domain

import "errors"

// ErrGraphNotFound is returned when a graph ID cannot be found in the store.
var ErrGraphNotFound = errors.New("graph not found")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrToolNotFound is returned when a tool name was never registered.
var ErrToolNotFound = errors.New("tool not found")

// ErrEntrypointUnknown is returned at graph creation when the entrypoint
// does not exist in the node map.
var ErrEntrypointUnknown = errors.New("entrypoint not defined in nodes")
