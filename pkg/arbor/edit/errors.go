package edit

import "errors"

// Edit failures. Operations wrap these with detail; match with errors.Is.
var (
	// ErrInvalidMove rejects moves that are no-ops or would place a node
	// inside its own subtree.
	ErrInvalidMove = errors.New("invalid move")

	// ErrSourceNotFound means the node being moved does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrTargetNotFound means the destination does not exist.
	ErrTargetNotFound = errors.New("target not found")

	// ErrNotFound means the addressed node does not exist.
	ErrNotFound = errors.New("node not found")

	// ErrEmptyName rejects blank names.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidName rejects names containing the path separator.
	ErrInvalidName = errors.New("name cannot contain a path separator")

	// ErrDuplicateSibling rejects edits that would give two siblings the same
	// name.
	ErrDuplicateSibling = errors.New("a sibling with that name already exists")
)
