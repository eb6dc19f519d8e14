package decaytree

import "errors"

var (
	// ErrUnsupportedTree is returned when more than one leaf type occurs more
	// than once, so no single permutable type can be chosen.
	ErrUnsupportedTree = errors.New("decaytree: more than one repeated leaf type")

	// ErrUnknownChannel is returned by Lookup for channel names it does not know.
	ErrUnknownChannel = errors.New("decaytree: unknown channel")
)
