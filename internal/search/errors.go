package search

import "errors"

// ErrNoResults indicates no candidate survived aggregation and ranking.
// This is informational, not a failure.
var ErrNoResults = errors.New("no matching results found")
