package rebalancing

import "errors"

// ErrSuggestionNotFound is returned when an apply request references an id
// that is not present in the freshly computed suggestion list.
var ErrSuggestionNotFound = errors.New("suggestion not found")
