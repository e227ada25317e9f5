package news

import "errors"

var (
	// ErrMalformedRecord marks a single raw record that cannot be normalized.
	// The record is skipped; the rest of the batch is unaffected.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrFetchFailed marks a whole-request failure. Callers receive an empty list.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUnknownCategory is returned for selectors outside the category enum
	ErrUnknownCategory = errors.New("unknown category")
)
