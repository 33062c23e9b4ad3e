package controller

import "errors"

// Error classes surfaced to the presentation layer. Test with errors.Is;
// the wrapped chain also carries the underlying cause.
var (
	// ErrForbidden means the role policy denied the intent. No request
	// was sent.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation means a local precondition failed, e.g. an empty
	// title. No request was sent.
	ErrValidation = errors.New("validation failed")

	// ErrLoadFailed means fetching tasks or employees failed. The cache
	// still holds its previous snapshot.
	ErrLoadFailed = errors.New("load failed")

	// ErrMutationFailed means a create, update or delete was rejected or
	// never reached the store. The cache still holds its previous
	// snapshot.
	ErrMutationFailed = errors.New("mutation failed")

	// ErrBusy means another load or mutation is in flight. The new
	// intent was dropped, not queued.
	ErrBusy = errors.New("another operation is in progress")
)
