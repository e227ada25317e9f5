package service

import "errors"

var (
	// ErrUnauthenticated is returned when a bookmark mutation has no signed-in user
	ErrUnauthenticated = errors.New("sign in required")

	// ErrToggleFailed is returned when the store rejects a bookmark insert or delete
	ErrToggleFailed = errors.New("bookmark toggle failed")

	// ErrToggleInFlight is returned when a toggle for the same user and article is outstanding
	ErrToggleInFlight = errors.New("bookmark toggle already in progress")

	// ErrBookmarksLoading is returned by a toggle while the user's bookmarks are still loading
	ErrBookmarksLoading = errors.New("bookmarks are still loading")

	// ErrLoadFailed is returned when bookmarks cannot be read from the store
	ErrLoadFailed = errors.New("bookmark load failed")

	// ErrCopyFailed is returned when the clipboard rejects a copy
	ErrCopyFailed = errors.New("copy to clipboard failed")

	// ErrSignInUnsupported is returned when the auth provider does not accept tokens directly
	ErrSignInUnsupported = errors.New("sign in not supported by auth provider")

	// ErrGateStarted is returned by a second SessionGate.Start
	ErrGateStarted = errors.New("session gate already started")
)
