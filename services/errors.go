package services

import "errors"

var (
	// ErrValidation marks empty or malformed user input; nothing changed.
	ErrValidation = errors.New("invalid input")
	// ErrAnalysis marks a recognition collaborator failure; the add was
	// aborted with no partial mutation.
	ErrAnalysis = errors.New("food analysis failed")
	// ErrIndexOutOfRange marks a removal target that does not exist.
	ErrIndexOutOfRange = errors.New("item index out of range")
	// ErrFormat marks a malformed snapshot on import; state untouched.
	ErrFormat = errors.New("malformed snapshot")
	// ErrNoProfile means setup has not been completed yet.
	ErrNoProfile = errors.New("no profile configured")
)
