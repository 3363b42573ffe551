package types

import "errors"

var (
	// ErrMisconfigured marks failures caused by invalid endpoints or settings.
	// It is the only kind of provider error that escapes the query pipeline.
	ErrMisconfigured = errors.New("misconfigured provider")

	// ErrNoCompletion is returned by a generator when the provider answered
	// successfully but produced no completion text.
	ErrNoCompletion = errors.New("no completion in response")
)
