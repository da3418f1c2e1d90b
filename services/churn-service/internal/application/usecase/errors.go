package usecase

import "errors"

var (
	// ErrForbidden is returned when the caller's roles do not permit the request.
	ErrForbidden = errors.New("operation not permitted for caller roles")

	// ErrHistoryDisabled is returned by history reads when no repository is configured.
	ErrHistoryDisabled = errors.New("assessment history is not enabled")

	// ErrAssessmentNotFound is returned when no assessment has the requested ID.
	ErrAssessmentNotFound = errors.New("assessment not found")
)
