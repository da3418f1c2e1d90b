package service

import (
	"errors"
	"fmt"
	"strings"
)

// LoadError reports a missing, corrupt or inconsistent artifact at startup.
// It is fatal: the process must not serve requests after one.
type LoadError struct {
	Artifact string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load artifact %s: %v", e.Artifact, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// EncodingError reports a record that does not satisfy the fitted encoders'
// contract. No partial vector accompanies it.
type EncodingError struct {
	Column string
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	msg := "encode record"
	if e.Column != "" {
		msg += ": column " + e.Column
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EncodingError) Unwrap() error { return e.Err }

// UnknownModelError reports a model name that is not registered.
type UnknownModelError struct {
	Name      string
	Available []string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// ScoringError reports malformed classifier output. It indicates a
// model-integrity bug and is never retried.
type ScoringError struct {
	Model  string
	Reason string
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("score with model %q: %s", e.Model, e.Reason)
}

// Failure kinds used to label monitoring data.
const (
	FailureEncoding     = "encoding"
	FailureUnknownModel = "unknown_model"
	FailureScoring      = "scoring"
	FailureOther        = "other"
)

// FailureKind classifies err into one of the Failure* constants.
func FailureKind(err error) string {
	var (
		encErr     *EncodingError
		unknownErr *UnknownModelError
		scoringErr *ScoringError
	)
	switch {
	case errors.As(err, &encErr):
		return FailureEncoding
	case errors.As(err, &unknownErr):
		return FailureUnknownModel
	case errors.As(err, &scoringErr):
		return FailureScoring
	default:
		return FailureOther
	}
}
