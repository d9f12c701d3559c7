package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyRestriction rejects dietary restrictions with a blank type.
var ErrEmptyRestriction = errors.New("dietary restriction type must not be empty")

// Stage identifies where in the pipeline a failure happened.
type Stage string

const (
	StageRouting  Stage = "routing"
	StageVetting  Stage = "vetting"
	StageAuditing Stage = "auditing"
)

// ErrorKind tags a pipeline failure for the API boundary. The HTTP layer
// maps kinds to status codes; raw provider errors never reach the caller.
type ErrorKind string

const (
	// KindClassification: the router's output contained no known track label.
	KindClassification ErrorKind = "classification"
	// KindParse: a stage response was malformed and could not be decoded.
	KindParse ErrorKind = "parse"
	// KindUpstream: the model/search provider failed or timed out.
	KindUpstream ErrorKind = "upstream"
)

// StageError wraps a stage-local failure with its stage and kind so the
// boundary can map it without string matching.
type StageError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func NewStageError(stage Stage, kind ErrorKind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// KindOf extracts the error kind from err's chain. The second return is
// false for errors that did not originate in a pipeline stage.
func KindOf(err error) (ErrorKind, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}

// StageOf extracts the failing stage from err's chain.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
