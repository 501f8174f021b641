package types

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	// ErrInputMissing means no usable input designator was provided.
	ErrInputMissing ErrorKind = "input_missing"
	// ErrSizeExceeded means the uploaded document was over the byte cap.
	ErrSizeExceeded ErrorKind = "size_exceeded"
	// ErrRemoteFetchFailed means a remote fetch timed out or returned a
	// non-success status. Non-fatal: the source reader absorbs it.
	ErrRemoteFetchFailed ErrorKind = "remote_fetch_failed"
	// ErrNoExtractableText means every source yielded empty text.
	ErrNoExtractableText ErrorKind = "no_extractable_text"
	// ErrMalformedExtractorResponse means the extraction collaborator
	// returned output that does not match the draft contract.
	ErrMalformedExtractorResponse ErrorKind = "malformed_extractor_response"
	// ErrValidationFailed means the draft was rejected by shape
	// validation. The offending draft travels with the error.
	ErrValidationFailed ErrorKind = "validation_failed"
	// ErrInvalidServings means scaling preconditions were violated.
	ErrInvalidServings ErrorKind = "invalid_servings"
)

// PipelineError is the structured error the pipeline surfaces to callers.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	// Draft carries the rejected draft for ErrValidationFailed so callers
	// can show the user what was extracted.
	Draft *RecipeDraft
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps an error kind to the status the request surface returns.
func (e *PipelineError) HTTPStatus() int {
	switch e.Kind {
	case ErrInputMissing, ErrInvalidServings:
		return http.StatusBadRequest
	case ErrSizeExceeded:
		return http.StatusRequestEntityTooLarge
	case ErrValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrRemoteFetchFailed, ErrNoExtractableText, ErrMalformedExtractorResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewPipelineError builds a PipelineError without a cause.
func NewPipelineError(kind ErrorKind, message string) *PipelineError {
	return &PipelineError{Kind: kind, Message: message}
}
