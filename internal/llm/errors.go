package llm

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// UpstreamError carries the HTTP status of a failed upstream call so the
// retry layer can classify it as transient or permanent.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream call failed with status %d: %v", e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode implements the status interface consumed by the retry executor.
func (e *UpstreamError) StatusCode() int { return e.Status }

// WrapUpstream attaches the HTTP status carried by go-openai errors so that
// callers can classify the failure. Errors with no status pass through.
func WrapUpstream(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{Status: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
