package service

import (
	"errors"
	"fmt"

	"jurisai-backend/prompt"
	"jurisai-backend/repository"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrMatterNotFound   = errors.New("matter not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrIssueNotFound    = errors.New("issue not found")
	ErrNothingToSave    = errors.New("nothing to save")
	ErrExtractionFailed = errors.New("failed to extract text from file")
)

// ValidationError reports bad user input detected before any external call
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidation and the cause
func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Cause}
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// promptError maps template refusals onto validation errors
func promptError(err error) error {
	switch {
	case errors.Is(err, prompt.ErrCourtRequired):
		return &ValidationError{Field: "court", Message: "the matter has no court; set one before generating an argument", Cause: err}
	case errors.Is(err, prompt.ErrMatterRequired):
		return &ValidationError{Field: "matter_id", Message: "select a matter first", Cause: err}
	case errors.Is(err, prompt.ErrMissingInput):
		return &ValidationError{Message: err.Error(), Cause: err}
	}
	return err
}

// matterError maps a failed matter fetch
func matterError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMatterNotFound
	}
	return fmt.Errorf("failed to load matter: %w", err)
}
