package app

import "fmt"

const (
	CodeDiffNotFound     = "DIFF_NOT_FOUND"
	CodeDocumentMismatch = "DOCUMENT_MISMATCH"
	CodeVersionNotFound  = "VERSION_NOT_FOUND"
	CodeEmptySelection   = "EMPTY_SELECTION"
)

type DomainError struct {
	Code    string
	Message string
	Details any
	Err     error
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func domainError(code, message string, details any, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: details,
		Err:     err,
	}
}
