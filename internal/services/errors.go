package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrAuth          = errors.New("authentication error")
	ErrTransient     = errors.New("transient failure")
	ErrGeneration    = errors.New("generation error")
	ErrPrecondition  = errors.New("precondition error")
	ErrNotFound      = errors.New("not found")
)

// Wrap builds an error message that includes collaborator context while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, collaborator, operation, message string, err error) error {
	detail := buildDetail(collaborator, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the whole invocation rather
// than being recorded against a single item. Configuration problems abort
// before any batch work; auth problems abort the current run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrAuth)
}

func buildDetail(collaborator, operation, message string) string {
	parts := make([]string, 0, 3)
	if collaborator = strings.TrimSpace(collaborator); collaborator != "" {
		parts = append(parts, collaborator)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
