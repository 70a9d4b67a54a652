package postgres

import (
	"fmt"

	"github.com/wordlestats/wordlebot/wordlebot/storage"
)

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() []error {
	return []error{storage.ErrBackend, re.Err}
}

// handleError wraps err for entity. Missing rows never reach it: callers
// turn sql.ErrNoRows into zero stats or an empty result first.
func handleError(operation, entity string, err error) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{Operation: operation, Entity: entity, Err: err}
}
