package service

import (
	appErrors "github.com/youngtech-edu/records-api/pkg/errors"

	"github.com/youngtech-edu/records-api/internal/repository"
	"github.com/youngtech-edu/records-api/pkg/database"
)

// storeError maps a repository failure onto the error taxonomy. A unique
// index rejecting a write means a concurrent writer won the race the
// advisory pre-check missed; a connection-level failure means the store is
// unreachable. Everything else is internal.
func storeError(err error, message string) error {
	switch {
	case repository.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "record violates a uniqueness constraint")
	case database.IsUnavailable(err):
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}
