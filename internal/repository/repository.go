package repository

import (
	"errors"

	"github.com/lib/pq"
)

// pq error code for unique_violation.
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err was caused by a unique index
// rejecting a write. The index is the authoritative uniqueness mechanism;
// service-level pre-checks only exist for friendlier error messages, so a
// concurrent writer can still lose the race and land here.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
