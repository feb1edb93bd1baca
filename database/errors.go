package database

import (
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kbukum/voxpersona/errors"
)

// IsConnectionError reports whether err looks like a lost or refused
// connection.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(strings.ToLower(err.Error()),
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"no route to host",
		"network is unreachable",
		"connection closed",
		"driver: bad connection",
	)
}

// IsRetryableError reports whether the operation may succeed if repeated.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if IsConnectionError(err) {
		return true
	}
	return containsAny(strings.ToLower(err.Error()),
		"deadlock",
		"lock timeout",
		"database is locked",
		"too many connections",
	)
}

// IsNotFoundError checks for GORM's record-not-found error.
func IsNotFoundError(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError checks for a unique-key violation.
func IsDuplicateError(err error) bool {
	return stderrors.Is(err, gorm.ErrDuplicatedKey)
}

// IsForeignKeyError checks for a foreign-key violation.
func IsForeignKeyError(err error) bool {
	return stderrors.Is(err, gorm.ErrForeignKeyViolated)
}

// FromDatabase converts a database error to an AppError naming resource.
func FromDatabase(err error, resource, id string) *errors.AppError {
	if err == nil {
		return nil
	}
	if app, ok := errors.AsAppError(err); ok {
		return app
	}
	switch {
	case IsNotFoundError(err):
		return errors.NotFound(resource, id)
	case IsDuplicateError(err):
		return errors.Conflict("A " + resource + " with these details already exists.").WithCause(err)
	case IsForeignKeyError(err):
		return errors.Conflict("The " + resource + " references a record that does not exist.").WithCause(err)
	}
	return errors.Persistence(err).WithRetryable(IsRetryableError(err))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
