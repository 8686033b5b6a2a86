package server

import (
	"errors"
	"fmt"

	"github.com/taskflow/taskflow/db"
)

// wrapNotFound adds context to db.ErrNotFound and passes other errors through unchanged.
func wrapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf(format+": %w", append(args, err)...)
	}
	return err
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, db.ErrForbidden)...)
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrNotFound)
}
