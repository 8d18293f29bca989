package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable is returned when the source cannot be fetched or
	// parsed as a table.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrColumnNotFound is returned when a named column is absent from the schema.
	ErrColumnNotFound = errors.New("column not found")
)

func columnNotFound(name string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// ColumnNotFound wraps ErrColumnNotFound with the missing column name.
func ColumnNotFound(name string) error {
	return columnNotFound(name)
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataUnavailable, fmt.Sprintf(format, args...))
}
