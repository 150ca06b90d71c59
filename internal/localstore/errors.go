package localstore

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageInit is returned when the database could not be opened or a table could not be created.
	ErrStorageInit = errors.New("storage initialization failed")

	// ErrPartialInsert is matched by every PartialInsertError.
	ErrPartialInsert = errors.New("partial insert")
)

// PartialInsertError reports a bulk insert that persisted fewer rows than requested.
// The Inserted rows stay in the table.
type PartialInsertError struct {
	Table     string
	Inserted  int
	Requested int
	Err       error
}

// Error implements error.
func (e *PartialInsertError) Error() string {
	return fmt.Sprintf("partial insert into %s: %d of %d rows persisted: %v",
		e.Table, e.Inserted, e.Requested, e.Err)
}

// Unwrap exposes both ErrPartialInsert and the cause to errors.Is and errors.As.
func (e *PartialInsertError) Unwrap() []error {
	return []error{ErrPartialInsert, e.Err}
}
