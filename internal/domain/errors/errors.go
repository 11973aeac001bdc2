package errors

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when an input path does not resolve to an
// existing file. It is fatal and aborts the run before any transformation.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("CSV not found: %s", e.Path)
}

// MissingKeyError is returned by the merger when a declared join key
// is absent from both input tables.
type MissingKeyError struct {
	Key    string   // the missing join key
	Tables []string // names of the tables that were checked
}

func (e *MissingKeyError) Error() string {
	if len(e.Tables) == 0 {
		return fmt.Sprintf("join key '%s' not found in either table", e.Key)
	}
	return fmt.Sprintf("join key '%s' not found in any of: %s", e.Key, strings.Join(e.Tables, ", "))
}
