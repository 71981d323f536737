package table

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile indicates the input has no header row.
	ErrEmptyFile = errors.New("file is empty")
	// ErrRowWidth indicates a data row whose field count differs from the header.
	ErrRowWidth = errors.New("row width does not match header")
)

// LoadError describes why a file could not be turned into a Table.
type LoadError struct {
	Path string
	Line int // 1-based line of the offending record, 0 if not row-specific
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
