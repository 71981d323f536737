package analysis

import (
	"fmt"

	"github.com/KaramelBytes/csvlens/internal/table"
)

// UnknownColumnError indicates a column name that is not in the table.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Name)
}

// TypeMismatchError indicates a numeric operation on a non-numeric column.
type TypeMismatchError struct {
	Column string
	Kind   table.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %q is %s, not numeric", e.Column, e.Kind)
}
