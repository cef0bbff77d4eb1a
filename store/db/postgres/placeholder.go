package postgres

import "fmt"

// placeholderAfter returns the positional placeholder following the current
// argument list, e.g. "$3" when two args are already bound.
func placeholderAfter(args []any) string {
	return fmt.Sprintf("$%d", len(args)+1)
}
