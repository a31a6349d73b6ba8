package engine

import "fmt"

// InvalidInputError is a contract violation at the engine boundary. It is
// raised before any scoring happens and is never produced for malformed item
// values, which the scorers coerce instead.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}
