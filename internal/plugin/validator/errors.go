package validator

import "fmt"

// ValidationError describes one validation failure with enough context
// to point the author at the offending file and field.
type ValidationError struct {
	// Field is the frontmatter or manifest field, e.g. "name".
	Field string

	// Message explains what is wrong.
	Message string

	// Value is the offending value, when short enough to show.
	Value string

	// Context identifies the file or plugin component.
	Context string
}

func (e *ValidationError) Error() string {
	msg := e.Field + ": " + e.Message
	if e.Value != "" {
		msg += fmt.Sprintf(" (got %q)", e.Value)
	}
	if e.Context != "" {
		msg = e.Context + ": " + msg
	}
	return msg
}

// Result collects validation errors for one plugin.
type Result struct {
	Errors []*ValidationError
}

// Valid reports whether validation passed.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(field, message, value, context string) {
	r.Errors = append(r.Errors, &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Context: context,
	})
}
