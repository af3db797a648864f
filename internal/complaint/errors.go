package complaint

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidField is returned when an edit names a field that is not declared.
	ErrInvalidField = errors.New("invalid field reference")
	// ErrUnknownCategory is returned when a classification is outside the guide.
	ErrUnknownCategory = errors.New("unknown complaint category")
	// ErrInvalidGuide is returned when a category guide fails validation.
	ErrInvalidGuide = errors.New("invalid category guide")
)

// FieldError reports the undeclared field named in an edit command.
type FieldError struct {
	Name string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidField, e.Name)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}
