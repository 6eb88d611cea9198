// internal/pll/errors.go
package pll

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration matches every *ConfigurationError.
	ErrInvalidConfiguration = errors.New("pll: invalid configuration")

	// ErrInvalidField matches every *FieldError.
	ErrInvalidField = errors.New("pll: invalid field")
)

// ConfigurationError reports a physically or electrically impossible
// request reaching the divider solver. Value is the offending computed
// quantity, expressed in Unit.
type ConfigurationError struct {
	Limit string
	Value float64
	Unit  string
}

func (e *ConfigurationError) Error() string {
	if e.Unit == "" {
		return "pll: " + e.Limit
	}
	return fmt.Sprintf("pll: %s (got %g %s)", e.Limit, e.Value, e.Unit)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrInvalidConfiguration }

// FieldError reports a register field outside its declared domain.
type FieldError struct {
	Field      string
	Constraint string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("pll: %s must be %s", e.Field, e.Constraint)
}

func (e *FieldError) Is(target error) bool { return target == ErrInvalidField }
