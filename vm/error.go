package vm

import (
	"errors"
	"fmt"
)

// Common program errors
var (
	// ErrProgramTooLarge indicates the compiled program would exceed the
	// configured or preallocated instruction capacity
	ErrProgramTooLarge = errors.New("program too large")

	// ErrInvalidProgram indicates an instruction table that fails
	// structural validation
	ErrInvalidProgram = errors.New("invalid program")

	// ErrInvalidConfig indicates invalid configuration was provided
	ErrInvalidConfig = errors.New("invalid configuration")
)

// CompileError wraps compilation errors with the offending pattern.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("program compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("program compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// AssembleError reports the instruction that failed validation in
// Assemble.
type AssembleError struct {
	ID      InstID
	Message string
}

// Error implements the error interface
func (e *AssembleError) Error() string {
	return fmt.Sprintf("invalid instruction %d: %s", e.ID, e.Message)
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "invalid config: " + e.Field + ": " + e.Message
}
