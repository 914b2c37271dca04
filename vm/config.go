package vm

// Config controls compilation limits and matcher behavior.
//
// The zero value is usable: no step budget, the package default program
// size limit and fault logging to stderr.
type Config struct {
	// MaxProgramSize caps the number of instructions a compiled program
	// may hold. Patterns that exceed it fail to compile with
	// ErrProgramTooLarge rather than grow without bound.
	// 0 means the package default.
	// Default: 4096
	MaxProgramSize int

	// MaxSteps bounds the total number of matcher steps a single match
	// call may spend across all its start offsets. Patterns with heavy
	// backtracking give up and report no match once the budget is spent.
	// 0 means no budget.
	// Default: 0
	MaxSteps uint64

	// Logger receives execution fault diagnostics.
	// nil means a default logger writing to stderr.
	Logger *Logger
}

// defaultMaxProgramSize bounds compiled programs when the configuration
// does not say otherwise.
const defaultMaxProgramSize = 4096

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxProgramSize: defaultMaxProgramSize,
		MaxSteps:       0,
		Logger:         nil,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxProgramSize: 0 (default) or 1 to 1,048,576
func (c Config) Validate() error {
	if c.MaxProgramSize < 0 || c.MaxProgramSize > 1<<20 {
		return &ConfigError{
			Field:   "MaxProgramSize",
			Message: "must be between 0 and 1,048,576",
		}
	}
	return nil
}

// maxProgramSize resolves the configured cap, applying the default.
func (c Config) maxProgramSize() int {
	if c.MaxProgramSize == 0 {
		return defaultMaxProgramSize
	}
	return c.MaxProgramSize
}

// logger resolves the fault logger, applying the default.
func (c Config) logger() *Logger {
	if c.Logger == nil {
		return defaultLogger
	}
	return c.Logger
}
