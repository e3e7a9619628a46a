package driven

import "time"

// ConfigStore provides read access to the settings file.
// Implementations handle parsing and type conversion; keys use dot notation.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat retrieves a numeric configuration value as float64.
	GetFloat(key string) float64

	// GetDuration retrieves a duration written as a string such as "30s".
	// Returns an error if the value exists but cannot be parsed.
	GetDuration(key string) (time.Duration, bool, error)

	// Keys returns every key present, sorted.
	Keys() []string

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
