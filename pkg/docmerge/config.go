package docmerge

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// Config contains the engine-wide configuration.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error, off).
	LogLevel string
	// RemoveEmpty is the default remove-empty policy for merges.
	RemoveEmpty bool
	// OpenDelimiter and CloseDelimiter are the default field delimiters.
	OpenDelimiter  string
	CloseDelimiter string
	// StrictMode fails merges on unresolved fields instead of applying
	// the remove-empty policy.
	StrictMode bool
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		RemoveEmpty:    true,
		OpenDelimiter:  DefaultDelimiters.Open,
		CloseDelimiter: DefaultDelimiters.Close,
		StrictMode:     false,
	}
}

// ConfigFromEnvironment creates a configuration from DOCMERGE_*
// environment variables, falling back to defaults.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("DOCMERGE_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}
	if val := os.Getenv("DOCMERGE_REMOVE_EMPTY"); val != "" {
		config.RemoveEmpty = parseBool(val)
	}
	if val := os.Getenv("DOCMERGE_OPEN_DELIMITER"); val != "" {
		config.OpenDelimiter = val
	}
	if val := os.Getenv("DOCMERGE_CLOSE_DELIMITER"); val != "" {
		config.CloseDelimiter = val
	}
	if val := os.Getenv("DOCMERGE_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}

	return config
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.OpenDelimiter == "" || c.CloseDelimiter == "" {
		return errors.New("delimiters must be non-empty")
	}
	if c.OpenDelimiter == c.CloseDelimiter {
		return errors.New("open and close delimiters must differ")
	}

	return nil
}

// Delimiters returns the configured delimiter pair.
func (c *Config) Delimiters() Delimiters {
	return Delimiters{Open: c.OpenDelimiter, Close: c.CloseDelimiter}.orDefault()
}

// GetGlobalConfig returns a copy of the global configuration.
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration.
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	UpdateLoggerFromConfig()
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
