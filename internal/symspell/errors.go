package symspell

import "fmt"

// ConfigError reports a frequency dictionary or index configuration that the
// service cannot start with. It is fatal at startup.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "symspell config"
	if e.Path != "" {
		msg += fmt.Sprintf(" %s", e.Path)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }
