package possim

import "fmt"

// ConfigError reports an invalid Parameters field. It is always surfaced
// before the first epoch runs; a simulation never starts with a bad config.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("possim: invalid configuration: %s %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SelectionError reports that a validator draw became impossible mid-run,
// typically because total stake collapsed to zero (everyone left, or all
// stake was penalized away). The run cannot continue; the caller receives
// the partial RunOutput produced up to the failing epoch.
type SelectionError struct {
	Epoch  int
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("possim: selection failed at epoch %d: %s", e.Epoch, e.Reason)
}
