package analysis

import (
	"errors"
	"fmt"
)

// ConfigError reports an analysis configuration the caller must fix before any aggregation runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrNoNumericData indicates a score column holds no numeric values.
var ErrNoNumericData = errors.New("no numeric scores found in the decision column")

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
