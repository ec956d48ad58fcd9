package config

import (
	"fmt"
	"strings"
	"time"
)

// DurationOrDefault parses a Go duration string, falling back to
// defaultValue when value is empty. The webhook server timeouts are
// configured as strings ("15s", "1m") so they can come from env vars;
// this is where they become time.Duration.
func DurationOrDefault(value string, defaultValue string) (time.Duration, error) {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		candidate = strings.TrimSpace(defaultValue)
	}
	if candidate == "" {
		return 0, fmt.Errorf("duration value is empty")
	}

	d, err := time.ParseDuration(candidate)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", candidate, err)
	}
	return d, nil
}
