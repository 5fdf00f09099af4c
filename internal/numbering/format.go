package numbering

import "fmt"

// Format renders a raw counter value under the given configuration.
// Padding is a minimum width: values wider than the configured padding keep
// all their digits. Pure function, no side effects.
func Format(cfg FormatConfig, value int64) (string, error) {
	if value < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegativeValue, value)
	}
	padded := fmt.Sprintf("%0*d", cfg.Padding, value)
	if cfg.Prefix == "" {
		return padded, nil
	}
	return cfg.Prefix + cfg.Separator + padded, nil
}

// Preview renders what the next issued number will look like without
// consuming it. Used by configuration screens.
func Preview(cfg FormatConfig) (string, error) {
	return Format(cfg, cfg.Counter)
}
