package config

import "strings"

// normalizer maps loosely written enum strings onto their canonical value,
// falling back to a default for anything unrecognized.
type normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
}

func newNormalizer[T comparable](values map[string]T, defaultValue T) *normalizer[T] {
	n := &normalizer[T]{values: make(map[string]T, len(values)), defaultValue: defaultValue}
	for k, v := range values {
		n.values[normalizeKey(k)] = v
	}
	return n
}

func (n *normalizer[T]) normalize(raw string) T {
	if v, ok := n.values[normalizeKey(raw)]; ok {
		return v
	}
	return n.defaultValue
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalize case-folds enumerations and trims free-form values.
func (c *Config) normalize() {
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
	c.Package.Version = strings.TrimSpace(c.Package.Version)
	c.Package.BugtrackerURL = strings.TrimSpace(c.Package.BugtrackerURL)
}
