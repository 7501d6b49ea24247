// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic. This separation allows config.go to focus on YAML structure
// and loading, while this file handles the MCP and CLI interface where config
// is accessed by string keys (e.g., "limits.max_path").
//
// Design: Pointers are used for optional fields so we can distinguish between
// "not set" (nil) and "explicitly set to zero/empty". This enables proper
// defaulting - we only apply defaults when the user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"author.name", "author.email",
		"defaults.ruleset",
		"limits.max_path",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "author.name":
		return c.Author.Name, nil
	case "author.email":
		return c.Author.Email, nil
	case "defaults.ruleset":
		return c.DefaultRuleset(), nil
	case "limits.max_path":
		return strconv.Itoa(c.MaxPath()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "author.email":
		c.Author.Email = value
	case "defaults.ruleset":
		if value == "" {
			return fmt.Errorf("%w: defaults.ruleset must not be empty", ErrInvalidValue)
		}
		c.Defaults.Ruleset = &value
	case "limits.max_path":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: limits.max_path must be a positive integer", ErrInvalidValue)
		}
		c.Limits.MaxPath = &n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	return map[string]string{
		"author.name":      c.Author.Name,
		"author.email":     c.Author.Email,
		"defaults.ruleset": c.DefaultRuleset(),
		"limits.max_path":  strconv.Itoa(c.MaxPath()),
	}
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "author.email":
		return c.Author.Email != ""
	case "defaults.ruleset":
		return c.Defaults.Ruleset != nil
	case "limits.max_path":
		return c.Limits.MaxPath != nil
	default:
		return false
	}
}
