package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ListValues returns the config as a flat key→value map keyed by the JSON
// field names.
func ListValues(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return values, nil
}

// GetValue loads the config at path and returns the value for the given key.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	values, err := ListValues(cfg)
	if err != nil {
		return nil, err
	}
	val, ok := values[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue loads the config file at path, sets key to value, and saves it
// back. The raw file is used, not Load, so env overrides are never written
// to disk. Numeric fields accept integer strings.
func SetValue(path, key, value string) error {
	cfg, err := loadFile(path)
	if err != nil {
		return err
	}
	values, err := ListValues(cfg)
	if err != nil {
		return err
	}
	old, ok := values[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	switch old.(type) {
	case string:
		values[key] = value
	case float64:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config key %s wants a number: %w", key, err)
		}
		values[key] = n
	default:
		return fmt.Errorf("config key %s cannot be set from a string", key)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var updated Config
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return Save(path, &updated)
}
