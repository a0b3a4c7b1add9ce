package storage

import (
	"encoding/json"
	"fmt"
)

// SQLite has no array or map columns, so list and map fields are stored as
// JSON text. Nil values round-trip as empty collections, never as SQL NULL.

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal string list: %w", err)
	}
	return values, nil
}

func marshalStringMap(values map[string]string) (string, error) {
	if values == nil {
		values = map[string]string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal string map: %w", err)
	}
	return string(data), nil
}

func unmarshalStringMap(data string) (map[string]string, error) {
	if data == "" {
		return map[string]string{}, nil
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal string map: %w", err)
	}
	return values, nil
}

func marshalFloatMap(values map[string]float64) (string, error) {
	if values == nil {
		values = map[string]float64{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal numeric map: %w", err)
	}
	return string(data), nil
}

func unmarshalFloatMap(data string) (map[string]float64, error) {
	if data == "" {
		return map[string]float64{}, nil
	}
	var values map[string]float64
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal numeric map: %w", err)
	}
	return values, nil
}
