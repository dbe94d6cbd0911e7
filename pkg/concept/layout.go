package concept

import (
	"encoding/json"
	"fmt"
	"os"
)

// Layout is the serialization format for a computed force layout.
//
// ID identifies one layout computation so that the caller persisting the
// positions can tie a batch of writes to it. Seed, Scale and Iterations
// record how the simulation was run.
type Layout struct {
	ID         string              `json:"id"`
	Seed       uint64              `json:"seed"`
	Scale      float64             `json:"scale"`
	Iterations int                 `json:"iterations"`
	Positions  map[string]Position `json:"positions"`
}

// Position returns the position of id, or the origin if id has none.
func (l Layout) Position(id string) Position {
	return l.Positions[id]
}

// MarshalLayout serializes a Layout to indented JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Positions == nil {
		l.Positions = map[string]Position{}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
