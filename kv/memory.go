package kv

import (
	"maps"
	"slices"
)

// Memory is a KV held in a map. Its zero value is ready to use.
type Memory struct {
	data map[string]string
}

// NewMemory returns an empty Memory, optionally seeded with data.
func NewMemory(seed ...map[string]string) *Memory {
	m := &Memory{data: make(map[string]string)}
	for _, s := range seed {
		maps.Copy(m.data, s)
	}
	return m
}

func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []string { return slices.Sorted(maps.Keys(m.data)) }
