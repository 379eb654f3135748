// Package task defines the fixed set of work units whose output graft
// consumes. A Registry is built once at startup and only read afterwards.

package task

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Descriptor identifies one task and the files its output is expected to touch.
type Descriptor struct {
	ID          string   `yaml:"id" koanf:"id"`
	Description string   `yaml:"description" koanf:"description"`
	Files       []string `yaml:"files,omitempty" koanf:"files"`
}

// Label returns the description, falling back to the ID.
func (d Descriptor) Label() string {
	if desc := strings.TrimSpace(d.Description); desc != "" {
		return desc
	}
	return d.ID
}

// ArtifactPath resolves where the task writes its output.
func (d Descriptor) ArtifactPath(dir, ext string) string {
	return filepath.Join(dir, d.ID+ext)
}

// Registry is an ordered, immutable list of descriptors.
type Registry struct {
	tasks []Descriptor
	index map[string]int
}

// NewRegistry validates and copies the descriptors. IDs must be non-empty
// and unique.
func NewRegistry(tasks ...Descriptor) (Registry, error) {
	reg := Registry{
		tasks: make([]Descriptor, 0, len(tasks)),
		index: make(map[string]int, len(tasks)),
	}
	for i, t := range tasks {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return Registry{}, fmt.Errorf("task: tasks[%d].id is required", i)
		}
		if strings.ContainsAny(id, `/\`) {
			return Registry{}, fmt.Errorf("task: tasks[%d].id %q must not contain path separators", i, id)
		}
		if _, dup := reg.index[id]; dup {
			return Registry{}, fmt.Errorf("task: duplicate id %q", id)
		}
		reg.index[id] = len(reg.tasks)
		reg.tasks = append(reg.tasks, Descriptor{
			ID:          id,
			Description: strings.TrimSpace(t.Description),
			Files:       append([]string(nil), t.Files...),
		})
	}
	return reg, nil
}

// MustRegistry panics if the descriptors are invalid.
func MustRegistry(tasks ...Descriptor) Registry {
	reg, err := NewRegistry(tasks...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Len returns the number of tasks.
func (r Registry) Len() int {
	return len(r.tasks)
}

// Tasks returns a copy of the descriptors in registry order.
func (r Registry) Tasks() []Descriptor {
	out := make([]Descriptor, len(r.tasks))
	for i, t := range r.tasks {
		t.Files = append([]string(nil), t.Files...)
		out[i] = t
	}
	return out
}

// Lookup finds a descriptor by ID.
func (r Registry) Lookup(id string) (Descriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.tasks[i], true
}

// IDs returns the task identifiers in registry order.
func (r Registry) IDs() []string {
	ids := make([]string, len(r.tasks))
	for i, t := range r.tasks {
		ids[i] = t.ID
	}
	return ids
}

// Defaults are the four P1 integration tasks.
func Defaults() []Descriptor {
	return []Descriptor{
		{
			ID:          "afb1d4c",
			Description: "P1.1: Error handling (expected<>)",
			Files:       []string{"connection.hpp", "connection.cpp", "protocol_hsm.hpp", "server.hpp", "server.cpp"},
		},
		{
			ID:          "a28bf15",
			Description: "P1.2: Backpressure mechanism",
			Files:       []string{"connection.hpp", "connection.cpp", "server.hpp"},
		},
		{
			ID:          "a5001fc",
			Description: "P1.3: Protocol edge case tests",
			Files:       []string{"test_protocol_edge_cases.cpp"},
		},
		{
			ID:          "a9a04f0",
			Description: "P1.4: Timeout management",
			Files:       []string{"connection.hpp", "connection.cpp", "server.hpp", "server.cpp"},
		},
	}
}

// DefaultRegistry builds a registry from Defaults.
func DefaultRegistry() Registry {
	return MustRegistry(Defaults()...)
}
