package task

import (
	"path/filepath"
	"testing"
)

func TestNewRegistryPreservesOrder(t *testing.T) {
	reg, err := NewRegistry(
		Descriptor{ID: "b", Description: "second"},
		Descriptor{ID: " a ", Description: " first "},
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	ids := reg.IDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Fatalf("ids = %v, want [b a]", ids)
	}
	got, ok := reg.Lookup("a")
	if !ok {
		t.Fatalf("expected lookup of trimmed id to succeed")
	}
	if got.Description != "first" {
		t.Fatalf("description = %q, want trimmed", got.Description)
	}
}

func TestNewRegistryRejectsInvalidIDs(t *testing.T) {
	cases := map[string][]Descriptor{
		"empty":     {{ID: " "}},
		"duplicate": {{ID: "x"}, {ID: "x"}},
		"separator": {{ID: "../etc"}},
	}
	for name, tasks := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewRegistry(tasks...); err == nil {
				t.Fatalf("expected error for %v", tasks)
			}
		})
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	reg := MustRegistry(Descriptor{ID: "a", Files: []string{"x.cpp"}})
	tasks := reg.Tasks()
	tasks[0].ID = "mutated"
	tasks[0].Files[0] = "mutated.cpp"
	again := reg.Tasks()
	if again[0].ID != "a" || again[0].Files[0] != "x.cpp" {
		t.Fatalf("registry was mutated through Tasks(): %+v", again[0])
	}
}

func TestDefaultRegistryHasFourTasks(t *testing.T) {
	reg := DefaultRegistry()
	if reg.Len() != 4 {
		t.Fatalf("len = %d, want 4", reg.Len())
	}
	if _, ok := reg.Lookup("a5001fc"); !ok {
		t.Fatalf("expected edge case test task to be registered")
	}
}

func TestArtifactPathAndLabel(t *testing.T) {
	d := Descriptor{ID: "afb1d4c"}
	if got, want := d.ArtifactPath("/tmp/tasks", ".output"), filepath.Join("/tmp/tasks", "afb1d4c.output"); got != want {
		t.Fatalf("path = %s, want %s", got, want)
	}
	if d.Label() != "afb1d4c" {
		t.Fatalf("label should fall back to id, got %q", d.Label())
	}
}
