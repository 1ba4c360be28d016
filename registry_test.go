package vidpipe

import (
	"errors"
	"testing"
)

// stubFactory returns a factory producing an empty engine set; registry
// tests only exercise selection, never the engines themselves.
func stubFactory(t *testing.T) EngineFactory {
	t.Helper()
	return func(cfg EngineConfig) (*Engines, error) {
		return &Engines{}, nil
	}
}

// TestRegistryRegister tests backend registration.
func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, stubFactory(t), nil)

	entry, ok := r.Get("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if entry.Name != "test" {
		t.Errorf("Name = %s, want test", entry.Name)
	}
	if entry.Priority != 50 {
		t.Errorf("Priority = %d, want 50", entry.Priority)
	}
	if !entry.Available() {
		t.Error("backend should be available (nil Available func)")
	}
}

// TestRegistryUnregister tests backend removal.
func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register("temp", 10, stubFactory(t), nil)

	if _, ok := r.Get("temp"); !ok {
		t.Fatal("backend should exist before unregister")
	}
	r.Unregister("temp")
	if _, ok := r.Get("temp"); ok {
		t.Error("backend should not exist after unregister")
	}
}

// TestRegistryPriorityOrder tests that selection prefers higher priority.
func TestRegistryPriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("software", 10, stubFactory(t), nil)
	r.Register("hw", 100, stubFactory(t), nil)
	r.Register("mid", 50, stubFactory(t), nil)

	got := r.Backends()
	want := []string{"hw", "mid", "software"}
	if len(got) != len(want) {
		t.Fatalf("Backends() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Backends()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// TestRegistryAvailability tests that unavailable backends are filtered and
// skipped during auto-selection.
func TestRegistryAvailability(t *testing.T) {
	r := NewRegistry()
	r.Register("present", 10, stubFactory(t), nil)
	r.Register("absent", 100, stubFactory(t), func() bool { return false })

	avail := r.AvailableBackends()
	if len(avail) != 1 || avail[0] != "present" {
		t.Errorf("AvailableBackends() = %v, want [present]", avail)
	}

	// Auto-select must fall through the unavailable high-priority entry.
	if _, err := r.NewEngines(EngineConfig{}); err != nil {
		t.Errorf("NewEngines() = %v, want fallback to the available backend", err)
	}

	if _, err := r.NewEnginesByName("absent", EngineConfig{}); err == nil {
		t.Error("NewEnginesByName(absent) should fail")
	} else {
		var ue *BackendUnavailableError
		if !errors.As(err, &ue) {
			t.Errorf("error = %T, want *BackendUnavailableError", err)
		}
	}
}

// TestRegistryNotFound tests name lookup failures.
func TestRegistryNotFound(t *testing.T) {
	r := NewRegistry()

	if _, err := r.NewEngines(EngineConfig{}); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("NewEngines on empty registry = %v, want ErrNoBackendAvailable", err)
	}

	_, err := r.NewEnginesByName("nope", EngineConfig{})
	var nf *BackendNotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("error = %T, want *BackendNotFoundError", err)
	}
}
