package vidpipe

import (
	"errors"
	"sort"
	"sync"
)

// EngineFactory builds one backend's engine set.
// Implementations should validate the config and return descriptive errors.
type EngineFactory func(cfg EngineConfig) (*Engines, error)

// RegistryEntry represents a registered engine backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: hardware engines
	//   - 10: pure software engines
	Priority int

	// Factory creates engine sets.
	Factory EngineFactory

	// Available reports if the backend is usable on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered engine backends.
//
// Backends register themselves via blank import:
//
//	import _ "github.com/gogpu/vidpipe/backend/software"
//
// and callers either auto-select the best available backend with NewEngines
// or pick one explicitly with NewEnginesByName.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewEngines.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a backend to the global registry.
//
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory EngineFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// Backends returns all registered backend names sorted by priority
// (highest first).
func Backends() []string {
	return globalRegistry.Backends()
}

// AvailableBackends returns names of all available backends sorted by
// priority.
func AvailableBackends() []string {
	return globalRegistry.AvailableBackends()
}

// NewEngines builds an engine set using the best available backend.
func NewEngines(cfg EngineConfig) (*Engines, error) {
	return globalRegistry.NewEngines(cfg)
}

// NewEnginesByName builds an engine set using a specific named backend.
func NewEnginesByName(name string, cfg EngineConfig) (*Engines, error) {
	return globalRegistry.NewEnginesByName(name, cfg)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory EngineFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// Backends returns all registered backend names sorted by priority.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// AvailableBackends returns names of all available backends sorted by
// priority.
func (r *Registry) AvailableBackends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// NewEngines builds an engine set using the best available backend.
func (r *Registry) NewEngines(cfg EngineConfig) (*Engines, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		eng, err := r.NewEnginesByName(name, cfg)
		if err == nil {
			return eng, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// NewEnginesByName builds an engine set using a specific backend.
func (r *Registry) NewEnginesByName(name string, cfg EngineConfig) (*Engines, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory(cfg)
}

// sortedNames returns backend names sorted by priority (highest first).
// If onlyAvailable is true, filters to available backends only.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}
	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoBackendAvailable is returned when no engine backends are
	// registered or available on the current system.
	ErrNoBackendAvailable = errors.New("vidpipe: no backend available")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "vidpipe: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "vidpipe: backend unavailable: " + e.Name
}
