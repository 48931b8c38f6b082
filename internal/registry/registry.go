// Package registry holds report definitions resolved by name at runtime.
// It replaces any notion of generating a code unit per report: reports
// are data, looked up when a run is requested.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bandkit/bandkit/internal/domain/report"
)

// Registry maps report names to definitions. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	reports map[string]*report.Report
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{reports: make(map[string]*report.Report)}
}

// Register validates and stores a definition under its metadata name.
// Re-registering a name replaces the previous definition.
func (r *Registry) Register(def *report.Report) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[def.Metadata.Name] = def
	return nil
}

// Lookup resolves a report by name.
func (r *Registry) Lookup(name string) (*report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.reports[name]
	if !ok {
		return nil, fmt.Errorf("report %s is not registered", name)
	}
	return def, nil
}

// Names returns the registered report names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.reports))
	for name := range r.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
