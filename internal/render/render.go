// Package render defines the output driver contract and the runtime
// registry resolving format names to drivers. The engine core never
// inspects a driver; it hands over the instruction list verbatim.
package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bandkit/bandkit/internal/domain/run"
)

// Options tunes a single render call.
type Options struct {
	// Indent pretty-prints structured formats.
	Indent bool
	// Title is the document title for formats that carry one.
	Title string
}

// Renderer turns a run's instruction list into bytes of one output format.
type Renderer interface {
	Render(instructions []run.Instruction, opts Options) ([]byte, error)
	// SupportsStreaming reports whether the driver can emit output
	// incrementally instead of buffering the whole instruction list.
	SupportsStreaming() bool
	FileExtension() string
}

// Registry maps format names to renderers. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]Renderer
}

// NewRegistry returns a registry pre-populated with the built-in drivers.
func NewRegistry() *Registry {
	r := &Registry{drivers: make(map[string]Renderer)}
	r.Register("json", &JSONRenderer{})
	r.Register("yaml", &YAMLRenderer{})
	r.Register("html", &HTMLRenderer{})
	r.Register("text", &TextRenderer{})
	return r
}

// Register adds or replaces a driver under a format name.
func (r *Registry) Register(format string, driver Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[format] = driver
}

// Lookup resolves a format name, listing the supported formats on miss.
func (r *Registry) Lookup(format string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	driver, ok := r.drivers[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s (supported: %v)", format, r.formats())
	}
	return driver, nil
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formats()
}

func (r *Registry) formats() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
