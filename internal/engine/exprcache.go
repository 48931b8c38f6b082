package engine

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// maxExpressionNodes caps expression complexity. Definitions are trusted
// more than arbitrary user input, but a runaway generated expression should
// still fail at compile time rather than at evaluation time.
const maxExpressionNodes = 200

// programCache caches compiled expressions so each element source and
// variable expression compiles once per engine, not once per record.
// Thread-safe via RWMutex: multiple readers or single writer.
type programCache struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
	options  []expr.Option
}

// newProgramCache creates a cache with the given extra compile options.
func newProgramCache(extra ...expr.Option) *programCache {
	options := append([]expr.Option{
		expr.AllowUndefinedVariables(),
		expr.MaxNodes(maxExpressionNodes),
	}, extra...)

	return &programCache{
		programs: make(map[string]*vm.Program),
		options:  options,
	}
}

// getOrCompile retrieves a cached program or compiles and caches a new one.
func (c *programCache) getOrCompile(expression string) (*vm.Program, error) {
	// Optimistic read path - the expression is likely cached.
	c.mu.RLock()
	program, found := c.programs[expression]
	c.mu.RUnlock()

	if found {
		return program, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock.
	if program, found := c.programs[expression]; found {
		return program, nil
	}

	program, err := expr.Compile(expression, c.options...)
	if err != nil {
		return nil, err
	}

	c.programs[expression] = program
	return program, nil
}

// run compiles (or fetches) and evaluates an expression against an
// environment. The evaluation path takes no lock.
func (c *programCache) run(expression string, env map[string]any) (any, error) {
	program, err := c.getOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, env)
}
