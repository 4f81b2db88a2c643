// Package registry keeps the suites compiled into the binary and builds fresh
// unittest.Suite instances from them. Suites are registered in code; nothing
// is discovered from the filesystem.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"utest/pkg/logcapture"
	"utest/pkg/unittest"
)

var (
	// ErrDuplicateSuite is returned when a suite name is registered twice.
	ErrDuplicateSuite = errors.New("suite already registered")
	// ErrUnknownSuite is returned when building a suite that was never registered.
	ErrUnknownSuite = errors.New("unknown suite")
	// ErrNoCases is returned when the name filter leaves nothing to run.
	ErrNoCases = errors.New("no cases match the filter")
)

// CaseDef describes one case of a registered suite.
type CaseDef struct {
	Name  string
	Flags unittest.Flag
	Func  unittest.Func
	Arg   any
	// NoCapture makes the case log straight to the run logger.
	NoCapture bool
}

// SuiteDef is a named, ordered list of case definitions.
type SuiteDef struct {
	Name        string
	Description string
	Cases       []CaseDef
}

// BuildOptions controls how cases are instantiated.
type BuildOptions struct {
	Pattern  string
	Capacity int
	Policy   logcapture.Policy
	// Params may be nil for unittest.DefaultCaseParams.
	Params *unittest.CaseParams
}

// Registry holds suite definitions by name.
type Registry struct {
	mu     sync.RWMutex
	suites map[string]SuiteDef
	filter *Filter
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		suites: make(map[string]SuiteDef),
		filter: NewFilter(),
	}
}

// Register adds def under def.Name.
func (r *Registry) Register(def SuiteDef) error {
	if def.Name == "" {
		return errors.New("suite name is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suites[def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSuite, def.Name)
	}
	r.suites[def.Name] = def
	return nil
}

// MustRegister is Register for package initialization; it panics on error.
func (r *Registry) MustRegister(defs ...SuiteDef) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (SuiteDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.suites[name]
	return def, ok
}

// Names returns the registered suite names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.suites))
	for name := range r.suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cases returns the definitions of suite name whose case names match pattern.
func (r *Registry) Cases(name, pattern string) ([]CaseDef, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSuite, name)
	}
	var out []CaseDef
	for _, c := range def.Cases {
		if r.filter.Match(c.Name, pattern) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Build creates a new suite from the cases of name matching opts.Pattern.
// Every case gets its own capture buffer unless it opts out.
func (r *Registry) Build(name string, opts BuildOptions) (*unittest.Suite, error) {
	defs, err := r.Cases(name, opts.Pattern)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w %q in suite %s", ErrNoCases, opts.Pattern, name)
	}

	s := unittest.NewSuite()
	for _, d := range defs {
		var buf *logcapture.Buffer
		if !d.NoCapture {
			buf = logcapture.New(opts.Capacity, opts.Policy)
		}
		tc, err := unittest.NewCase(d.Name, d.Flags, d.Func, d.Arg, buf, opts.Params)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", d.Name, err)
		}
		if err := s.Add(tc); err != nil {
			return nil, fmt.Errorf("case %s: %w", d.Name, err)
		}
	}
	return s, nil
}
