// Package selftest holds the suites shipped with the utest binary.
package selftest

import "utest/internal/registry"

// Suite names
const (
	SelfCheck = "selfcheck"
	Demo      = "demo"
)

// Register adds the built-in suites to r.
func Register(r *registry.Registry) error {
	for _, def := range []registry.SuiteDef{selfCheckSuite(), demoSuite()} {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}
