// Package model defines the data structures shared by the tree parser, the
// SBOM loader and the reconciliation engine.
package model

import "strings"

// SbomComponent is one flat entry of an SBOM component list. Any field may be
// empty for malformed entries; components without a name are skipped.
type SbomComponent struct {
	Name    string // Component name as written in the SBOM
	Version string // Version string, empty when the SBOM omits it
	PURL    string // Package URL (pkg:pypi/requests@2.31.0), if present
}

// Normalize returns the canonical comparison key for a package name:
// lowercase, with "_" and "-" replaced by ".", runs of "." collapsed into one
// and leading/trailing "." removed. So that:
//   - "Foo_Bar", "foo-bar" and "FOO..BAR" all become "foo.bar"
//   - "-pkg-" becomes "pkg"
//
// Normalize is idempotent.
func Normalize(raw string) string {
	lower := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(lower))
	pendingDot := false
	for _, r := range lower {
		if r == '_' || r == '-' || r == '.' {
			// Separators at the start are dropped; the rest collapse to one.
			pendingDot = b.Len() > 0
			continue
		}
		if pendingDot {
			b.WriteByte('.')
			pendingDot = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
