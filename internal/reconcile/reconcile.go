// Package reconcile compares a flattened dependency tree against a flattened
// SBOM and classifies every tree package.
package reconcile

import (
	"github.com/StinkyLord/sbom-reconcile/internal/model"
)

// Mismatch is a package present on both sides with different versions.
type Mismatch struct {
	Name        string `json:"name" yaml:"name"`
	TreeVersion string `json:"deps" yaml:"deps"`
	SBOMVersion string `json:"sbom" yaml:"sbom"`
}

// Match is a package present on both sides with the same version.
type Match struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Report is the result of one comparison. Every tree package appears in
// exactly one of MissingInSBOM, VersionMismatches and ExactMatches, and in
// PresentInBoth iff it is a mismatch or an exact match. Entries follow the
// tree's traversal order. A Report is not modified after Reconcile returns it.
type Report struct {
	MissingInSBOM     []string   `json:"missing_in_sbom" yaml:"missing_in_sbom"`
	PresentInBoth     []string   `json:"present_in_both" yaml:"present_in_both"`
	VersionMismatches []Mismatch `json:"version_mismatches" yaml:"version_mismatches"`
	ExactMatches      []Match    `json:"exact_matches" yaml:"exact_matches"`
}

// Reconcile classifies every package of tree against sbom. Versions are
// compared as exact, case-sensitive strings. Packages that only the SBOM
// lists are not reported: the comparison runs from the tree to the SBOM.
func Reconcile(tree, sbom *model.FlatMap) *Report {
	report := &Report{
		MissingInSBOM:     []string{},
		PresentInBoth:     []string{},
		VersionMismatches: []Mismatch{},
		ExactMatches:      []Match{},
	}

	for _, name := range tree.Keys() {
		treeVersion, _ := tree.Get(name)
		sbomVersion, ok := sbom.Get(name)
		if !ok {
			report.MissingInSBOM = append(report.MissingInSBOM, name)
			continue
		}

		report.PresentInBoth = append(report.PresentInBoth, name)
		if sbomVersion != treeVersion {
			report.VersionMismatches = append(report.VersionMismatches, Mismatch{
				Name:        name,
				TreeVersion: treeVersion,
				SBOMVersion: sbomVersion,
			})
		} else {
			report.ExactMatches = append(report.ExactMatches, Match{Name: name, Version: treeVersion})
		}
	}
	return report
}

// Total returns the number of tree packages the report classifies.
func (r *Report) Total() int {
	return len(r.MissingInSBOM) + len(r.PresentInBoth)
}

// Clean reports whether every tree package matched the SBOM exactly.
func (r *Report) Clean() bool {
	return len(r.MissingInSBOM) == 0 && len(r.VersionMismatches) == 0
}
