package reconcile

import (
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/StinkyLord/sbom-reconcile/internal/graph"
	"github.com/StinkyLord/sbom-reconcile/internal/logger"
	"github.com/StinkyLord/sbom-reconcile/internal/model"
	"github.com/StinkyLord/sbom-reconcile/internal/sources"
)

// Runner loads a dependency tree and an SBOM from disk and reconciles them.
type Runner struct {
	TreePath   string
	TreeFormat sources.TreeFormat
	SBOMPath   string

	// Filter restricts the SBOM components taken into account, e.g. to the
	// pypi ecosystem when the SBOM also lists OS packages.
	Filter sources.SBOMFilter
}

// Result holds the report of a run plus the sizes of both inputs.
type Result struct {
	Report       *Report
	TreePackages int
	SBOMPackages int
}

// New creates a Runner for the given inputs.
func New(treePath string, treeFormat sources.TreeFormat, sbomPath string) *Runner {
	return &Runner{
		TreePath:   treePath,
		TreeFormat: treeFormat,
		SBOMPath:   sbomPath,
	}
}

// Run loads both inputs concurrently and reconciles them. A failure to load
// either input stops the run; the returned error wraps
// sources.ErrMissingFile or sources.ErrInvalidFormat where applicable.
func (r *Runner) Run() (*Result, error) {
	var treeMap, sbomMap *model.FlatMap

	p := pool.New().WithErrors()
	p.Go(func() error {
		start := time.Now()
		m, err := sources.LoadTree(r.TreePath, r.TreeFormat)
		if err != nil {
			return fmt.Errorf("failed to load dependency tree: %w", err)
		}
		logger.S.Debugf("Loaded %d tree package(s) from %s in %v", m.Len(), r.TreePath, time.Since(start))
		treeMap = m
		return nil
	})
	p.Go(func() error {
		start := time.Now()
		components, err := sources.LoadSBOM(r.SBOMPath)
		if err != nil {
			return fmt.Errorf("failed to load SBOM: %w", err)
		}
		m := graph.FlattenSBOM(r.Filter.Apply(components))
		logger.S.Debugf("Loaded %d SBOM package(s) from %s in %v", m.Len(), r.SBOMPath, time.Since(start))
		sbomMap = m
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Report:       Reconcile(treeMap, sbomMap),
		TreePackages: treeMap.Len(),
		SBOMPackages: sbomMap.Len(),
	}, nil
}
