package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/sbom-reconcile/internal/config"
	"github.com/StinkyLord/sbom-reconcile/internal/logger"
	"github.com/StinkyLord/sbom-reconcile/internal/output"
	"github.com/StinkyLord/sbom-reconcile/internal/reconcile"
	"github.com/StinkyLord/sbom-reconcile/internal/sources"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a dependency tree with an SBOM",
	Long: `Compare every package of a dependency tree with the components of a
CycloneDX SBOM. Package names are normalized (case, "-", "_" and "." are
equivalent) and versions are compared as exact strings.

The report lists packages missing from the SBOM, packages present in both,
version mismatches and exact matches. Components that only the SBOM lists are
not reported.

Examples:
  sbom-reconcile compare --tree deps.txt --sbom sbom.json
  sbom-reconcile compare --tree deps.json --sbom sbom.json --output - --report-format json
  sbom-reconcile compare --tree dets.json --sbom sbom.json --purl-type pypi`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringP("tree", "t", "", "Dependency tree file (text, JSON or pipgrip JSON)")
	compareCmd.Flags().StringP("sbom", "s", "", "CycloneDX JSON SBOM file")
	compareCmd.Flags().StringP("output", "o", "comparison.txt", "Report file path (use '-' for stdout)")
	compareCmd.Flags().String("tree-format", "auto", "Tree format: auto, text, json, pipgrip")
	compareCmd.Flags().StringP("report-format", "f", "text", "Report format: text, json, yaml")
	compareCmd.Flags().String("purl-type", "", "Only compare SBOM components of this purl type (e.g. pypi)")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	var cfg config.Compare
	if err := config.Load(cmd.Flags(), flagConfig, &cfg); err != nil {
		return err
	}
	if cfg.Tree == "" || cfg.SBOM == "" {
		return fmt.Errorf("both --tree and --sbom are required")
	}

	treeFormat, err := sources.ParseTreeFormat(cfg.TreeFormat)
	if err != nil {
		return err
	}
	reportFormat, err := output.ParseReportFormat(cfg.ReportFormat)
	if err != nil {
		return err
	}

	logger.S.Infof("Comparing %s against %s", cfg.Tree, cfg.SBOM)

	runner := reconcile.New(cfg.Tree, treeFormat, cfg.SBOM)
	runner.Filter = sources.SBOMFilter{PurlType: cfg.PurlType}
	result, err := runner.Run()
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if err := output.WriteReport(result.Report, reportFormat, cfg.Output); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	printSummary(os.Stderr, result)
	if cfg.Output != "-" {
		fmt.Fprintf(os.Stderr, "Comparison saved in %s\n", cfg.Output)
	}
	return nil
}
