package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/sbom-reconcile/internal/config"
	"github.com/StinkyLord/sbom-reconcile/internal/output"
	"github.com/StinkyLord/sbom-reconcile/internal/sources"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a text or pipgrip tree into normalized tree JSON",
	Long: `Convert a dependency tree into the normalized tree JSON format:

  {"dependencies": [{"package_name": ..., "installed_version": ...,
                     "required_version": ..., "dependencies": [...]}]}

The result can be passed to "sbom-reconcile compare --tree".

Examples:
  sbom-reconcile convert --input dets.json --output normalized_deps.json
  sbom-reconcile convert --input deps.txt --from text --output -`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("input", "i", "", "Tree file to convert (text or pipgrip JSON)")
	convertCmd.Flags().String("from", "auto", "Input format: auto, text, pipgrip")
	convertCmd.Flags().StringP("output", "o", "normalized_deps.json", "Output file path (use '-' for stdout)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	var cfg config.Convert
	if err := config.Load(cmd.Flags(), flagConfig, &cfg); err != nil {
		return err
	}
	if cfg.Input == "" {
		return fmt.Errorf("--input is required")
	}

	format, err := sources.ParseTreeFormat(cfg.From)
	if err != nil {
		return err
	}

	forest, err := sources.LoadForest(cfg.Input, format)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.Input, err)
	}

	if err := output.WriteDependencyTree(forest, cfg.Output); err != nil {
		return fmt.Errorf("failed to write normalized tree: %w", err)
	}

	if cfg.Output != "-" {
		fmt.Fprintf(os.Stderr, "Normalized %d package(s) into %s\n", forest.Count(), cfg.Output)
	}
	return nil
}
