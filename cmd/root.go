package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/sbom-reconcile/internal/config"
	"github.com/StinkyLord/sbom-reconcile/internal/logger"
)

const toolVersion = "1.0.0"

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "sbom-reconcile",
	Short: "Dependency tree vs. SBOM reconciliation",
	Long: `sbom-reconcile compares the dependency tree of a project against the SBOM
generated for it and reports every package that is missing from the SBOM or
listed there with a different version.

Supported dependency tree inputs:
  • Text trees   — indented "name<constraint> (version)" lines with "|   ",
                   "+-- " or box-drawing markers
  • JSON trees   — pipdeptree --json output, or the normalized tree written
                   by "sbom-reconcile convert"
  • pipgrip JSON — pipgrip --tree-json-exact output

The SBOM must be CycloneDX JSON.`,
	Version:       toolVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.New(cmd.Flags(), flagConfig)
		if err != nil {
			return err
		}
		return logger.Setup(v.GetBool("verbose"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ./.sbom-reconcile.yaml if present)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
