package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/StinkyLord/sbom-reconcile/internal/reconcile"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true)
	styleBad   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleGood  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// summaryLines returns the per-section counts of a run followed by a verdict
// line. When styled is false the lines are plain text.
func summaryLines(result *reconcile.Result, styled bool) []string {
	r := result.Report
	paint := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	verdict := paint(styleGood, "  SBOM matches every tree package")
	if !r.Clean() {
		drift := len(r.MissingInSBOM) + len(r.VersionMismatches)
		verdict = paint(styleBad, fmt.Sprintf("  SBOM drift in %d of %d tree package(s)", drift, r.Total()))
	}

	return []string{
		paint(styleTitle, fmt.Sprintf("Compared %d tree package(s) with %d SBOM package(s)", result.TreePackages, result.SBOMPackages)),
		paint(styleBad, fmt.Sprintf("  missing in SBOM:    %d", len(r.MissingInSBOM))),
		fmt.Sprintf("  present in both:    %d", len(r.PresentInBoth)),
		paint(styleWarn, fmt.Sprintf("  version mismatches: %d", len(r.VersionMismatches))),
		paint(styleGood, fmt.Sprintf("  exact matches:      %d", len(r.ExactMatches))),
		verdict,
	}
}

func printSummary(w io.Writer, result *reconcile.Result) {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, line := range summaryLines(result, styled) {
		fmt.Fprintln(w, line)
	}
}
