package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/StinkyLord/sbom-reconcile/internal/reconcile"
)

// ReportFormat names a report serialisation.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
	ReportYAML ReportFormat = "yaml"
)

// ParseReportFormat parses a report format name case-insensitively. An empty
// name means ReportText.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return ReportText, nil
	case "json":
		return ReportJSON, nil
	case "yaml", "yml":
		return ReportYAML, nil
	}
	return "", fmt.Errorf("unsupported report format %q (supported: text, json, yaml)", s)
}

// noneEntry stands in for the entries of an empty section.
const noneEntry = "None"

// RenderText writes the report as four sections in a fixed order:
// missing in SBOM, present in both, version mismatches, exact matches.
// A section without entries lists "- None".
func RenderText(w io.Writer, r *reconcile.Report) error {
	mismatches := make([]string, 0, len(r.VersionMismatches))
	for _, m := range r.VersionMismatches {
		mismatches = append(mismatches, fmt.Sprintf("%s: deps=%s, sbom=%s", m.Name, m.TreeVersion, m.SBOMVersion))
	}
	matches := make([]string, 0, len(r.ExactMatches))
	for _, m := range r.ExactMatches {
		matches = append(matches, fmt.Sprintf("%s: %s", m.Name, m.Version))
	}

	sections := []struct {
		title   string
		entries []string
	}{
		{"Missing in SBOM", r.MissingInSBOM},
		{"Present in both", r.PresentInBoth},
		{"Version mismatches", mismatches},
		{"Exact matches", matches},
	}

	var buf bytes.Buffer
	for i, s := range sections {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "====== %s ========\n", s.title)
		if len(s.entries) == 0 {
			fmt.Fprintf(&buf, "- %s\n", noneEntry)
			continue
		}
		for _, e := range s.entries {
			fmt.Fprintf(&buf, "- %s\n", e)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalReport serialises the report in the given format.
func MarshalReport(r *reconcile.Report, format ReportFormat) ([]byte, error) {
	switch format {
	case ReportText:
		var buf bytes.Buffer
		if err := RenderText(&buf, r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ReportJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report JSON: %w", err)
		}
		return append(data, '\n'), nil
	case ReportYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report YAML: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported report format %q", format)
}

// WriteReport serialises the report and writes it to outputPath. If
// outputPath is "-", it writes to stdout.
func WriteReport(r *reconcile.Report, format ReportFormat, outputPath string) error {
	data, err := MarshalReport(r, format)
	if err != nil {
		return err
	}
	return writeOutput(outputPath, data)
}
