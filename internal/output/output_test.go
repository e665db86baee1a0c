package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/StinkyLord/sbom-reconcile/internal/graph"
	"github.com/StinkyLord/sbom-reconcile/internal/model"
	"github.com/StinkyLord/sbom-reconcile/internal/reconcile"
	"github.com/StinkyLord/sbom-reconcile/internal/treetext"
)

func flatMap(pairs ...string) *model.FlatMap {
	m := model.NewFlatMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func renderText(t *testing.T, r *reconcile.Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r))
	return buf.String()
}

func TestRenderTextMissingOnly(t *testing.T) {
	r := reconcile.Reconcile(flatMap("pkg.a", "1.0.0"), flatMap())

	expected := `====== Missing in SBOM ========
- pkg.a

====== Present in both ========
- None

====== Version mismatches ========
- None

====== Exact matches ========
- None
`
	assert.Equal(t, expected, renderText(t, r))
}

func TestRenderTextMismatch(t *testing.T) {
	r := reconcile.Reconcile(flatMap("pkg.a", "1.0.0"), flatMap("pkg.a", "2.0.0"))

	expected := `====== Missing in SBOM ========
- None

====== Present in both ========
- pkg.a

====== Version mismatches ========
- pkg.a: deps=1.0.0, sbom=2.0.0

====== Exact matches ========
- None
`
	assert.Equal(t, expected, renderText(t, r))
}

func TestRenderTextIsDeterministic(t *testing.T) {
	tree := flatMap("z", "1", "a", "2", "m", "3")
	sbom := flatMap("a", "2", "m", "4")

	first := renderText(t, reconcile.Reconcile(tree, sbom))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, renderText(t, reconcile.Reconcile(tree, sbom)))
	}
	assert.Contains(t, first, "- z\n")
	assert.Contains(t, first, "- a: 2\n")
	assert.Contains(t, first, "- m: deps=3, sbom=4\n")
}

func TestParseReportFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected ReportFormat
		wantErr  bool
	}{
		{"", ReportText, false},
		{"TEXT", ReportText, false},
		{"json", ReportJSON, false},
		{"yml", ReportYAML, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReportFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMarshalReportStructured(t *testing.T) {
	r := reconcile.Reconcile(flatMap("a", "1", "b", "2"), flatMap("b", "3"))

	data, err := MarshalReport(r, ReportJSON)
	require.NoError(t, err)
	var decoded reconcile.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *r, decoded)

	data, err = MarshalReport(r, ReportYAML)
	require.NoError(t, err)
	var fromYAML reconcile.Report
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, []string{"a"}, fromYAML.MissingInSBOM)
	assert.Equal(t, []reconcile.Mismatch{{Name: "b", TreeVersion: "2", SBOMVersion: "3"}}, fromYAML.VersionMismatches)
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparison.txt")
	r := reconcile.Reconcile(flatMap("a", "1"), flatMap("a", "1"))

	require.NoError(t, WriteReport(r, ReportText, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "====== Exact matches ========\n- a: 1\n")
}

func TestWriteDependencyTreeRoundTrip(t *testing.T) {
	forest := treetext.Build([]string{
		"requests (2.31.0)",
		"+-- idna>=2.5 (3.4)",
		"+-- urllib3 (2.0.7)",
	})
	path := filepath.Join(t.TempDir(), "normalized_deps.json")
	require.NoError(t, WriteDependencyTree(forest, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := gjson.ParseBytes(data)
	assert.Equal(t, "requests", doc.Get("dependencies.0.package_name").String())
	assert.Equal(t, "Any", doc.Get("dependencies.0.required_version").String())
	assert.Equal(t, ">=2.5", doc.Get("dependencies.0.dependencies.0.required_version").String())

	// The written tree flattens to the same map as the parsed one.
	roots, ok := graph.JSONRoots(doc)
	require.True(t, ok)
	assert.Equal(t, graph.FlattenForest(forest).Keys(), graph.Flatten(roots).Keys())
}

func TestWriteDependencyTreeEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, WriteDependencyTree(nil, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dependencies": []}`, string(data))
}
