package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/StinkyLord/sbom-reconcile/internal/graph"
	"github.com/StinkyLord/sbom-reconcile/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseTreeFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected TreeFormat
		wantErr  bool
	}{
		{"", TreeFormatAuto, false},
		{"AUTO", TreeFormatAuto, false},
		{"text", TreeFormatText, false},
		{"json", TreeFormatJSON, false},
		{"pipdeptree", TreeFormatJSON, false},
		{"Pipgrip", TreeFormatPipgrip, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTreeFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDetectTreeFormat(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected TreeFormat
	}{
		{"pipdeptree array", `[{"package": {"key": "a"}, "dependencies": []}]`, TreeFormatJSON},
		{"normalized object", `{"dependencies": []}`, TreeFormatJSON},
		{"pipgrip object", `{"requests==2.31.0": {}}`, TreeFormatPipgrip},
		{"broken json", `{"dependencies": [`, TreeFormatJSON},
		{"text tree", "requests (2.31.0)\n+-- idna (3.4)\n", TreeFormatText},
		{"empty", "  \n", TreeFormatText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectTreeFormat([]byte(tt.data)))
		})
	}
}

func TestLoadTreeText(t *testing.T) {
	path := writeFile(t, "deps.txt", "requests (2.31.0)\n+-- idna>=2.5 (3.4)\n+-- Charset_Normalizer (3.3.2)\n")

	flat, err := LoadTree(path, TreeFormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"requests", "idna", "charset.normalizer"}, flat.Keys())
}

func TestLoadTreeJSON(t *testing.T) {
	path := writeFile(t, "deps.json", `[
	  {"package": {"key": "requests", "installed_version": "2.31.0"},
	   "dependencies": [{"key": "idna", "installed_version": "3.4", "required_version": ">=2.5"}]}
	]`)

	flat, err := LoadTree(path, TreeFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"requests", "idna"}, flat.Keys())
	v, _ := flat.Get("idna")
	assert.Equal(t, "3.4", v)
}

func TestLoadTreePipgrip(t *testing.T) {
	path := writeFile(t, "dets.json", `{"requests==2.31.0": {"urllib3==2.0.7": {}, "idna==3.4": {}}, "six": {}}`)

	flat, err := LoadTree(path, TreeFormatAuto)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"requests", "urllib3", "idna", "six"}, flat.Keys())
	v, ok := flat.Get("six")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestLoadTreeErrors(t *testing.T) {
	_, err := LoadTree(filepath.Join(t.TempDir(), "nope.txt"), TreeFormatAuto)
	assert.ErrorIs(t, err, ErrMissingFile)

	_, err = LoadTree(t.TempDir(), TreeFormatAuto)
	assert.ErrorIs(t, err, ErrMissingFile)

	path := writeFile(t, "bad.json", `[{"key": "a",`)
	_, err = LoadTree(path, TreeFormatAuto)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	path = writeFile(t, "shape.json", `{"components": []}`)
	_, err = LoadTree(path, TreeFormatJSON)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	path = writeFile(t, "array.json", `[]`)
	_, err = LoadTree(path, TreeFormatPipgrip)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParsePipgripStructure(t *testing.T) {
	doc := gjson.Parse(`{
	  "flask==3.0.0": {"werkzeug==3.0.1": {"markupsafe==2.1.3": {}}, "click==8.1.7": {}},
	  "six==1.16.0": {}
	}`)

	forest, err := ParsePipgrip(doc)
	require.NoError(t, err)
	require.Len(t, forest, 2)

	flask := forest[0]
	assert.Equal(t, "flask", flask.Name)
	assert.Equal(t, "3.0.0", flask.InstalledVersion)
	assert.Equal(t, model.AnyVersion, flask.RequiredVersion)
	require.Len(t, flask.Children, 2)
	assert.Equal(t, "werkzeug", flask.Children[0].Name)
	assert.Equal(t, "click", flask.Children[1].Name)
	require.Len(t, flask.Children[0].Children, 1)
	assert.Equal(t, "markupsafe", flask.Children[0].Children[0].Name)
	assert.Equal(t, 2, flask.Children[0].Children[0].Depth)

	assert.Equal(t, "six", forest[1].Name)
	assert.Equal(t, 5, forest.Count())
}

func TestLoadForestText(t *testing.T) {
	path := writeFile(t, "dets.txt", "a (1)\n+-- b (2)\n")
	forest, err := LoadForest(path, TreeFormatText)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Len(t, forest[0].Children, 1)

	_, err = LoadForest(path, TreeFormatJSON)
	assert.Error(t, err)
}

func TestLoadSBOM(t *testing.T) {
	path := writeFile(t, "sbom.json", `{
	  "bomFormat": "CycloneDX",
	  "specVersion": "1.5",
	  "components": [
	    {"type": "library", "name": "requests", "version": "2.31.0", "purl": "pkg:pypi/requests@2.31.0"},
	    {"type": "library", "version": "1.0"},
	    "not-an-object",
	    {"name": 42, "version": "1.0"},
	    {"type": "library", "name": "idna"},
	    {"type": "library", "name": "pkg-a", "version": 1.0},
	    {"type": "library", "name": "pkg-b", "version": 2, "purl": "pkg:pypi/pkg-b@2"},
	    {"type": "library", "name": "pkg-c", "version": {"major": 1}}
	  ]
	}`)

	components, err := LoadSBOM(path)
	require.NoError(t, err)
	require.Len(t, components, 5)
	assert.Equal(t, model.SbomComponent{Name: "requests", Version: "2.31.0", PURL: "pkg:pypi/requests@2.31.0"}, components[0])
	assert.Equal(t, model.SbomComponent{Name: "idna"}, components[1])
	assert.Equal(t, model.SbomComponent{Name: "pkg-a", Version: "1.0"}, components[2])
	assert.Equal(t, model.SbomComponent{Name: "pkg-b", Version: "2", PURL: "pkg:pypi/pkg-b@2"}, components[3])
	assert.Equal(t, model.SbomComponent{Name: "pkg-c"}, components[4])
}

func TestNumericVersionsMatchAcrossInputs(t *testing.T) {
	tree, err := LoadTree(writeFile(t, "deps.json", `[{"package_name": "pkg-a", "installed_version": 1.0}]`), TreeFormatJSON)
	require.NoError(t, err)
	sbom, err := LoadSBOM(writeFile(t, "sbom.json", `{"components": [{"name": "pkg-a", "version": 1.0}]}`))
	require.NoError(t, err)

	tv, ok := tree.Get("pkg.a")
	require.True(t, ok)
	assert.Equal(t, "1.0", tv)
	sv, ok := graph.FlattenSBOM(sbom).Get("pkg.a")
	require.True(t, ok)
	assert.Equal(t, tv, sv)
}

func TestLoadSBOMWithoutComponents(t *testing.T) {
	path := writeFile(t, "sbom.json", `{"bomFormat": "CycloneDX"}`)
	components, err := LoadSBOM(path)
	require.NoError(t, err)
	assert.Empty(t, components)
}

func TestLoadSBOMErrors(t *testing.T) {
	_, err := LoadSBOM(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrMissingFile)

	path := writeFile(t, "sbom.json", "not json at all")
	_, err = LoadSBOM(path)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	path = writeFile(t, "array.json", `[{"name": "a"}]`)
	_, err = LoadSBOM(path)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	path = writeFile(t, "components.json", `{"components": "a"}`)
	_, err = LoadSBOM(path)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSBOMFilter(t *testing.T) {
	components := []model.SbomComponent{
		{Name: "requests", Version: "2.31.0", PURL: "pkg:pypi/requests@2.31.0"},
		{Name: "openssl", Version: "3.0.2", PURL: "pkg:deb/ubuntu/openssl@3.0.2"},
		{Name: "local", Version: "0.1"},
		{Name: "weird", Version: "1", PURL: "not a purl"},
	}

	all := SBOMFilter{}.Apply(components)
	assert.Len(t, all, 4)

	pypi := SBOMFilter{PurlType: "PyPI"}.Apply(components)
	var names []string
	for _, c := range pypi {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"requests", "local", "weird"}, names)
}
