package sources

import (
	"fmt"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
	"github.com/tidwall/gjson"

	"github.com/StinkyLord/sbom-reconcile/internal/graph"
	"github.com/StinkyLord/sbom-reconcile/internal/logger"
	"github.com/StinkyLord/sbom-reconcile/internal/model"
)

// LoadSBOM reads the CycloneDX JSON SBOM at path and returns its components.
func LoadSBOM(path string) ([]model.SbomComponent, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	components, err := ParseSBOM(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	logger.S.Debugf("Loaded %d SBOM component(s) from %s", len(components), path)
	return components, nil
}

// ParseSBOM decodes a CycloneDX JSON document. A document without a
// "components" array has no components. Entries that are not objects, or
// whose name is not a non-empty string, are skipped. A numeric version keeps
// its JSON spelling, the same as in JSON trees.
func ParseSBOM(data []byte) ([]model.SbomComponent, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: SBOM is not valid JSON", ErrInvalidFormat)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: SBOM must be a JSON object with a components array", ErrInvalidFormat)
	}
	list := doc.Get("components")
	if list.Exists() && list.Type != gjson.Null && !list.IsArray() {
		return nil, fmt.Errorf("%w: SBOM components must be an array", ErrInvalidFormat)
	}

	entries := list.Array()
	components := make([]model.SbomComponent, 0, len(entries))
	for i, c := range entries {
		if !c.IsObject() {
			logger.S.Debugf("Skipping SBOM component #%d: not an object", i)
			continue
		}
		name := c.Get("name")
		if name.Type != gjson.String || name.Str == "" {
			logger.S.Debugf("Skipping SBOM component #%d: no name", i)
			continue
		}
		components = append(components, model.SbomComponent{
			Name:    name.Str,
			Version: graph.ScalarString(c.Get("version")),
			PURL:    c.Get("purl").String(),
		})
	}
	return components, nil
}

// SBOMFilter restricts SBOM components to one package ecosystem.
type SBOMFilter struct {
	// PurlType is the package URL type to keep, e.g. "pypi". Empty keeps
	// every component.
	PurlType string
}

// Apply returns the components that match the filter. Components whose
// package URL is missing or unparseable are kept, since their ecosystem is
// unknown.
func (f SBOMFilter) Apply(components []model.SbomComponent) []model.SbomComponent {
	if f.PurlType == "" {
		return components
	}

	out := make([]model.SbomComponent, 0, len(components))
	dropped := 0
	for _, c := range components {
		if c.PURL == "" {
			out = append(out, c)
			continue
		}
		purl, err := packageurl.FromString(c.PURL)
		if err != nil {
			logger.S.Debugf("Keeping %s: cannot parse purl %q: %v", c.Name, c.PURL, err)
			out = append(out, c)
			continue
		}
		if strings.EqualFold(purl.Type, f.PurlType) {
			out = append(out, c)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		logger.S.Debugf("Dropped %d SBOM component(s) not of purl type %s", dropped, f.PurlType)
	}
	return out
}
