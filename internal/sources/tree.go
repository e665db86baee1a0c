package sources

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/StinkyLord/sbom-reconcile/internal/graph"
	"github.com/StinkyLord/sbom-reconcile/internal/logger"
	"github.com/StinkyLord/sbom-reconcile/internal/model"
	"github.com/StinkyLord/sbom-reconcile/internal/treetext"
)

// LoadTree reads the dependency tree at path and flattens it into a map of
// normalized name to installed version. TreeFormatAuto detects the format
// from the content.
func LoadTree(path string, format TreeFormat) (*model.FlatMap, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if format == TreeFormatAuto {
		format = DetectTreeFormat(data)
		logger.S.Debugf("Detected %s tree format for %s", format, path)
	}

	if format == TreeFormatJSON {
		doc, err := parseJSON(path, data)
		if err != nil {
			return nil, err
		}
		roots, ok := graph.JSONRoots(doc)
		if !ok {
			return nil, fmt.Errorf("%w: %s is neither a JSON array nor an object with a dependencies array", ErrInvalidFormat, path)
		}
		return graph.Flatten(roots), nil
	}

	forest, err := forestFromData(path, data, format)
	if err != nil {
		return nil, err
	}
	return graph.FlattenForest(forest), nil
}

// LoadForest reads a text or pipgrip tree at path into a forest.
// JSON trees are already structured and are not accepted here.
func LoadForest(path string, format TreeFormat) (model.Forest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if format == TreeFormatAuto {
		format = DetectTreeFormat(data)
	}
	return forestFromData(path, data, format)
}

func forestFromData(path string, data []byte, format TreeFormat) (model.Forest, error) {
	switch format {
	case TreeFormatText:
		forest, err := treetext.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q: %w", path, err)
		}
		return forest, nil
	case TreeFormatPipgrip:
		doc, err := parseJSON(path, data)
		if err != nil {
			return nil, err
		}
		forest, err := ParsePipgrip(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, path)
		}
		return forest, nil
	}
	return nil, fmt.Errorf("tree format %q cannot be converted to a forest", format)
}

// pendingObject is a pipgrip object whose entries still need to become nodes.
type pendingObject struct {
	obj    gjson.Result
	parent *model.DependencyNode
}

// ParsePipgrip converts the output of `pipgrip --tree-json-exact`, an object
// keyed by "name==version" whose values are objects of the same shape, into a
// forest. Keys without "==" get an empty installed version. The document's
// key order is kept.
//
// Example:
//
//	{"requests==2.31.0": {"idna==3.4": {}, "urllib3==2.0.7": {}}}
func ParsePipgrip(doc gjson.Result) (model.Forest, error) {
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: pipgrip tree must be a JSON object", ErrInvalidFormat)
	}

	roots := model.Forest{}
	queue := []pendingObject{{obj: doc}}

	// Level by level, so deep trees do not recurse.
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		item.obj.ForEach(func(key, value gjson.Result) bool {
			name, version, _ := strings.Cut(key.String(), "==")
			node := model.NewDependencyNode(strings.TrimSpace(name), strings.TrimSpace(version), model.AnyVersion)

			if item.parent == nil {
				roots = append(roots, node)
			} else {
				node.Depth = item.parent.Depth + 1
				item.parent.AddChild(node)
			}
			if value.IsObject() {
				queue = append(queue, pendingObject{obj: value, parent: node})
			}
			return true
		})
	}
	return roots, nil
}
