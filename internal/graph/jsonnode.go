package graph

import (
	"github.com/tidwall/gjson"
)

// Field aliases tried in order when reading a JSON tree node. They cover the
// pipdeptree --json output, the normalized tree written by the convert
// command and generic {"name","version","children"} trees.
var (
	nameAliases     = []string{"key", "package_name", "name"}
	versionAliases  = []string{"installed_version", "version"}
	childrenAliases = []string{"dependencies", "children"}
)

// packageField wraps the identity of a pipdeptree node:
//
//	{"package": {"key": "requests", "installed_version": "2.31.0"}, "dependencies": [...]}
const packageField = "package"

// JSONNode adapts one object of a pre-parsed JSON dependency tree to Node.
type JSONNode struct {
	raw gjson.Result
}

// NewJSONNode wraps a gjson object.
func NewJSONNode(raw gjson.Result) JSONNode {
	return JSONNode{raw: raw}
}

// identity returns the object holding the node's name and version: the
// nested "package" object when there is one, the node itself otherwise.
func (j JSONNode) identity() gjson.Result {
	if pkg := j.raw.Get(packageField); pkg.IsObject() {
		return pkg
	}
	return j.raw
}

// NodeName returns the first non-empty of "key", "package_name" and "name".
func (j JSONNode) NodeName() string {
	return firstString(j.identity(), nameAliases)
}

// NodeVersion returns "installed_version", falling back to "version".
func (j JSONNode) NodeVersion() string {
	return firstString(j.identity(), versionAliases)
}

// NodeChildren returns the objects of the "dependencies" array, or of
// "children" when there is no dependencies array.
func (j JSONNode) NodeChildren() []Node {
	for _, alias := range childrenAliases {
		if v := j.raw.Get(alias); v.IsArray() {
			return JSONNodes(v)
		}
	}
	return nil
}

// JSONNodes wraps every object element of a JSON array. Non-object elements
// are ignored.
func JSONNodes(array gjson.Result) []Node {
	var out []Node
	array.ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() {
			out = append(out, NewJSONNode(value))
		}
		return true
	})
	return out
}

// JSONRoots returns the top-level nodes of a JSON tree document. The document
// is either an array of nodes or an object whose "dependencies" (or
// "children") array holds them. ok is false for any other shape.
func JSONRoots(doc gjson.Result) (roots []Node, ok bool) {
	switch {
	case doc.IsArray():
		return JSONNodes(doc), true
	case doc.IsObject():
		for _, alias := range childrenAliases {
			if v := doc.Get(alias); v.IsArray() {
				return JSONNodes(v), true
			}
		}
	}
	return nil, false
}

// firstString returns the first alias that resolves to a non-empty scalar.
func firstString(obj gjson.Result, aliases []string) string {
	for _, alias := range aliases {
		if v := ScalarString(obj.Get(alias)); v != "" {
			return v
		}
	}
	return ""
}

// ScalarString returns a JSON string value as is and a JSON number in its
// JSON spelling, so a version written as 1.0 stays "1.0". Any other value
// yields "".
func ScalarString(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	}
	return ""
}
