// Package treetext parses the indented text trees printed by dependency
// listing tools into a model.Forest.
//
// Each nesting level is a four column unit ("|   ", "│   " or four spaces),
// optionally followed by a branch marker such as "+--" or "├──" right before
// the payload:
//
//	requests (2.31.0)
//	+-- certifi>=2017.4.17 (2023.7.22)
//	+-- urllib3<3,>=1.21.1 (2.0.7)
//	|   +-- brotli (1.1.0)
//	    \-- pysocks!=1.5.7 (1.7.1)
package treetext

import (
	"regexp"
	"strings"

	"github.com/StinkyLord/sbom-reconcile/internal/model"
)

// indentUnits are the prefixes that each count as one nesting level.
var indentUnits = []string{"|   ", "│   ", "    "}

// branchMarkers introduce a payload and add one nesting level.
var branchMarkers = []string{"|--", "+--", `\--`, "`--", "├──", "└──"}

// rePayload matches "<name><constraint> (<installed>)", e.g.
// "urllib3<3,>=1.21.1 (2.0.7)" or "pkg-a (1.0.0)".
var rePayload = regexp.MustCompile(`^([^\s<>=!~()]+)\s*([<>=!~][^()]*?)?\s*\(([^()]*)\)\s*$`)

// ParseLine parses one line of tree text. It returns the nesting depth of the
// line and the node it describes. ok is false for lines that carry no package:
// blank lines and filler lines made only of continuation characters.
//
// ParseLine never fails on content: a payload that does not match the
// "<name> (<version>)" form becomes a node named after the whole payload with
// an empty installed version.
func ParseLine(line string) (depth int, node *model.DependencyNode, ok bool) {
	rest := strings.TrimRight(line, "\r\n")
	rest = strings.ReplaceAll(rest, "\t", "    ")

	for {
		unit, found := matchPrefix(rest, indentUnits)
		if !found {
			break
		}
		rest = rest[len(unit):]
		depth++
	}
	if after, found := stripBranchMarker(rest); found {
		rest = after
		depth++
	}

	payload := strings.TrimSpace(rest)
	if payload == "" || isFiller(payload) {
		return 0, nil, false
	}

	node = parsePayload(payload)
	node.Depth = depth
	return depth, node, true
}

func parsePayload(payload string) *model.DependencyNode {
	m := rePayload.FindStringSubmatch(payload)
	if m == nil {
		return model.NewDependencyNode(payload, "", model.AnyVersion)
	}
	return model.NewDependencyNode(m[1], strings.TrimSpace(m[3]), strings.TrimSpace(m[2]))
}

// stripBranchMarker removes the branch marker at the start of s. Indentation
// shorter than a full unit before the marker ("  +--", "|  +--") is ignored.
func stripBranchMarker(s string) (string, bool) {
	candidates := []string{s}
	trimmed := strings.TrimLeft(s, " ")
	candidates = append(candidates, trimmed)
	for _, bar := range []string{"|", "│"} {
		if strings.HasPrefix(trimmed, bar) {
			candidates = append(candidates, strings.TrimLeft(trimmed[len(bar):], " "))
		}
	}

	for _, c := range candidates {
		if marker, found := matchPrefix(c, branchMarkers); found {
			return c[len(marker):], true
		}
	}
	return s, false
}

func matchPrefix(s string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}

// isFiller reports whether s consists only of continuation characters, like
// the lone "." or "|" lines some tools print between groups.
func isFiller(s string) bool {
	for _, r := range s {
		switch r {
		case '.', '|', '│', ':', ' ':
		default:
			return false
		}
	}
	return true
}
