// Package graph flattens nested dependency trees and SBOM component lists
// into model.FlatMap values keyed by normalized package name.
package graph

import (
	"github.com/StinkyLord/sbom-reconcile/internal/model"
)

// Node is anything that looks like a dependency tree node: a name, an
// installed version and ordered children.
type Node interface {
	NodeName() string
	NodeVersion() string
	NodeChildren() []Node
}

// forestNode adapts a parsed model.DependencyNode to Node.
type forestNode struct {
	n *model.DependencyNode
}

func (f forestNode) NodeName() string    { return f.n.Name }
func (f forestNode) NodeVersion() string { return f.n.InstalledVersion }

func (f forestNode) NodeChildren() []Node {
	return wrapNodes(f.n.Children)
}

func wrapNodes(nodes []*model.DependencyNode) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, forestNode{n: n})
		}
	}
	return out
}

// FromForest returns the roots of a parsed forest as Nodes.
func FromForest(forest model.Forest) []Node {
	return wrapNodes(forest)
}

// Flatten walks every node under roots in depth-first pre-order and maps the
// normalized name of each node to its installed version. When two nodes
// normalize to the same name the one visited later wins. Nodes with an empty
// name are not recorded, but their children are still visited.
//
// The walk uses an explicit stack, so arbitrarily deep trees cannot exhaust
// the goroutine stack.
func Flatten(roots []Node) *model.FlatMap {
	result := model.NewFlatMap()

	stack := make([]Node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if name := model.Normalize(n.NodeName()); name != "" {
			result.Set(name, n.NodeVersion())
		}

		// Push children in reverse so the first child is visited next.
		children := n.NodeChildren()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return result
}

// FlattenForest is Flatten over a parsed forest.
func FlattenForest(forest model.Forest) *model.FlatMap {
	return Flatten(FromForest(forest))
}

// FlattenSBOM maps the normalized name of every SBOM component to its
// version. Components without a name are skipped; a missing version is
// recorded as "". Later components win on duplicate names.
func FlattenSBOM(components []model.SbomComponent) *model.FlatMap {
	result := model.NewFlatMap()
	for _, c := range components {
		name := model.Normalize(c.Name)
		if name == "" {
			continue
		}
		result.Set(name, c.Version)
	}
	return result
}
