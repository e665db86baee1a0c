package treetext

import (
	"bufio"
	"fmt"
	"io"

	"github.com/StinkyLord/sbom-reconcile/internal/logger"
	"github.com/StinkyLord/sbom-reconcile/internal/model"
)

// maxLineSize bounds a single tree line read by Parse.
const maxLineSize = 1024 * 1024

// frame is one entry of the ancestor stack: a node and the depth it was
// parsed at.
type frame struct {
	depth int
	node  *model.DependencyNode
}

// Builder assembles (depth, node) pairs into a forest in a single pass.
// A node becomes a child of the closest preceding node with a smaller depth,
// or a root when there is none. Nodes are never re-parented.
type Builder struct {
	roots model.Forest
	stack []frame
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{roots: model.Forest{}}
}

// Add places node, parsed at depth, into the forest.
func (b *Builder) Add(depth int, node *model.DependencyNode) {
	// Entries at the same or deeper level are siblings or their descendants,
	// not ancestors.
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].depth >= depth {
		b.stack = b.stack[:len(b.stack)-1]
	}

	if len(b.stack) == 0 {
		b.roots = append(b.roots, node)
	} else {
		b.stack[len(b.stack)-1].node.AddChild(node)
	}
	b.stack = append(b.stack, frame{depth: depth, node: node})
}

// AddLine parses line and adds the resulting node. It reports whether the
// line produced a node.
func (b *Builder) AddLine(line string) bool {
	depth, node, ok := ParseLine(line)
	if !ok {
		return false
	}
	b.Add(depth, node)
	return true
}

// Forest returns the top-level nodes assembled so far.
func (b *Builder) Forest() model.Forest {
	return b.roots
}

// Build parses lines in order and returns the resulting forest.
func Build(lines []string) model.Forest {
	b := NewBuilder()
	for _, line := range lines {
		b.AddLine(line)
	}
	return b.Forest()
}

// Parse reads tree text from r line by line and returns the resulting forest.
// It only fails when r cannot be read.
func Parse(r io.Reader) (model.Forest, error) {
	b := NewBuilder()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo, skipped := 0, 0
	for scanner.Scan() {
		lineNo++
		if !b.AddLine(scanner.Text()) {
			skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tree text at line %d: %w", lineNo+1, err)
	}

	logger.S.Debugf("Parsed %d tree line(s), %d skipped", lineNo, skipped)
	return b.Forest(), nil
}
