package model

// AnyVersion is the RequiredVersion of a node whose source carried no
// version constraint.
const AnyVersion = "Any"

// DependencyNode is a single resolved package occurrence in a dependency tree.
// A package required by several parents appears as several distinct nodes,
// each owned by its own parent.
//
// The JSON form is the normalized tree format:
//
//	{
//	  "package_name": "requests",
//	  "installed_version": "2.31.0",
//	  "required_version": ">=2.0",
//	  "dependencies": [ ... ]
//	}
type DependencyNode struct {
	Name             string            `json:"package_name"`
	NormalizedName   string            `json:"-"`
	InstalledVersion string            `json:"installed_version"`
	RequiredVersion  string            `json:"required_version"`
	Children         []*DependencyNode `json:"dependencies"`

	// Depth is the nesting level computed by the text parser. Children always
	// have a greater Depth than their parent.
	Depth int `json:"-"`
}

// NewDependencyNode creates a leaf node with its normalized name filled in.
// An empty required version becomes AnyVersion.
func NewDependencyNode(name, installed, required string) *DependencyNode {
	if required == "" {
		required = AnyVersion
	}
	return &DependencyNode{
		Name:             name,
		NormalizedName:   Normalize(name),
		InstalledVersion: installed,
		RequiredVersion:  required,
		Children:         []*DependencyNode{},
	}
}

// AddChild appends child to n's children.
func (n *DependencyNode) AddChild(child *DependencyNode) {
	n.Children = append(n.Children, child)
}

// Forest is the ordered list of top-level nodes of a dependency tree.
type Forest []*DependencyNode

// Count returns the total number of nodes in the forest.
func (f Forest) Count() int {
	count := 0
	stack := make([]*DependencyNode, 0, len(f))
	stack = append(stack, f...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.Children...)
	}
	return count
}
