// Package scene is the renderer-agnostic output of a conversion: a node tree,
// a flat mesh list and a flat material list referenced by index.
package scene

import "github.com/Faultbox/fbxscene/pkg/math"

// Scene is a converted document.
type Scene struct {
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material
}

// Node is an entry of the scene tree.
type Node struct {
	Name string
	// Parent is a back-reference for bookkeeping; nil for the root.
	Parent    *Node `yaml:"-" toml:"-"`
	Transform math.Mat4
	Children  []*Node
	// Meshes indexes Scene.Meshes.
	Meshes []int
}

// NewNode creates a node with an identity transform.
func NewNode(name string, parent *Node) *Node {
	return &Node{Name: name, Parent: parent, Transform: math.Identity()}
}

// AddChild appends child and sets its parent link.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk visits n and its descendants depth-first, parents before children.
// depth is 0 for n.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// Find returns the first node named name, depth-first.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// NodeCount returns the number of nodes in the tree.
func (s *Scene) NodeCount() int {
	if s.Root == nil {
		return 0
	}
	count := 0
	s.Root.Walk(func(*Node, int) { count++ })
	return count
}
