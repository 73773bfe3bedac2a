package graph

import "fmt"

// Graph is the scene description produced by the geometry builders.
// It is never mutated after construction; each rebuild produces a new graph.
type Graph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *Graph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *Graph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Primitive adds a named primitive node and returns its ID.
func (g *Graph) Primitive(name string, data NodeData) NodeID {
	n := &Node{ID: NewNodeID(name), Kind: NodePrimitive, Name: name, Data: data}
	g.AddNode(n)
	return n.ID
}

// Place wraps children in a transform node and returns its ID.
func (g *Graph) Place(path string, td TransformData, children ...NodeID) NodeID {
	n := &Node{ID: NewNodeID("place/" + path), Kind: NodeTransform, Children: children, Data: td}
	g.AddNode(n)
	return n.ID
}

// Group adds a named group node over children and returns its ID.
func (g *Graph) Group(name string, children ...NodeID) NodeID {
	n := &Node{ID: NewNodeID(name), Kind: NodeGroup, Name: name, Children: children, Data: GroupData{}}
	g.AddNode(n)
	return n.ID
}

// Merge copies every node and root of other into g. Node IDs are derived from
// names, so callers keep names unique across merged graphs.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, n := range other.Nodes {
		g.AddNode(n)
	}
	g.Roots = append(g.Roots, other.Roots...)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *Graph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *Graph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *Graph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Primitives returns all primitive nodes in the graph.
func (g *Graph) Primitives() []*Node {
	var prims []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodePrimitive {
			prims = append(prims, n)
		}
	}
	return prims
}

// Children returns the child nodes of the given node.
func (g *Graph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}
