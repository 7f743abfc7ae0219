// Package accesstree implements secret sharing over AND/OR/THRESHOLD
// access trees (spec §4.8), the structure PVE-AC (pkg/pve) and TDH2's
// access-tree combiner (pkg/tdh2) both reconstruct through. No
// original_source header covers this directly — cb-mpc's access
// structure lives behind a C++ template the retrieved source tree didn't
// include a matching file for — so this package is grounded on spec.md
// §4.8/§4.9 directly, built on pkg/math/polynomial's existing Lagrange
// and share-polynomial primitives rather than reimplementing either.
package accesstree

import "github.com/sigilcrypto/mpc/pkg/errs"

// Type discriminates a Node's sharing rule.
type Type int

const (
	// Leaf holds a share directly; no children.
	Leaf Type = iota
	// And requires every child to reconstruct.
	And
	// Or requires any one child to reconstruct.
	Or
	// Threshold requires Threshold-of-len(Children) children.
	Threshold
)

func (t Type) String() string {
	switch t {
	case Leaf:
		return "leaf"
	case And:
		return "and"
	case Or:
		return "or"
	case Threshold:
		return "threshold"
	default:
		return "unknown"
	}
}

// Node is one node of an access tree (spec §3 "Secret-sharing node").
type Node struct {
	Type      Type
	Name      string
	Threshold int
	Children  []*Node
	Parent    *Node
}

// NewLeaf builds a leaf node with the given name.
func NewLeaf(name string) *Node {
	return &Node{Type: Leaf, Name: name}
}

// NewAnd builds an AND node over the given children, linking their
// Parent pointers back to it.
func NewAnd(name string, children ...*Node) *Node {
	return link(&Node{Type: And, Name: name, Children: children})
}

// NewOr builds an OR node over the given children.
func NewOr(name string, children ...*Node) *Node {
	return link(&Node{Type: Or, Name: name, Children: children})
}

// NewThreshold builds a THRESHOLD(t of len(children)) node.
func NewThreshold(name string, t int, children ...*Node) *Node {
	return link(&Node{Type: Threshold, Name: name, Threshold: t, Children: children})
}

func link(n *Node) *Node {
	for _, c := range n.Children {
		c.Parent = n
	}
	return n
}

// Validate checks the invariants spec §3 requires of every node in the
// tree rooted at n: LEAF has no children and threshold 0; AND/OR have at
// least one child and threshold 0; THRESHOLD has 1 <= t <= len(children);
// every non-root node has a non-empty name, and names are unique across
// the whole tree.
func (n *Node) Validate() error {
	seen := map[string]bool{}
	return n.validate(true, seen)
}

func (n *Node) validate(isRoot bool, seen map[string]bool) error {
	if !isRoot {
		if n.Name == "" {
			return errs.New(errs.BadArgument, "accesstree.Validate", "non-root node has an empty name")
		}
		if seen[n.Name] {
			return errs.New(errs.BadArgument, "accesstree.Validate", "duplicate node name: "+n.Name)
		}
		seen[n.Name] = true
	}

	switch n.Type {
	case Leaf:
		if len(n.Children) != 0 {
			return errs.New(errs.BadArgument, "accesstree.Validate", "leaf node has children")
		}
		if n.Threshold != 0 {
			return errs.New(errs.BadArgument, "accesstree.Validate", "leaf node has a nonzero threshold")
		}
	case And, Or:
		if len(n.Children) == 0 {
			return errs.New(errs.BadArgument, "accesstree.Validate", "and/or node has no children")
		}
		if n.Threshold != 0 {
			return errs.New(errs.BadArgument, "accesstree.Validate", "and/or node has a nonzero threshold")
		}
	case Threshold:
		if n.Threshold < 1 || n.Threshold > len(n.Children) {
			return errs.New(errs.BadArgument, "accesstree.Validate", "threshold out of [1, len(children)]")
		}
	default:
		return errs.New(errs.BadArgument, "accesstree.Validate", "unknown node type")
	}

	for _, c := range n.Children {
		if c.Parent != n {
			return errs.New(errs.BadArgument, "accesstree.Validate", "child's parent back-pointer is inconsistent")
		}
		if err := c.validate(false, seen); err != nil {
			return err
		}
	}
	return nil
}

// LeafNames returns the names of every leaf in the tree rooted at n, in
// tree order.
func (n *Node) LeafNames() []string {
	var out []string
	n.walk(func(node *Node) {
		if node.Type == Leaf {
			out = append(out, node.Name)
		}
	})
	return out
}

// PublicDataNodes returns every AND and THRESHOLD node in the tree (spec
// §3 "Access structure ... list of 'public-data' nodes (AND and
// THRESHOLD)"): nodes that commit to an internal split (AND's per-child
// shares, THRESHOLD's polynomial) that OR does not, and whose public
// points (ShareResult.PublicPoints, filled by Share in share.go) are
// therefore worth exposing for verification.
func (n *Node) PublicDataNodes() []*Node {
	var out []*Node
	n.walk(func(node *Node) {
		if node.Type == And || node.Type == Threshold {
			out = append(out, node)
		}
	})
	return out
}

func (n *Node) walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.walk(visit)
	}
}
