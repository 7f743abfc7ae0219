package accesstree

import "github.com/sigilcrypto/mpc/pkg/math/curve"

// Structure wraps a validated access tree and the curve its PVE/TDH2
// callers share a generator with (spec §3 "Access structure. Owns or
// borrows a node tree and a curve generator G").
type Structure struct {
	Group curve.Curve
	Root  *Node
}

// New validates root and wraps it as a Structure.
func New(group curve.Curve, root *Node) (*Structure, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return &Structure{Group: group, Root: root}, nil
}

// LeafNames returns every leaf name in the structure.
func (s *Structure) LeafNames() []string { return s.Root.LeafNames() }

// PublicDataNodes returns every AND/THRESHOLD node in the structure.
func (s *Structure) PublicDataNodes() []*Node { return s.Root.PublicDataNodes() }

// QuorumSufficient reports whether names satisfies the access structure
// (spec §4.8 "Quorum test. A pure predicate over a set of leaf names,
// without any cryptography, used before attempting decryption").
func (s *Structure) QuorumSufficient(names []string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return quorumSufficient(s.Root, set)
}

func quorumSufficient(n *Node, present map[string]bool) bool {
	switch n.Type {
	case Leaf:
		return present[n.Name]
	case And:
		for _, c := range n.Children {
			if !quorumSufficient(c, present) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range n.Children {
			if quorumSufficient(c, present) {
				return true
			}
		}
		return false
	case Threshold:
		count := 0
		for _, c := range n.Children {
			if quorumSufficient(c, present) {
				count++
				if count >= n.Threshold {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// Share secret-shares x across s's tree.
func (s *Structure) Share(x curve.Scalar) (*ShareResult, error) {
	return Share(s.Group, s.Root, x)
}

// Reconstruct recovers the shared secret from leafShares.
func (s *Structure) Reconstruct(leafShares map[string]curve.Scalar) (curve.Scalar, error) {
	return Reconstruct(s.Group, s.Root, leafShares)
}

// ReconstructInExponent recovers the shared secret's public point from
// leafPoints.
func (s *Structure) ReconstructInExponent(leafPoints map[string]curve.Point) (curve.Point, error) {
	return ReconstructInExponent(s.Group, s.Root, leafPoints)
}
