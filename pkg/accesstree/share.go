package accesstree

import (
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/math/polynomial"
)

// ShareResult collects the output of a Share traversal (spec §4.8
// "Share"): the leaves' final shares, plus — since the traversal
// "optionally also returns (i) the internal scalar share at every
// non-leaf, and (ii) the public point G*(internal share)" — every node's
// internal share and its public commitment, keyed by node name (the root
// is keyed under the empty string if it has no name of its own).
type ShareResult struct {
	LeafShares     map[string]curve.Scalar
	InternalShares map[string]curve.Scalar
	PublicPoints   map[string]curve.Point
}

// Share secret-shares x across the tree rooted at root, following the
// per-type rule of spec §4.8: AND splits additively among its children,
// OR copies x to every child, THRESHOLD evaluates a fresh polynomial at
// each child's party identifier.
func Share(group curve.Curve, root *Node, x curve.Scalar) (*ShareResult, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}
	result := &ShareResult{
		LeafShares:     map[string]curve.Scalar{},
		InternalShares: map[string]curve.Scalar{},
		PublicPoints:   map[string]curve.Point{},
	}
	if err := shareNode(group, root, x, result); err != nil {
		return nil, err
	}
	return result, nil
}

func shareNode(group curve.Curve, n *Node, x curve.Scalar, result *ShareResult) error {
	result.InternalShares[n.Name] = x
	result.PublicPoints[n.Name] = group.ScalarBaseMul(x)

	switch n.Type {
	case Leaf:
		result.LeafShares[n.Name] = x
		return nil
	case And:
		sum := group.NewScalar()
		childShares := make([]curve.Scalar, len(n.Children))
		for i := 1; i < len(n.Children); i++ {
			s, err := curve.RandomScalar(group)
			if err != nil {
				return err
			}
			childShares[i] = s
			sum = sum.Add(s)
		}
		childShares[0] = x.Sub(sum)
		for i, c := range n.Children {
			if err := shareNode(group, c, childShares[i], result); err != nil {
				return err
			}
		}
		return nil
	case Or:
		for _, c := range n.Children {
			if err := shareNode(group, c, x, result); err != nil {
				return err
			}
		}
		return nil
	case Threshold:
		poly, err := polynomial.Sample(group, n.Threshold-1, x)
		if err != nil {
			return err
		}
		for _, c := range n.Children {
			point := PartyID(group, c.Name)
			if err := shareNode(group, c, poly.Evaluate(point), result); err != nil {
				return err
			}
		}
		return nil
	default:
		return errs.New(errs.BadArgument, "accesstree.Share", "unknown node type")
	}
}
