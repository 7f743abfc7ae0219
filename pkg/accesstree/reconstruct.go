package accesstree

import (
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/math/polynomial"
)

// Reconstruct inverts Share (spec §4.8 "Reconstruct"): LEAF reads the
// supplied share; OR tries children until one succeeds; AND sums every
// child (failing if any does); THRESHOLD gathers the first t successful
// children and Lagrange-interpolates at 0 from their party identifiers.
// Returns an errs.Insufficient error when root's tree has no satisfying
// quorum within leafShares.
func Reconstruct(group curve.Curve, root *Node, leafShares map[string]curve.Scalar) (curve.Scalar, error) {
	return reconstructNode(group, root, leafShares)
}

func reconstructNode(group curve.Curve, n *Node, leafShares map[string]curve.Scalar) (curve.Scalar, error) {
	switch n.Type {
	case Leaf:
		s, ok := leafShares[n.Name]
		if !ok {
			return nil, errs.New(errs.Insufficient, "accesstree.Reconstruct", "no share for leaf "+n.Name)
		}
		return s, nil
	case And:
		sum := group.NewScalar()
		for _, c := range n.Children {
			v, err := reconstructNode(group, c, leafShares)
			if err != nil {
				return nil, err
			}
			sum = sum.Add(v)
		}
		return sum, nil
	case Or:
		var last error
		for _, c := range n.Children {
			v, err := reconstructNode(group, c, leafShares)
			if err == nil {
				return v, nil
			}
			last = err
		}
		if last == nil {
			last = errs.New(errs.Insufficient, "accesstree.Reconstruct", "or node has no children")
		}
		return nil, last
	case Threshold:
		ids := make([]curve.Scalar, 0, n.Threshold)
		vals := make([]curve.Scalar, 0, n.Threshold)
		for _, c := range n.Children {
			if len(ids) == n.Threshold {
				break
			}
			v, err := reconstructNode(group, c, leafShares)
			if err != nil {
				continue
			}
			ids = append(ids, PartyID(group, c.Name))
			vals = append(vals, v)
		}
		if len(ids) < n.Threshold {
			return nil, errs.New(errs.Insufficient, "accesstree.Reconstruct", "threshold node "+n.Name+" has no quorum")
		}
		coeffs, err := polynomial.Lagrange(group, ids)
		if err != nil {
			return nil, err
		}
		sum := group.NewScalar()
		for i, v := range vals {
			sum = sum.Add(coeffs[i].Mul(v))
		}
		return sum, nil
	default:
		return nil, errs.New(errs.BadArgument, "accesstree.Reconstruct", "unknown node type")
	}
}

// ReconstructInExponent is Reconstruct's public-verification counterpart
// (spec §4.8 "Reconstruct-in-exponent"): identical structure over curve
// points, with point addition replacing scalar addition and
// Lagrange-in-exponent replacing scalar Lagrange.
func ReconstructInExponent(group curve.Curve, root *Node, leafPoints map[string]curve.Point) (curve.Point, error) {
	return reconstructPointNode(group, root, leafPoints)
}

func reconstructPointNode(group curve.Curve, n *Node, leafPoints map[string]curve.Point) (curve.Point, error) {
	switch n.Type {
	case Leaf:
		p, ok := leafPoints[n.Name]
		if !ok {
			return nil, errs.New(errs.Insufficient, "accesstree.ReconstructInExponent", "no share for leaf "+n.Name)
		}
		return p, nil
	case And:
		sum := group.NewPoint()
		for _, c := range n.Children {
			v, err := reconstructPointNode(group, c, leafPoints)
			if err != nil {
				return nil, err
			}
			sum = sum.Add(v)
		}
		return sum, nil
	case Or:
		var last error
		for _, c := range n.Children {
			v, err := reconstructPointNode(group, c, leafPoints)
			if err == nil {
				return v, nil
			}
			last = err
		}
		if last == nil {
			last = errs.New(errs.Insufficient, "accesstree.ReconstructInExponent", "or node has no children")
		}
		return nil, last
	case Threshold:
		ids := make([]curve.Scalar, 0, n.Threshold)
		vals := make([]curve.Point, 0, n.Threshold)
		for _, c := range n.Children {
			if len(ids) == n.Threshold {
				break
			}
			v, err := reconstructPointNode(group, c, leafPoints)
			if err != nil {
				continue
			}
			ids = append(ids, PartyID(group, c.Name))
			vals = append(vals, v)
		}
		if len(ids) < n.Threshold {
			return nil, errs.New(errs.Insufficient, "accesstree.ReconstructInExponent", "threshold node "+n.Name+" has no quorum")
		}
		coeffs, err := polynomial.Lagrange(group, ids)
		if err != nil {
			return nil, err
		}
		sum := group.NewPoint()
		for i, v := range vals {
			sum = sum.Add(coeffs[i].Act(v))
		}
		return sum, nil
	default:
		return nil, errs.New(errs.BadArgument, "accesstree.ReconstructInExponent", "unknown node type")
	}
}
