package polynomial

import (
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// Lagrange computes the full set of Lagrange basis coefficients at x=0 for
// the identifiers in ids (spec §4.9): for each i,
//
//	lambda_i = prod_{j != i} (0 - x_j) / (x_i - x_j)  mod q
//
// so that sum_i lambda_i * f(x_i) == f(0) for any polynomial f of degree
// less than len(ids) sampled at those points. Returns one coefficient per
// entry of ids, in the same order.
func Lagrange(group curve.Curve, ids []curve.Scalar) ([]curve.Scalar, error) {
	return LagrangeAt(group, ids, group.NewScalar())
}

// LagrangeAt computes the basis coefficients for interpolating at an
// arbitrary target point x (LagrangeAt with x=0 is Lagrange).
func LagrangeAt(group curve.Curve, ids []curve.Scalar, x curve.Scalar) ([]curve.Scalar, error) {
	if len(ids) == 0 {
		return nil, errs.New(errs.BadArgument, "polynomial.LagrangeAt", "empty identifier set")
	}
	out := make([]curve.Scalar, len(ids))
	for i := range ids {
		coef, err := basisCoefficient(group, ids, i, x)
		if err != nil {
			return nil, err
		}
		out[i] = coef
	}
	return out, nil
}

// LagrangePartial computes the basis coefficients at 0 for `subset`, a
// subset of the full identifier set (spec §4.9 "partial-interpolation
// variants accept share/identifier vectors of shorter length than the full
// identifier set"). The full set is not passed in; coefficients are
// computed as if only the points in subset were known, which for a
// threshold scheme is exactly the basis used when a qualified subset of
// parties reconstructs the secret. The result equals Lagrange(group, subset).
func LagrangePartial(group curve.Curve, subset []curve.Scalar) ([]curve.Scalar, error) {
	return Lagrange(group, subset)
}

// basisCoefficient computes lambda_i for ids[i] evaluated at x, via one
// division at the end: accumulate the numerator product and denominator
// product separately across all j != i, then invert once (spec §4.9: "the
// constant-time variant separately accumulates numerator and denominator
// ... performs exactly one inversion at the end").
func basisCoefficient(group curve.Curve, ids []curve.Scalar, i int, x curve.Scalar) (curve.Scalar, error) {
	num := group.ScalarOne()
	den := group.ScalarOne()
	xi := ids[i]
	for j, xj := range ids {
		if j == i {
			continue
		}
		if xi.Equal(xj) {
			return nil, errs.New(errs.BadArgument, "polynomial.basisCoefficient", "duplicate identifier in interpolation set")
		}
		num = num.Mul(x.Sub(xj))
		den = den.Mul(xi.Sub(xj))
	}
	denInv, err := den.Invert()
	if err != nil {
		return nil, errs.Wrap(errs.Crypto, "polynomial.basisCoefficient", err)
	}
	return num.Mul(denInv), nil
}

// LagrangeVarTime is identical to Lagrange but documents the call site's
// intent to run in variable time (spec §4.9's "vartime variant"): since
// scalar inversion and multiplication are the same operations regardless of
// timing class in this package's scalar API, the constant/vartime split is
// expressed at the Scope/Scalar level (see bn.Scope, curve.Scalar.Act vs
// ActVarTime) rather than by duplicating this function body. Callers that
// only need a public reconstruction (no secret-dependent branching) should
// prefer this name for readability even though it delegates to Lagrange.
func LagrangeVarTime(group curve.Curve, ids []curve.Scalar) ([]curve.Scalar, error) {
	return Lagrange(group, ids)
}
