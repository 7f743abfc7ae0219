// Package polynomial implements share polynomials and Lagrange
// interpolation (spec §4.8 THRESHOLD nodes, §4.9 Lagrange).
package polynomial

import (
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// Polynomial is f(X) = c0 + c1*X + ... + c_{deg}*X^deg over a curve's
// scalar field.
type Polynomial struct {
	group        curve.Curve
	coefficients []curve.Scalar
}

// NewPolynomial builds a degree-(len(coeffs)-1) polynomial with the given
// coefficients, constant term first.
func NewPolynomial(group curve.Curve, coefficients []curve.Scalar) *Polynomial {
	return &Polynomial{group: group, coefficients: coefficients}
}

// Sample builds a random degree-`degree` polynomial with constant term
// `constant` (spec §4.8 THRESHOLD: "degree-(t-1) polynomial with constant
// term x and t-1 uniform coefficients").
func Sample(group curve.Curve, degree int, constant curve.Scalar) (*Polynomial, error) {
	coeffs := make([]curve.Scalar, degree+1)
	coeffs[0] = constant
	for i := 1; i <= degree; i++ {
		s, err := curve.RandomScalar(group)
		if err != nil {
			return nil, err
		}
		coeffs[i] = s
	}
	return NewPolynomial(group, coeffs), nil
}

// Degree returns the polynomial's degree.
func (p *Polynomial) Degree() int { return len(p.coefficients) - 1 }

// Constant returns f(0).
func (p *Polynomial) Constant() curve.Scalar { return p.coefficients[0] }

// Evaluate computes f(x) via Horner's method.
func (p *Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	result := p.group.NewScalar()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// Commit returns the "exponent polynomial" F(X) = f(X)*G coefficients,
// i.e. one curve point per coefficient, used for public verification of
// any share against the polynomial's commitments (spec §4.8: "public
// point G*(internal share)").
func (p *Polynomial) Commit() []curve.Point {
	out := make([]curve.Point, len(p.coefficients))
	for i, c := range p.coefficients {
		out[i] = p.group.ScalarBaseMul(c)
	}
	return out
}

// EvaluateCommitted computes F(x) = sum_i commitment[i] * x^i without
// knowing the coefficients, for verifying a revealed share against public
// commitments.
func EvaluateCommitted(group curve.Curve, commitment []curve.Point, x curve.Scalar) curve.Point {
	result := group.NewPoint()
	xPow := group.ScalarOne()
	for _, c := range commitment {
		result = result.Add(xPow.Act(c))
		xPow = xPow.Mul(x)
	}
	return result
}
