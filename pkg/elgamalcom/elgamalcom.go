// Package elgamalcom implements the EC-ElGamal additively homomorphic
// commitment scheme (spec §4.7), grounded on original_source's
// src/cbmpc/zk/zk_elgamal_com.cpp and zk_elgamal_com.h (elg_com_t), which
// use this commitment as the underlying statement for the UC-ElGamal-Com
// proof family.
package elgamalcom

import (
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// Commitment is the pair (L, R) = (r·G, m·G + r·Q) binding plaintext m
// under recipient public key Q with randomness r (spec §4.7).
type Commitment struct {
	L curve.Point
	R curve.Point
}

// Commit samples fresh uniform randomness r and commits to m under Q,
// returning both the commitment and the randomness (the opening). r must
// never be derived from m or Q — doing so would destroy the commitment's
// hiding property (spec §4.7: "sample r uniform mod q").
func Commit(group curve.Curve, Q curve.Point, m curve.Scalar) (*Commitment, curve.Scalar, error) {
	r, err := curve.RandomScalar(group)
	if err != nil {
		return nil, nil, err
	}
	return CommitWithRandomness(group, Q, m, r), r, nil
}

// CommitWithRandomness builds the commitment for an explicit r, used by
// provers/simulators that need control over the randomness (e.g. ZK
// rewinding) and by Open's recomputation check.
func CommitWithRandomness(group curve.Curve, Q curve.Point, m, r curve.Scalar) *Commitment {
	L := group.ScalarBaseMul(r)
	R := group.MulAdd(m, r, Q)
	return &Commitment{L: L, R: R}
}

// Open reports whether (m, r) opens c under Q.
func Open(group curve.Curve, c *Commitment, Q curve.Point, m, r curve.Scalar) bool {
	recomputed := CommitWithRandomness(group, Q, m, r)
	return c.L.Equal(recomputed.L) && c.R.Equal(recomputed.R)
}

// Add returns the componentwise sum of two commitments, which commits to
// the sum of their plaintexts under the sum of their randomness (spec:
// "Homomorphic operations: componentwise addition").
func (c *Commitment) Add(other *Commitment) *Commitment {
	return &Commitment{L: c.L.Add(other.L), R: c.R.Add(other.R)}
}

// Negate returns the componentwise negation, committing to -m.
func (c *Commitment) Negate() *Commitment {
	return &Commitment{L: c.L.Negate(), R: c.R.Negate()}
}

// Sub returns c - other (Add composed with Negate).
func (c *Commitment) Sub(other *Commitment) *Commitment {
	return c.Add(other.Negate())
}

// ScalarMul multiplies the committed plaintext by s: both components are
// scaled by s (spec: "scalar-multiplication of plaintext by s multiplies
// both components by s").
func (c *Commitment) ScalarMul(s curve.Scalar) *Commitment {
	return &Commitment{L: s.Act(c.L), R: s.Act(c.R)}
}

// Rerandomize adds (r'·G, r'·Q) to c, refreshing its randomness without
// changing the committed plaintext (spec: "re-randomisation adds
// (r′·G, r′·Q)").
func (c *Commitment) Rerandomize(group curve.Curve, Q curve.Point, rPrime curve.Scalar) *Commitment {
	return &Commitment{
		L: c.L.Add(group.ScalarBaseMul(rPrime)),
		R: c.R.Add(rPrime.Act(Q)),
	}
}

// EqualPlaintexts checks that c1 and c2 commit to the same plaintext,
// given the ElGamal secret key d with Q = d·G (spec: "verifying that the
// difference commitment has L·d = R"). If m1 == m2, the difference
// commitment's plaintext is 0 so R_diff = r_diff·Q = r_diff·d·G = d·L_diff.
func EqualPlaintexts(c1, c2 *Commitment, d curve.Scalar) bool {
	diff := c1.Sub(c2)
	return d.Act(diff.L).Equal(diff.R)
}

