package curve

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/sigilcrypto/mpc/pkg/core/buf"
	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/bn"
)

// Secp256k1 is the short-Weierstrass curve backend built on
// decred/dcrd/dcrec/secp256k1, the teacher's own curve dependency and the
// curve used for threshold ECDSA throughout this ecosystem.
type Secp256k1 struct{}

var secp256k1Order *bn.Modulus

func init() {
	order := new(big.Int).SetBytes(secp256k1.S256().N.Bytes())
	m, err := bn.NewModulus(order, true)
	if err != nil {
		panic(err)
	}
	secp256k1Order = m
}

func (Secp256k1) Name() string        { return "secp256k1" }
func (Secp256k1) Tag() buf.TypeTag     { return buf.CurveSecp256k1 }
func (Secp256k1) Order() *ScalarField  { return &ScalarField{Modulus: secp256k1Order} }
func (c Secp256k1) NewScalar() Scalar  { return &k1Scalar{s: new(secp256k1.ModNScalar)} }
func (c Secp256k1) ScalarOne() Scalar {
	var s secp256k1.ModNScalar
	s.SetInt(1)
	return &k1Scalar{s: &s}
}

func (c Secp256k1) NewPoint() Point {
	return &k1Point{p: new(secp256k1.JacobianPoint)}
}
func (c Secp256k1) Generator() Point {
	var p secp256k1.JacobianPoint
	p.X.SetByteSlice(secp256k1.S256().Gx.Bytes())
	p.Y.SetByteSlice(secp256k1.S256().Gy.Bytes())
	p.Z.SetInt(1)
	return &k1Point{p: &p}
}

func (c Secp256k1) ScalarBaseMul(k Scalar) Point {
	ks := k.(*k1Scalar)
	var p secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(ks.s, &p)
	p.ToAffine()
	return &k1Point{p: &p}
}

func (c Secp256k1) MulAdd(u Scalar, v Scalar, p Point) Point {
	// u*G + v*P as two scalar multiplications and a sum, not one combined
	// double-and-add pass: decred does not export its vartime
	// combined-multiply primitive. The result is the same.
	gPart := c.ScalarBaseMul(u)
	vPart := v.ActVarTime(p)
	return gPart.Add(vPart)
}

func (c Secp256k1) DecodePoint(b []byte) (Point, error) {
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, errs.Wrap(errs.Format, "curve.Secp256k1.DecodePoint", err)
	}
	var p secp256k1.JacobianPoint
	pk.AsJacobian(&p)
	pt := &k1Point{p: &p}
	if !pt.InSubgroup() {
		return nil, errs.New(errs.Crypto, "curve.Secp256k1.DecodePoint", "point not in subgroup")
	}
	return pt, nil
}

func (c Secp256k1) DecodeScalar(b []byte) (Scalar, error) {
	var s secp256k1.ModNScalar
	overflow := s.SetByteSlice(b)
	if overflow {
		return nil, errs.New(errs.Format, "curve.Secp256k1.DecodeScalar", "scalar >= order")
	}
	return &k1Scalar{s: &s}, nil
}

func (c Secp256k1) HashToPoint(label string, msg ...[]byte) Point {
	ro := hash.NewRO("secp256k1-h2c:" + label).Absorb(msg...)
	for counter := uint64(0); ; counter++ {
		candidate := ro.AbsorbUint64(counter).Read(33)
		candidate[0] = 0x02 | (candidate[0] & 1) // force a valid compressed-point prefix
		p, err := c.DecodePoint(candidate)
		if err == nil {
			return p
		}
	}
}

func (c Secp256k1) HashToScalar(label string, msg ...[]byte) Scalar {
	ro := hash.NewRO("secp256k1-h2s:" + label).Absorb(msg...)
	wide := new(big.Int).SetBytes(ro.Read(48)) // 384 bits: 128-bit statistical margin over the 256-bit order
	wide.Mod(wide, secp256k1.S256().N)
	var s secp256k1.ModNScalar
	s.SetByteSlice(wide.Bytes())
	return &k1Scalar{s: &s}
}

type k1Scalar struct {
	s *secp256k1.ModNScalar
}

func (x *k1Scalar) Curve() Curve { return Secp256k1{} }

func (x *k1Scalar) Add(other Scalar) Scalar {
	y := other.(*k1Scalar)
	r := *x.s
	r.Add(y.s)
	return &k1Scalar{s: &r}
}

func (x *k1Scalar) Sub(other Scalar) Scalar {
	return x.Add(other.Neg())
}

func (x *k1Scalar) Neg() Scalar {
	r := *x.s
	r.Negate()
	return &k1Scalar{s: &r}
}

func (x *k1Scalar) Mul(other Scalar) Scalar {
	y := other.(*k1Scalar)
	r := *x.s
	r.Mul(y.s)
	return &k1Scalar{s: &r}
}

func (x *k1Scalar) Invert() (Scalar, error) {
	if x.IsZero() {
		errs.Invariant("curve.k1Scalar.Invert", "inverse of zero scalar")
	}
	r := *x.s
	r.InverseNonConst()
	return &k1Scalar{s: &r}, nil
}

func (x *k1Scalar) IsZero() bool { return x.s.IsZero() }

func (x *k1Scalar) Equal(other Scalar) bool {
	y, ok := other.(*k1Scalar)
	if !ok {
		return false
	}
	return x.s.Equals(y.s)
}

func (x *k1Scalar) Bytes() []byte {
	b := x.s.Bytes()
	return b[:]
}

func (x *k1Scalar) SetBytes(b []byte) (Scalar, error) {
	return Secp256k1{}.DecodeScalar(b)
}

func (x *k1Scalar) Act(p Point) Point {
	pt := p.(*k1Point)
	var result secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(x.s, pt.p, &result)
	result.ToAffine()
	return &k1Point{p: &result}
}

func (x *k1Scalar) ActVarTime(p Point) Point { return x.Act(p) }

type k1Point struct {
	p *secp256k1.JacobianPoint
}

func (p *k1Point) Curve() Curve { return Secp256k1{} }

func (p *k1Point) Add(other Point) Point {
	o := other.(*k1Point)
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(p.p, o.p, &r)
	r.ToAffine()
	return &k1Point{p: &r}
}

func (p *k1Point) Negate() Point {
	r := *p.p
	r.Y.Negate(1)
	r.Y.Normalize()
	return &k1Point{p: &r}
}

func (p *k1Point) IsIdentity() bool {
	return (p.p.X.IsZero() && p.p.Y.IsZero()) || p.p.Z.IsZero()
}

func (p *k1Point) Equal(other Point) bool {
	o, ok := other.(*k1Point)
	if !ok {
		return false
	}
	a, b := *p.p, *o.p
	a.ToAffine()
	b.ToAffine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

func (p *k1Point) InSubgroup() bool {
	// secp256k1 has prime order and cofactor 1: every point returned by
	// ParsePubKey that is on the curve is automatically in the (only)
	// subgroup. The explicit check exists for interface symmetry with
	// Ed25519, whose cofactor is 8.
	a := *p.p
	a.ToAffine()
	return secp256k1.S256().IsOnCurve(bigFieldVal(&a.X), bigFieldVal(&a.Y)) || p.IsIdentity()
}

func (p *k1Point) Bytes() []byte {
	a := *p.p
	a.ToAffine()
	pk := secp256k1.NewPublicKey(&a.X, &a.Y)
	return pk.SerializeCompressed()
}

func bigFieldVal(f *secp256k1.FieldVal) *big.Int {
	b := f.Bytes()
	return new(big.Int).SetBytes(b[:])
}
