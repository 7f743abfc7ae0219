package bn_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/sigilcrypto/mpc/pkg/math/bn"
	"github.com/stretchr/testify/require"
)

func testModulus(t *testing.T) *bn.Modulus {
	t.Helper()
	// A fixed known 256-bit prime (the secp256k1 field prime); the test
	// operands themselves are drawn from crypto/rand.
	p, ok := new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	require.True(t, ok)
	m, err := bn.NewModulus(p, true)
	require.NoError(t, err)
	return m
}

func TestAddMatchesVarTime(t *testing.T) {
	m := testModulus(t)
	ct := bn.NewScope(m)

	for i := 0; i < 20; i++ {
		a, _ := rand.Int(rand.Reader, m.Big())
		b, _ := rand.Int(rand.Reader, m.Big())
		na := bn.NatFromBig(a, m.BitLen())
		nb := bn.NatFromBig(b, m.BitLen())

		want := new(big.Int).Add(a, b)
		want.Mod(want, m.Big())

		got := ct.Add(na, nb)
		require.Equal(t, 0, bn.Big(got).Cmp(want))
	}
}

func TestInverseThenMultiplyIsOne(t *testing.T) {
	m := testModulus(t)
	ct := bn.NewScope(m)

	a, _ := rand.Int(rand.Reader, m.Big())
	if a.Sign() == 0 {
		a.SetInt64(1)
	}
	na := bn.NatFromBig(a, m.BitLen())

	invMasked, err := ct.Inv(na, bn.MaskedRandom)
	require.NoError(t, err)
	one := ct.Mul(na, invMasked)
	require.Equal(t, int64(1), bn.Big(one).Int64())
}

func TestSteinConstantRightShiftInverseThenMultiplyIsOne(t *testing.T) {
	m := testModulus(t)
	ct := bn.NewScope(m)

	for i := 0; i < 20; i++ {
		a, _ := rand.Int(rand.Reader, m.Big())
		if a.Sign() == 0 {
			a.SetInt64(1)
		}
		na := bn.NatFromBig(a, m.BitLen())

		invSCR, err := ct.Inv(na, bn.SteinConstantRightShift)
		require.NoError(t, err)
		one := ct.Mul(na, invSCR)
		require.Equal(t, int64(1), bn.Big(one).Int64())
	}
}

func TestBarrettMatchesMod(t *testing.T) {
	m := testModulus(t)
	x, _ := rand.Int(rand.Reader, new(big.Int).Mul(m.Big(), m.Big()))
	want := new(big.Int).Mod(x, m.Big())
	got := m.Barrett(x)
	require.Equal(t, 0, got.Cmp(want))
}
