package pedersen_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/pedersen"
)

// 384-bit safe primes keep these tests fast; production parameters use
// much larger moduli.
const testBits = 384

func TestCommitOpenRoundTrip(t *testing.T) {
	params, err := pedersen.Generate(testBits)
	require.NoError(t, err)

	m := big.NewInt(42)
	r := big.NewInt(7)
	c := params.Commit(m, r)

	assert.True(t, params.Open(c, m, r))
	assert.False(t, params.Open(c, big.NewInt(43), r))
	assert.False(t, params.Open(c, m, big.NewInt(8)))
}

func TestCommitIsHidingAcrossRandomness(t *testing.T) {
	params, err := pedersen.Generate(testBits)
	require.NoError(t, err)

	m := big.NewInt(100)
	c1 := params.Commit(m, big.NewInt(1))
	c2 := params.Commit(m, big.NewInt(2))
	assert.NotEqual(t, 0, c1.Cmp(c2))
}

func TestAddIsAdditivelyHomomorphic(t *testing.T) {
	params, err := pedersen.Generate(testBits)
	require.NoError(t, err)

	m1, r1 := big.NewInt(11), big.NewInt(5)
	m2, r2 := big.NewInt(22), big.NewInt(9)
	c1 := params.Commit(m1, r1)
	c2 := params.Commit(m2, r2)

	sum := params.Add(c1, c2)
	expectedM := new(big.Int).Add(m1, m2)
	expectedR := new(big.Int).Add(r1, r2)
	assert.True(t, params.Open(sum, expectedM, expectedR))
}

func TestCommitAcceptsNegativeOpenings(t *testing.T) {
	params, err := pedersen.Generate(testBits)
	require.NoError(t, err)

	m := big.NewInt(-5)
	r := big.NewInt(-3)
	c := params.Commit(m, r)
	assert.True(t, params.Open(c, m, r))
}
