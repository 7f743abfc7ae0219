package bip32_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/bip32"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

var group = curve.Secp256k1{}

func TestDeriveIsDeterministic(t *testing.T) {
	x, err := curve.RandomScalar(group)
	require.NoError(t, err)
	Q := group.ScalarBaseMul(x)
	var cc bip32.ChainCode
	copy(cc[:], []byte("0123456789abcdef0123456789abcdef"))

	paths := []bip32.Path{{0, 1, 2}}
	d1, err := bip32.Derive(group, Q, cc, paths)
	require.NoError(t, err)
	d2, err := bip32.Derive(group, Q, cc, paths)
	require.NoError(t, err)
	assert.True(t, d1[0].Equal(d2[0]))
}

func TestDerivedSharesSumToDerivedKey(t *testing.T) {
	x1, err := curve.RandomScalar(group)
	require.NoError(t, err)
	x2, err := curve.RandomScalar(group)
	require.NoError(t, err)
	x := x1.Add(x2)
	Q := group.ScalarBaseMul(x)
	var cc bip32.ChainCode
	copy(cc[:], []byte("fedcba9876543210fedcba9876543210"))

	paths := []bip32.Path{{44, 0, 0}}
	deltas, err := bip32.Derive(group, Q, cc, paths)
	require.NoError(t, err)

	child1 := bip32.ChildShare(x1, deltas[0])
	child2 := bip32.ChildShare(x2, deltas[0])
	childX := child1.Add(child2)

	expectedQ := bip32.ChildPublicKey(group, Q, deltas[0])
	assert.True(t, group.ScalarBaseMul(childX).Equal(expectedQ))
}

func TestDifferentPathsGiveDifferentDeltas(t *testing.T) {
	x, err := curve.RandomScalar(group)
	require.NoError(t, err)
	Q := group.ScalarBaseMul(x)
	var cc bip32.ChainCode
	copy(cc[:], []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))

	deltas, err := bip32.Derive(group, Q, cc, []bip32.Path{{0}, {1}})
	require.NoError(t, err)
	assert.False(t, deltas[0].Equal(deltas[1]))
}

func TestHasDuplicateDetectsRepeatedPaths(t *testing.T) {
	paths := []bip32.Path{{0, 1}, {0, 2}, {0, 1}}
	assert.True(t, bip32.HasDuplicate(paths))
	assert.False(t, bip32.HasDuplicate(paths[:2]))
}
