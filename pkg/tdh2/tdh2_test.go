package tdh2_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/accesstree"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/tdh2"
)

var group = curve.Secp256k1{}

func TestEncryptVerifyDecryptSinglePartyViaCombineAdditive(t *testing.T) {
	x, err := curve.RandomScalar(group)
	require.NoError(t, err)
	pub := tdh2.NewPublicKey(group, group.ScalarBaseMul(x))

	ct, err := tdh2.Encrypt(pub, []byte("hello tdh2"), []byte("label"))
	require.NoError(t, err)
	require.NoError(t, ct.Verify(pub, []byte("label")))

	share := tdh2.PrivateShare{Pub: pub, X: x, PID: 1}
	partial, err := share.Decrypt(ct, []byte("label"))
	require.NoError(t, err)

	plain, err := tdh2.CombineAdditive(pub, []curve.Point{group.ScalarBaseMul(x)}, []byte("label"),
		[]tdh2.PartialDecryption{*partial}, ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello tdh2"), plain)
}

func TestCombineAdditiveAcrossThreeShares(t *testing.T) {
	x1 := mustRandomScalar(t)
	x2 := mustRandomScalar(t)
	x3 := mustRandomScalar(t)
	x := x1.Add(x2).Add(x3)
	pub := tdh2.NewPublicKey(group, group.ScalarBaseMul(x))

	ct, err := tdh2.Encrypt(pub, []byte("threshold message"), []byte("label"))
	require.NoError(t, err)

	shares := []tdh2.PrivateShare{
		{Pub: pub, X: x1, PID: 1},
		{Pub: pub, X: x2, PID: 2},
		{Pub: pub, X: x3, PID: 3},
	}
	partials := make([]tdh2.PartialDecryption, len(shares))
	for i, s := range shares {
		pd, err := s.Decrypt(ct, []byte("label"))
		require.NoError(t, err)
		partials[i] = *pd
	}

	qi := []curve.Point{group.ScalarBaseMul(x1), group.ScalarBaseMul(x2), group.ScalarBaseMul(x3)}
	plain, err := tdh2.CombineAdditive(pub, qi, []byte("label"), partials, ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("threshold message"), plain)
}

func TestVerifyRejectsWrongLabel(t *testing.T) {
	x := mustRandomScalar(t)
	pub := tdh2.NewPublicKey(group, group.ScalarBaseMul(x))

	ct, err := tdh2.Encrypt(pub, []byte("hello"), []byte("label"))
	require.NoError(t, err)
	assert.Error(t, ct.Verify(pub, []byte("wrong-label")))
}

func TestCombineViaAccessTreeQuorum(t *testing.T) {
	and := accesstree.NewAnd("and", accesstree.NewLeaf("alice"), accesstree.NewLeaf("bob"))
	threshold := accesstree.NewThreshold("threshold", 2,
		accesstree.NewLeaf("carol"), accesstree.NewLeaf("dave"), accesstree.NewLeaf("erin"))
	structure, err := accesstree.New(group, accesstree.NewOr("root", and, threshold))
	require.NoError(t, err)

	x := mustRandomScalar(t)
	pub := tdh2.NewPublicKey(group, group.ScalarBaseMul(x))

	shares, err := structure.Share(x)
	require.NoError(t, err)

	ct, err := tdh2.Encrypt(pub, []byte("quorum message"), []byte("label"))
	require.NoError(t, err)

	pubShares := make(map[string]curve.Point, len(shares.LeafShares))
	partials := make(map[string]tdh2.PartialDecryption)
	for _, name := range []string{"carol", "erin"} {
		xi := shares.LeafShares[name]
		pubShares[name] = group.ScalarBaseMul(xi)
		pd, err := (&tdh2.PrivateShare{Pub: pub, X: xi}).Decrypt(ct, []byte("label"))
		require.NoError(t, err)
		partials[name] = *pd
	}

	plain, err := tdh2.Combine(structure, pub, pubShares, []byte("label"), partials, ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("quorum message"), plain)
}

func TestCombineFailsWithoutQuorum(t *testing.T) {
	and := accesstree.NewAnd("and", accesstree.NewLeaf("alice"), accesstree.NewLeaf("bob"))
	structure, err := accesstree.New(group, and)
	require.NoError(t, err)

	x := mustRandomScalar(t)
	pub := tdh2.NewPublicKey(group, group.ScalarBaseMul(x))
	shares, err := structure.Share(x)
	require.NoError(t, err)

	ct, err := tdh2.Encrypt(pub, []byte("message"), []byte("label"))
	require.NoError(t, err)

	xi := shares.LeafShares["alice"]
	pubShares := map[string]curve.Point{"alice": group.ScalarBaseMul(xi)}
	pd, err := (&tdh2.PrivateShare{Pub: pub, X: xi}).Decrypt(ct, []byte("label"))
	require.NoError(t, err)

	_, err = tdh2.Combine(structure, pub, pubShares, []byte("label"), map[string]tdh2.PartialDecryption{"alice": *pd}, ct)
	assert.Error(t, err)
}

func mustRandomScalar(t *testing.T) curve.Scalar {
	t.Helper()
	s, err := curve.RandomScalar(group)
	require.NoError(t, err)
	return s
}
