package accesstree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/accesstree"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

var group = curve.Secp256k1{}

func buildTree() *accesstree.Node {
	// (alice AND bob) OR (2-of-3 among carol, dave, erin)
	and := accesstree.NewAnd("and", accesstree.NewLeaf("alice"), accesstree.NewLeaf("bob"))
	threshold := accesstree.NewThreshold("threshold", 2,
		accesstree.NewLeaf("carol"), accesstree.NewLeaf("dave"), accesstree.NewLeaf("erin"))
	return accesstree.NewOr("root", and, threshold)
}

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	require.NoError(t, buildTree().Validate())
}

func TestLeafNames(t *testing.T) {
	names := buildTree().LeafNames()
	assert.ElementsMatch(t, []string{"alice", "bob", "carol", "dave", "erin"}, names)
}

func TestQuorumSufficient(t *testing.T) {
	s, err := accesstree.New(group, buildTree())
	require.NoError(t, err)

	assert.True(t, s.QuorumSufficient([]string{"alice", "bob"}))
	assert.True(t, s.QuorumSufficient([]string{"carol", "dave"}))
	assert.False(t, s.QuorumSufficient([]string{"alice"}))
	assert.False(t, s.QuorumSufficient([]string{"carol"}))
	assert.True(t, s.QuorumSufficient([]string{"alice", "bob", "carol"}))
}

func TestShareReconstructViaAnd(t *testing.T) {
	s, err := accesstree.New(group, buildTree())
	require.NoError(t, err)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	shares, err := s.Share(x)
	require.NoError(t, err)

	recovered, err := s.Reconstruct(map[string]curve.Scalar{
		"alice": shares.LeafShares["alice"],
		"bob":   shares.LeafShares["bob"],
	})
	require.NoError(t, err)
	assert.True(t, x.Equal(recovered))
}

func TestShareReconstructViaThreshold(t *testing.T) {
	s, err := accesstree.New(group, buildTree())
	require.NoError(t, err)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	shares, err := s.Share(x)
	require.NoError(t, err)

	recovered, err := s.Reconstruct(map[string]curve.Scalar{
		"carol": shares.LeafShares["carol"],
		"erin":  shares.LeafShares["erin"],
	})
	require.NoError(t, err)
	assert.True(t, x.Equal(recovered))
}

func TestReconstructFailsWithoutQuorum(t *testing.T) {
	s, err := accesstree.New(group, buildTree())
	require.NoError(t, err)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)
	shares, err := s.Share(x)
	require.NoError(t, err)

	_, err = s.Reconstruct(map[string]curve.Scalar{
		"alice": shares.LeafShares["alice"],
		"carol": shares.LeafShares["carol"],
	})
	assert.Error(t, err)
}

func TestReconstructInExponentMatchesPublicPoint(t *testing.T) {
	s, err := accesstree.New(group, buildTree())
	require.NoError(t, err)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)
	shares, err := s.Share(x)
	require.NoError(t, err)

	leafPoints := map[string]curve.Point{
		"carol": shares.PublicPoints["carol"],
		"dave":  shares.PublicPoints["dave"],
	}
	recovered, err := s.ReconstructInExponent(leafPoints)
	require.NoError(t, err)
	assert.True(t, recovered.Equal(group.ScalarBaseMul(x)))
}

func TestPublicDataNodesIncludesAndAndThreshold(t *testing.T) {
	nodes := buildTree().PublicDataNodes()
	var names []string
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	assert.ElementsMatch(t, []string{"and", "threshold"}, names)
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	tree := accesstree.NewOr("root",
		accesstree.NewLeaf("alice"),
		accesstree.NewLeaf("alice"))
	assert.Error(t, tree.Validate())
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	tree := accesstree.NewThreshold("root", 3, accesstree.NewLeaf("alice"), accesstree.NewLeaf("bob"))
	assert.Error(t, tree.Validate())
}
