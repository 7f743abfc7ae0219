package pve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/accesstree"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/pve"
)

func buildQuorumTree() *accesstree.Node {
	and := accesstree.NewAnd("and", accesstree.NewLeaf("alice"), accesstree.NewLeaf("bob"))
	threshold := accesstree.NewThreshold("threshold", 2,
		accesstree.NewLeaf("carol"), accesstree.NewLeaf("dave"), accesstree.NewLeaf("erin"))
	return accesstree.NewOr("root", and, threshold)
}

func genQuorumKeys(t *testing.T, names []string) (map[string]pve.RecipientPrivateKey, map[string]pve.RecipientPublicKey) {
	t.Helper()
	privs := make(map[string]pve.RecipientPrivateKey, len(names))
	pubs := make(map[string]pve.RecipientPublicKey, len(names))
	for _, name := range names {
		priv, pub, err := pve.GenerateRecipientKey()
		require.NoError(t, err)
		privs[name] = priv
		pubs[name] = pub
	}
	return privs, pubs
}

func TestQuorumEncryptVerifyDecryptViaAnd(t *testing.T) {
	structure, err := accesstree.New(group, buildQuorumTree())
	require.NoError(t, err)

	names := []string{"alice", "bob", "carol", "dave", "erin"}
	privs, pubs := genQuorumKeys(t, names)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	proof, err := pve.EncryptQuorum(structure, pubs, "quorum-label", x)
	require.NoError(t, err)
	require.NoError(t, pve.VerifyQuorum(proof, pubs))

	quorumPrivs := map[string]pve.RecipientPrivateKey{"alice": privs["alice"], "bob": privs["bob"]}
	recovered, err := pve.DecryptQuorum(proof, quorumPrivs, pubs)
	require.NoError(t, err)
	assert.True(t, x.Equal(recovered))
}

func TestQuorumEncryptVerifyDecryptViaThreshold(t *testing.T) {
	structure, err := accesstree.New(group, buildQuorumTree())
	require.NoError(t, err)

	names := []string{"alice", "bob", "carol", "dave", "erin"}
	privs, pubs := genQuorumKeys(t, names)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	proof, err := pve.EncryptQuorum(structure, pubs, "quorum-label", x)
	require.NoError(t, err)
	require.NoError(t, pve.VerifyQuorum(proof, pubs))

	quorumPrivs := map[string]pve.RecipientPrivateKey{"carol": privs["carol"], "erin": privs["erin"]}
	recovered, err := pve.DecryptQuorum(proof, quorumPrivs, pubs)
	require.NoError(t, err)
	assert.True(t, x.Equal(recovered))
}

func TestQuorumDecryptFailsWithoutQuorum(t *testing.T) {
	structure, err := accesstree.New(group, buildQuorumTree())
	require.NoError(t, err)

	names := []string{"alice", "bob", "carol", "dave", "erin"}
	privs, pubs := genQuorumKeys(t, names)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	proof, err := pve.EncryptQuorum(structure, pubs, "quorum-label", x)
	require.NoError(t, err)

	insufficientPrivs := map[string]pve.RecipientPrivateKey{"alice": privs["alice"], "carol": privs["carol"]}
	_, err = pve.DecryptQuorum(proof, insufficientPrivs, pubs)
	assert.Error(t, err)
}

func TestQuorumVerifyRejectsMismatchedPublicPoint(t *testing.T) {
	structure, err := accesstree.New(group, buildQuorumTree())
	require.NoError(t, err)

	names := []string{"alice", "bob", "carol", "dave", "erin"}
	_, pubs := genQuorumKeys(t, names)

	x, err := curve.RandomScalar(group)
	require.NoError(t, err)

	proof, err := pve.EncryptQuorum(structure, pubs, "quorum-label", x)
	require.NoError(t, err)

	proof.PublicPoints["alice"] = group.ScalarBaseMul(mustRandomScalar(t))
	assert.Error(t, pve.VerifyQuorum(proof, pubs))
}
