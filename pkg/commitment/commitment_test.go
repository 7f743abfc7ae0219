package commitment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/commitment"
	"github.com/sigilcrypto/mpc/pkg/party"
)

func TestCommitOpenRoundTrip(t *testing.T) {
	alice := party.ID("alice")
	com := commitment.New(alice)
	require.NoError(t, com.Generate([]byte("value one"), []byte("value two")))

	verifier := commitment.New(alice)
	verifier.Set(com.Rand, com.Msg)
	assert.NoError(t, verifier.Open([]byte("value one"), []byte("value two")))
}

func TestOpenRejectsWrongValues(t *testing.T) {
	alice := party.ID("alice")
	com := commitment.New(alice)
	require.NoError(t, com.Generate([]byte("committed")))

	verifier := commitment.New(alice)
	verifier.Set(com.Rand, com.Msg)
	assert.Error(t, verifier.Open([]byte("different")))
}

func TestOpenRejectsWrongCommitter(t *testing.T) {
	alice := party.ID("alice")
	bob := party.ID("bob")
	com := commitment.New(alice)
	require.NoError(t, com.Generate([]byte("committed")))

	verifier := commitment.New(bob)
	verifier.Set(com.Rand, com.Msg)
	assert.Error(t, verifier.Open([]byte("committed")))
}

func TestExternalSIDCommitment(t *testing.T) {
	alice := party.ID("alice")
	sid := []byte("a fixed external sid")
	com := commitment.NewWithSID(sid, alice)
	require.NoError(t, com.Generate([]byte("payload")))

	verifier := commitment.NewWithSID(sid, alice)
	verifier.Set(com.Rand, com.Msg)
	assert.NoError(t, verifier.Open([]byte("payload")))

	wrongSID := commitment.NewWithSID([]byte("a different sid!!!!!"), alice)
	wrongSID.Set(com.Rand, com.Msg)
	assert.Error(t, wrongSID.Open([]byte("payload")))
}

func TestReceiverBindingPreventsCrossUse(t *testing.T) {
	alice := party.ID("alice")
	bob := party.ID("bob")
	carol := party.ID("carol")

	com := commitment.NewWithReceiver(alice, bob)
	require.NoError(t, com.Generate([]byte("for bob only")))

	wrongReceiver := commitment.NewWithReceiver(alice, carol)
	wrongReceiver.Set(com.Rand, com.Msg)
	assert.Error(t, wrongReceiver.Open([]byte("for bob only")))
}

func TestPairwiseBroadcastRound(t *testing.T) {
	sender := party.ID("sender")
	bob := party.ID("bob")
	carol := party.ID("carol")

	ps := commitment.NewPairwiseSender(sender)
	require.NoError(t, ps.Commit(bob, []byte("share-for-bob")))
	require.NoError(t, ps.Commit(carol, []byte("share-for-carol")))

	rndBob, msgBob, ok := ps.Opening(bob)
	require.True(t, ok)
	assert.NoError(t, commitment.VerifyPairwiseOpening(sender, bob, rndBob, msgBob, []byte("share-for-bob")))

	rndCarol, msgCarol, ok := ps.Opening(carol)
	require.True(t, ok)
	assert.NoError(t, commitment.VerifyPairwiseOpening(sender, carol, rndCarol, msgCarol, []byte("share-for-carol")))

	// Bob's opening must not verify against carol's share (per-recipient binding).
	assert.Error(t, commitment.VerifyPairwiseOpening(sender, bob, rndBob, msgBob, []byte("share-for-carol")))
}

func TestGroupConsistencyDigestDetectsEquivocation(t *testing.T) {
	honestView := [][]byte{[]byte("m1"), []byte("m2"), []byte("m3")}
	tamperedView := [][]byte{[]byte("m1"), []byte("DIFFERENT"), []byte("m3")}

	digestHonest := commitment.GroupConsistencyDigest(honestView)
	digestTampered := commitment.GroupConsistencyDigest(tamperedView)
	assert.NotEqual(t, digestHonest, digestTampered)

	err := commitment.VerifyGroupConsistency(digestHonest, map[party.ID][32]byte{
		party.ID("p2"): digestHonest,
		party.ID("p3"): digestTampered,
	})
	assert.Error(t, err)
}
