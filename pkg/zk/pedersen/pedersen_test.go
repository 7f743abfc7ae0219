package pedersen_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	basepedersen "github.com/sigilcrypto/mpc/pkg/pedersen"
	zkpedersen "github.com/sigilcrypto/mpc/pkg/zk/pedersen"
)

const testBits = 256

func genParams(t *testing.T) *basepedersen.Params {
	t.Helper()
	ped, err := basepedersen.Generate(testBits)
	require.NoError(t, err)
	return ped
}

func randBelow(n *big.Int) *big.Int {
	r, err := rand.Int(rand.Reader, n)
	if err != nil {
		panic(err)
	}
	return r
}

func TestRangeProveAndVerifyRoundTrip(t *testing.T) {
	ped := genParams(t)
	q := big.NewInt(1 << 40)
	x := big.NewInt(321)
	r := randBelow(ped.N.Big())
	com := ped.Commit(x, r)
	sid, aux := []byte("sid-range"), []byte("aux-range")

	proof, err := zkpedersen.ProveRange(ped, com, x, r, q, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkpedersen.VerifyRange(ped, com, proof, q, sid, aux))
}

func TestRangeVerifyRejectsMismatchedCommitment(t *testing.T) {
	ped := genParams(t)
	q := big.NewInt(1 << 40)
	x := big.NewInt(321)
	r := randBelow(ped.N.Big())
	com := ped.Commit(x, r)
	sid, aux := []byte("sid-range-2"), []byte("aux-range-2")

	proof, err := zkpedersen.ProveRange(ped, com, x, r, q, sid, aux)
	require.NoError(t, err)

	wrongCom := ped.Commit(big.NewInt(999), r)
	assert.Error(t, zkpedersen.VerifyRange(ped, wrongCom, proof, q, sid, aux))
}

func TestRangeBatchProveAndVerifyRoundTrip(t *testing.T) {
	ped := genParams(t)
	q := big.NewInt(1 << 40)
	xs := []*big.Int{big.NewInt(1), big.NewInt(22), big.NewInt(333)}
	rs := make([]*big.Int, len(xs))
	coms := make([]*big.Int, len(xs))
	for i, x := range xs {
		rs[i] = randBelow(ped.N.Big())
		coms[i] = ped.Commit(x, rs[i])
	}
	sid, aux := []byte("sid-batch"), []byte("aux-batch")

	proof, err := zkpedersen.ProveRangeBatch(ped, coms, xs, rs, q, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkpedersen.VerifyRangeBatch(ped, coms, proof, q, sid, aux))
}

func TestRangeBatchVerifyRejectsTamperedEntry(t *testing.T) {
	ped := genParams(t)
	q := big.NewInt(1 << 40)
	xs := []*big.Int{big.NewInt(1), big.NewInt(22), big.NewInt(333)}
	rs := make([]*big.Int, len(xs))
	coms := make([]*big.Int, len(xs))
	for i, x := range xs {
		rs[i] = randBelow(ped.N.Big())
		coms[i] = ped.Commit(x, rs[i])
	}
	sid, aux := []byte("sid-batch-2"), []byte("aux-batch-2")

	proof, err := zkpedersen.ProveRangeBatch(ped, coms, xs, rs, q, sid, aux)
	require.NoError(t, err)

	tampered := append([]*big.Int{}, coms...)
	tampered[1] = ped.Commit(big.NewInt(777), rs[1])
	assert.Error(t, zkpedersen.VerifyRangeBatch(ped, tampered, proof, q, sid, aux))
}
