package unknownorder_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/math/bn"
	"github.com/sigilcrypto/mpc/pkg/paillier"
	"github.com/sigilcrypto/mpc/pkg/zk/unknownorder"
)

const witnessBits = 64

func genStatement(t *testing.T) (a, b *big.Int, n *bn.Modulus, w *big.Int) {
	t.Helper()
	priv, err := paillier.Generate(1024)
	require.NoError(t, err)
	n, err = bn.NewModulus(priv.N.Big(), true)
	require.NoError(t, err)

	scope := bn.NewScope(n)
	for {
		candidate, err := rand.Int(rand.Reader, n.Big())
		require.NoError(t, err)
		if candidate.Sign() != 0 && new(big.Int).GCD(nil, nil, candidate, n.Big()).Cmp(big.NewInt(1)) == 0 {
			a = candidate
			break
		}
	}
	wLimit := new(big.Int).Lsh(big.NewInt(1), witnessBits)
	w, err = rand.Int(rand.Reader, wLimit)
	require.NoError(t, err)
	b = bn.Big(scope.Exp(bn.NatFromBig(a, n.BitLen()), bn.NatFromBig(w, n.BitLen())))
	return a, b, n, w
}

func TestProveAndVerifyRoundTrip(t *testing.T) {
	a, b, n, w := genStatement(t)
	sid, aux := []byte("sid-unknown-order"), []byte("aux-unknown-order")

	proof, err := unknownorder.Prove(a, b, n, witnessBits, w, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, unknownorder.Verify(a, b, n, witnessBits, proof, sid, aux))
}

func TestVerifyRejectsWrongTarget(t *testing.T) {
	a, b, n, w := genStatement(t)
	sid, aux := []byte("sid-unknown-order-2"), []byte("aux-unknown-order-2")

	proof, err := unknownorder.Prove(a, b, n, witnessBits, w, sid, aux)
	require.NoError(t, err)

	wrongB := new(big.Int).Mod(new(big.Int).Mul(b, big.NewInt(2)), n.Big())
	assert.Error(t, unknownorder.Verify(a, wrongB, n, witnessBits, proof, sid, aux))
}

func TestVerifyRejectsMismatchedSID(t *testing.T) {
	a, b, n, w := genStatement(t)
	sid, aux := []byte("sid-unknown-order-3"), []byte("aux-unknown-order-3")

	proof, err := unknownorder.Prove(a, b, n, witnessBits, w, sid, aux)
	require.NoError(t, err)
	assert.Error(t, unknownorder.Verify(a, b, n, witnessBits, proof, []byte("other-sid"), aux))
}

func TestProveRejectsOversizedWitness(t *testing.T) {
	a, b, n, _ := genStatement(t)
	tooBig := new(big.Int).Lsh(big.NewInt(1), witnessBits+8)
	_, err := unknownorder.Prove(a, b, n, witnessBits, tooBig, []byte("sid"), []byte("aux"))
	assert.Error(t, err)
}
