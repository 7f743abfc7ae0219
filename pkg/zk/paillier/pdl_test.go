package paillier_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
	zkpaillier "github.com/sigilcrypto/mpc/pkg/zk/paillier"
)

func TestPDLProveAndVerifyRoundTrip(t *testing.T) {
	priv := genKey(t)
	group := curve.Secp256k1{}
	x := big.NewInt(424242)
	Q := group.ScalarBaseMul(curve.ScalarFromBigInt(group, x))
	cipher, r, err := priv.Encrypt(x)
	require.NoError(t, err)
	sid, aux := []byte("sid-pdl"), []byte("aux-pdl")

	proof, err := zkpaillier.ProvePDL(group, &priv.PublicKey, Q, cipher, x, r, sid, aux)
	require.NoError(t, err)
	assert.NoError(t, zkpaillier.VerifyPDL(group, &priv.PublicKey, Q, cipher, proof, sid, aux))
}

func TestPDLVerifyRejectsMismatchedPoint(t *testing.T) {
	priv := genKey(t)
	group := curve.Secp256k1{}
	x := big.NewInt(424242)
	Q := group.ScalarBaseMul(curve.ScalarFromBigInt(group, x))
	cipher, r, err := priv.Encrypt(x)
	require.NoError(t, err)
	sid, aux := []byte("sid-pdl-2"), []byte("aux-pdl-2")

	proof, err := zkpaillier.ProvePDL(group, &priv.PublicKey, Q, cipher, x, r, sid, aux)
	require.NoError(t, err)

	wrongQ := group.ScalarBaseMul(curve.ScalarFromBigInt(group, big.NewInt(999)))
	assert.Error(t, zkpaillier.VerifyPDL(group, &priv.PublicKey, wrongQ, cipher, proof, sid, aux))
}
