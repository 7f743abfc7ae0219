package paillier

import (
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/bn"
	"github.com/sigilcrypto/mpc/pkg/paillier"
	"github.com/sigilcrypto/mpc/pkg/pedersen"
)

const pedersenEqualLabel = "zk-paillier-pedersen-equal"

// PedersenEqualProof proves a Paillier ciphertext and a Pedersen
// commitment share their plaintext x mod q, up to statistical slack
// (spec §4.5 "Paillier-Pedersen-Equal"). Structurally a Two-Paillier-Equal
// proof with one side's Paillier relation replaced by a Pedersen
// relation, so it reuses the same wide-challenge, wide-slack, single-round
// shape rather than the packed-challenge Params.T schedule.
type PedersenEqualProof struct {
	A1 *big.Int // Paillier commitment to k
	A2 *big.Int // Pedersen commitment to k
	Z  *big.Int
	Z1 *big.Int // Paillier response
	Z2 *big.Int // Pedersen response (integer, no reduction — unknown order)
}

// ProvePedersenEqual proves that cipher (under pub) and com (under ped)
// both commit to x, bounded by q, given the randomness used for each.
func ProvePedersenEqual(pub *paillier.PublicKey, ped *pedersen.Params, cipher, com, x, r, rPed, q *big.Int, sid, aux []byte) (*PedersenEqualProof, error) {
	k, err := sampleSlack(q)
	if err != nil {
		return nil, err
	}
	k1, err := randomCoprimeToN(pub.N.Big())
	if err != nil {
		return nil, err
	}
	k2, err := sampleSlack(ped.N.Big())
	if err != nil {
		return nil, err
	}

	a1, err := pub.EncryptWithRandom(k, k1)
	if err != nil {
		return nil, err
	}
	a2 := ped.Commit(k, k2)

	transcript := pedersenEqualTranscript(pub.N.Big(), ped.N.Big(), cipher, com, a1, a2, sid, aux)
	e := fiatShamirChallenge(pedersenEqualLabel, transcript)

	z := new(big.Int).Add(k, new(big.Int).Mul(e, x))

	scope := bn.NewScope(pub.N)
	rE := scope.Exp(bn.NatFromBig(r, pub.N.BitLen()), bn.NatFromBig(e, pub.N.BitLen()))
	z1 := bn.Big(scope.Mul(bn.NatFromBig(k1, pub.N.BitLen()), rE))

	z2 := new(big.Int).Add(k2, new(big.Int).Mul(e, rPed))

	return &PedersenEqualProof{A1: a1, A2: a2, Z: z, Z1: z1, Z2: z2}, nil
}

// VerifyPedersenEqual checks a PedersenEqualProof against cipher and com.
func VerifyPedersenEqual(pub *paillier.PublicKey, ped *pedersen.Params, cipher, com *big.Int, proof *PedersenEqualProof, q *big.Int, sid, aux []byte) error {
	transcript := pedersenEqualTranscript(pub.N.Big(), ped.N.Big(), cipher, com, proof.A1, proof.A2, sid, aux)
	e := fiatShamirChallenge(pedersenEqualLabel, transcript)

	if err := checkSlackEquation(pub, cipher, proof.A1, proof.Z, proof.Z1, e); err != nil {
		return err
	}

	comE := new(big.Int).Exp(com, e, ped.N.Big())
	expected := ped.Add(proof.A2, comE)
	recomputed := ped.Commit(proof.Z, proof.Z2)
	if recomputed.Cmp(expected) != 0 {
		return errs.New(errs.Crypto, "paillier.VerifyPedersenEqual", "pedersen relation failed")
	}

	if proof.Z.Sign() < 0 || proof.Z.Cmp(slackRangeBound(q)) >= 0 {
		return errs.New(errs.Range, "paillier.VerifyPedersenEqual", "response out of range")
	}
	return nil
}

func pedersenEqualTranscript(nPaillier, nPedersen, cipher, com, a1, a2 *big.Int, sid, aux []byte) []byte {
	return digest(pedersenEqualLabel+"-transcript", nPaillier.Bytes(), nPedersen.Bytes(), cipher.Bytes(), com.Bytes(), a1.Bytes(), a2.Bytes(), sid, aux)
}
