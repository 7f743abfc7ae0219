package pedersen

import (
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/pedersen"
)

const rangeLabel = "zk-range-pedersen"

// RangeProof proves that the value committed in a Pedersen commitment
// lies in [0, q), up to the statistical slack sampleSlack/challengeBits
// provide (spec §4.5 "Range-Pedersen"). The commitment-scheme analogue of
// pkg/zk/paillier's Paillier-Range-Exp-Slack: same wide-challenge,
// wide-slack single round, with Params.Commit standing in for
// Paillier encryption.
type RangeProof struct {
	A  *big.Int
	Z  *big.Int
	Zr *big.Int
}

// ProveRange proves that com = ped.Commit(x, r) and 0 <= x < q.
func ProveRange(ped *pedersen.Params, com, x, r, q *big.Int, sid, aux []byte) (*RangeProof, error) {
	k, err := sampleSlack(q)
	if err != nil {
		return nil, err
	}
	kr, err := sampleSlack(ped.N.Big())
	if err != nil {
		return nil, err
	}
	a := ped.Commit(k, kr)

	transcript := rangeTranscript(ped.N.Big(), com, a, sid, aux)
	e := fiatShamirChallenge(rangeLabel, transcript)

	z := new(big.Int).Add(k, new(big.Int).Mul(e, x))
	zr := new(big.Int).Add(kr, new(big.Int).Mul(e, r))

	return &RangeProof{A: a, Z: z, Zr: zr}, nil
}

// VerifyRange checks a RangeProof against com and q.
func VerifyRange(ped *pedersen.Params, com *big.Int, proof *RangeProof, q *big.Int, sid, aux []byte) error {
	transcript := rangeTranscript(ped.N.Big(), com, proof.A, sid, aux)
	e := fiatShamirChallenge(rangeLabel, transcript)

	comE := new(big.Int).Exp(com, e, ped.N.Big())
	lhs := ped.Add(proof.A, comE)
	rhs := ped.Commit(proof.Z, proof.Zr)
	if lhs.Cmp(rhs) != 0 {
		return errs.New(errs.Crypto, "pedersen.VerifyRange", "commitment relation failed")
	}
	if proof.Z.Sign() < 0 || proof.Z.Cmp(slackRangeBound(q)) >= 0 {
		return errs.New(errs.Range, "pedersen.VerifyRange", "response out of range")
	}
	return nil
}

func rangeTranscript(n, com, a *big.Int, sid, aux []byte) []byte {
	return digest(rangeLabel+"-transcript", n.Bytes(), com.Bytes(), a.Bytes(), sid, aux)
}
