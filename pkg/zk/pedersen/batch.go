package pedersen

import (
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/pedersen"
)

const batchLabel = "zk-batch-pedersen"

// BatchRangeProof proves n independent Range-Pedersen statements under a
// single shared challenge (spec §4.5 "Batch-Pedersen"), each commitment
// with its own blinding and response.
type BatchRangeProof struct {
	A  []*big.Int
	Z  []*big.Int
	Zr []*big.Int
}

// ProveRangeBatch proves that coms[j] = ped.Commit(xs[j], rs[j]) and
// 0 <= xs[j] < q, for every j.
func ProveRangeBatch(ped *pedersen.Params, coms, xs, rs []*big.Int, q *big.Int, sid, aux []byte) (*BatchRangeProof, error) {
	n := len(xs)
	if len(coms) != n || len(rs) != n {
		return nil, errs.New(errs.BadArgument, "pedersen.ProveRangeBatch", "mismatched slice lengths")
	}

	k := make([]*big.Int, n)
	kr := make([]*big.Int, n)
	a := make([]*big.Int, n)
	for j := 0; j < n; j++ {
		kj, err := sampleSlack(q)
		if err != nil {
			return nil, err
		}
		krj, err := sampleSlack(ped.N.Big())
		if err != nil {
			return nil, err
		}
		k[j], kr[j] = kj, krj
		a[j] = ped.Commit(kj, krj)
	}

	transcript := batchTranscript(ped.N.Big(), coms, a, sid, aux)
	e := fiatShamirChallenge(batchLabel, transcript)

	z := make([]*big.Int, n)
	zr := make([]*big.Int, n)
	for j := 0; j < n; j++ {
		z[j] = new(big.Int).Add(k[j], new(big.Int).Mul(e, xs[j]))
		zr[j] = new(big.Int).Add(kr[j], new(big.Int).Mul(e, rs[j]))
	}
	return &BatchRangeProof{A: a, Z: z, Zr: zr}, nil
}

// VerifyRangeBatch checks a BatchRangeProof against coms and q.
func VerifyRangeBatch(ped *pedersen.Params, coms []*big.Int, proof *BatchRangeProof, q *big.Int, sid, aux []byte) error {
	n := len(coms)
	if len(proof.A) != n || len(proof.Z) != n || len(proof.Zr) != n {
		return errs.New(errs.Format, "pedersen.VerifyRangeBatch", "mismatched slice lengths")
	}

	transcript := batchTranscript(ped.N.Big(), coms, proof.A, sid, aux)
	e := fiatShamirChallenge(batchLabel, transcript)
	bound := slackRangeBound(q)

	for j := 0; j < n; j++ {
		comE := new(big.Int).Exp(coms[j], e, ped.N.Big())
		lhs := ped.Add(proof.A[j], comE)
		rhs := ped.Commit(proof.Z[j], proof.Zr[j])
		if lhs.Cmp(rhs) != 0 {
			return errs.New(errs.Crypto, "pedersen.VerifyRangeBatch", "commitment relation failed")
		}
		if proof.Z[j].Sign() < 0 || proof.Z[j].Cmp(bound) >= 0 {
			return errs.New(errs.Range, "pedersen.VerifyRangeBatch", "response out of range")
		}
	}
	return nil
}

func batchTranscript(n *big.Int, coms, a []*big.Int, sid, aux []byte) []byte {
	parts := [][]byte{n.Bytes(), sid, aux}
	for j := range coms {
		parts = append(parts, coms[j].Bytes(), a[j].Bytes())
	}
	return digest(batchLabel+"-transcript", parts...)
}
