// Package unknownorder implements Unknown-Order-DL (spec §4.5): prove
// knowledge of w, bounded to l bits, with b = a^w mod N for a modulus N
// of unknown order (so the usual discrete-log reductions that assume a
// known group order don't apply). Grounded directly on original_source's
// src/cbmpc/zk/zk_unknown_order.{h,cpp} — a parallel-repetition,
// binary-challenge Sigma protocol compressed into one Fiat-Shamir hash
// across all repetitions, rather than the small-challenge-per-round
// shape pkg/zk/paillier uses for Valid-Paillier/Paillier-Zero.
package unknownorder

import (
	"crypto/rand"
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/bn"
)

const label = "zk-unknown-order-dl"

// repetitions matches original_source's SEC_P_COM (128): the number of
// parallel binary-challenge rounds folded into a single hash.
const repetitions = 128

// statSecurityBits matches the SEC_P_STAT margin original_source adds to
// the witness's known bit length before sampling each round's blinding
// factor (the same 80-bit interactive-security convention
// pkg/zk/paillier.InteractiveParams uses).
const statSecurityBits = 80

const challengeBytes = (repetitions + 7) / 8

// Proof is the transcript of an Unknown-Order-DL proof: a repetitions-bit
// challenge and one response per bit.
type Proof struct {
	E []byte
	Z []*big.Int
}

// Prove proves that b = a^w mod N, where w is known to fit in l bits.
func Prove(a, b *big.Int, n *bn.Modulus, l int, w *big.Int, sid, aux []byte) (*Proof, error) {
	if w.BitLen() > l {
		return nil, errs.New(errs.BadArgument, "unknownorder.Prove", "witness exceeds its claimed bit length")
	}
	scope := bn.NewScope(n)
	gcdTest := bn.Big(scope.Mul(bn.NatFromBig(a, n.BitLen()), bn.NatFromBig(b, n.BitLen())))
	if new(big.Int).GCD(nil, nil, gcdTest, n.Big()).Cmp(big.NewInt(1)) != 0 {
		return nil, errs.New(errs.BadArgument, "unknownorder.Prove", "gcd(a*b, N) != 1")
	}

	rSize := l + statSecurityBits + 1
	k := make([]*big.Int, repetitions)
	r := make([]*big.Int, repetitions)
	for i := 0; i < repetitions; i++ {
		ki, err := randomBitlen(rSize)
		if err != nil {
			return nil, err
		}
		k[i] = ki
		r[i] = bn.Big(scope.Exp(bn.NatFromBig(a, n.BitLen()), bn.NatFromBig(ki, n.BitLen())))
	}

	e := challenge(a, b, n.Big(), l, r, sid, aux)

	z := make([]*big.Int, repetitions)
	for i := 0; i < repetitions; i++ {
		if bitAt(e, i) {
			z[i] = new(big.Int).Add(k[i], w)
		} else {
			z[i] = k[i]
		}
	}
	return &Proof{E: e, Z: z}, nil
}

// Verify checks a Proof against the statement (a, b, N, l).
func Verify(a, b *big.Int, n *bn.Modulus, l int, proof *Proof, sid, aux []byte) error {
	if len(proof.E) != challengeBytes || len(proof.Z) != repetitions {
		return errs.New(errs.Format, "unknownorder.Verify", "proof has the wrong shape")
	}

	scope := bn.VarTimeScope(n)
	bInv, err := scope.Inv(bn.NatFromBig(b, n.BitLen()), bn.SteinConstantRightShift)
	if err != nil {
		return errs.Wrap(errs.Crypto, "unknownorder.Verify", err)
	}

	rTag := bn.Big(scope.Mul(bn.NatFromBig(a, n.BitLen()), bn.NatFromBig(b, n.BitLen())))
	r := make([]*big.Int, repetitions)
	for i := 0; i < repetitions; i++ {
		ri := scope.Exp(bn.NatFromBig(a, n.BitLen()), bn.NatFromBig(proof.Z[i], n.BitLen()))
		if bitAt(proof.E, i) {
			ri = scope.Mul(ri, bInv)
		}
		r[i] = bn.Big(ri)
		rTag = bn.Big(scope.Mul(bn.NatFromBig(rTag, n.BitLen()), ri))
	}

	eTag := challenge(a, b, n.Big(), l, r, sid, aux)
	if !equalBytes(proof.E, eTag) {
		return errs.New(errs.Crypto, "unknownorder.Verify", "challenge mismatch")
	}
	if new(big.Int).GCD(nil, nil, rTag, n.Big()).Cmp(big.NewInt(1)) != 0 {
		return errs.New(errs.Crypto, "unknownorder.Verify", "batched response not coprime to N")
	}
	return nil
}

func challenge(a, b, n *big.Int, l int, r []*big.Int, sid, aux []byte) []byte {
	ro := hash.NewRO(label)
	ro.Absorb(a.Bytes(), b.Bytes(), n.Bytes())
	ro.AbsorbUint64(uint64(l))
	for _, ri := range r {
		ro.Absorb(ri.Bytes())
	}
	ro.Absorb(sid, aux)
	return ro.Read(challengeBytes)
}

func bitAt(buf []byte, i int) bool {
	return buf[i/8]&(1<<uint(i%8)) != 0
}

// randomBitlen samples a uniform non-negative integer in [0, 2^bits).
func randomBitlen(bits int) (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, errs.Wrap(errs.Crypto, "unknownorder.randomBitlen", err)
	}
	return v, nil
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	diff := byte(0)
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
