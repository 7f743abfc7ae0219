// Package paillier implements the Paillier-keyed proof catalogue of spec
// §4.5 — Valid-Paillier, Paillier-Zero, Two-Paillier-Equal (plus batch),
// Paillier-Pedersen-Equal, Paillier-Range-Exp-Slack, and PDL — grounded on
// original_source's src/cbmpc/zk/zk_util.h, which defines two repetition
// schedules (paillier_interactive_param_t, paillier_non_interactive_param_t);
// Valid-Paillier and Paillier-Zero run the non-interactive one, while the
// slack-based proofs in slack.go use one wide-challenge round instead. Both
// schedules pack a per-repetition challenge into
// log_alpha=13 bits rather than a single bit, so t = ceil(secp/13)
// repetitions suffice instead of secp repetitions of a binary-challenge
// Sigma protocol.
package paillier

import (
	"math/big"

	"github.com/sigilcrypto/mpc/pkg/core/hash"
)

const logAlpha = 13
const alpha = 1 << logAlpha
const alphaMask = alpha - 1

// Params is a repetition schedule: t rounds, each contributing log_alpha
// bits of soundness, for a total of lambda = t*log_alpha bits.
type Params struct {
	SecurityBits int
	T            int
}

func newParams(securityBits int) Params {
	t := (securityBits + logAlpha - 1) / logAlpha
	return Params{SecurityBits: securityBits, T: t}
}

// InteractiveParams mirrors paillier_interactive_param_t's short
// statistical security level, used where a proof is only ever checked
// once by a fixed verifier within a single MPC session.
func InteractiveParams() Params { return newParams(80) }

// NonInteractiveParams mirrors paillier_non_interactive_param_t's
// commitment-grade security level, used where the proof must remain sound
// against an adversary who can choose when (or whether) to open it.
func NonInteractiveParams() Params { return newParams(256) }

// challengeRound derives the i-th round's 13-bit challenge from a
// transcript digest, the non-interactive analogue of the header's
// get_13_bits helper over a verifier-sent challenge string.
func challengeRound(label string, transcript []byte, round int) uint16 {
	ro := hash.NewRO(label)
	ro.Absorb(transcript)
	ro.AbsorbUint64(uint64(round))
	bits := ro.Read(2)
	return (uint16(bits[0])<<8 | uint16(bits[1])) & alphaMask
}

func challengeRoundBig(label string, transcript []byte, round int) *big.Int {
	return big.NewInt(int64(challengeRound(label, transcript, round)))
}
