// Package fischlin implements the generic Fischlin transform driver (spec
// §4.4), grounded on original_source's src/cbmpc/zk/fischlin.h
// fischlin_params_t/fischlin_prove. Every DL-family proof in pkg/zk drives
// its Sigma-protocol through this package instead of a Fiat-Shamir hash
// over the full transcript, which is what makes the resulting proofs
// simulation-sound without a random oracle over the whole statement.
package fischlin

import (
	"crypto/rand"

	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// Params is the (rho, b, t) triple from spec §4.4: rho parallel
// repetitions, b target-zero hash-prefix bits per repetition, t the
// maximum search exponent (each repetition tries up to 2^t candidates).
type Params struct {
	Repetitions int
	ZeroBits    int
	MaxExponent int
}

func (p Params) candidateLimit() uint32 { return uint32(1) << uint(p.MaxExponent) }
func (p Params) mask() uint32           { return (uint32(1) << uint(p.ZeroBits)) - 1 }

// Driver is implemented by a specific Sigma protocol's Fischlin adapter.
// Hash, Save and ResponseNext all operate on repetition i's working
// response, which the driver holds internally (spec §4.4 steps 2-5); this
// package only supplies the search loop over candidate challenges e'.
type Driver interface {
	// Initialise samples fresh per-repetition randomness and computes the
	// Sigma protocol's first-move commitments. Called once per proof
	// attempt, and again on restart if some repetition never finds an
	// accepting challenge within 2^t candidates.
	Initialise() error
	// ResponseBegin sets repetition i's working response to its sampled
	// randomness.
	ResponseBegin(repetition int)
	// Hash returns the 32-bit digest of (common transcript, i, e', the
	// current working response).
	Hash(repetition int, eTag uint32) uint32
	// Save records (e', current working response) as repetition i's
	// accepted challenge/response pair.
	Save(repetition int, eTag uint32)
	// ResponseNext advances the working response by the Sigma protocol's
	// "add witness" rule, preparing it for candidate e'+1.
	ResponseNext(eTag uint32)
}

// maxRestarts bounds the number of full-proof restarts attempted before
// giving up; with b target-zero bits and 2^t candidates per repetition,
// a restart happens with probability roughly 2^-(2^t / 2^b), vanishingly
// small for the parameters any proof in this catalogue uses.
const maxRestarts = 1 << 16

// Prove runs the driver's search loop, restarting the whole proof (calling
// Initialise again) whenever some repetition exhausts its 2^t candidates
// without finding an accepting challenge (spec §4.4 "restarts the whole
// proof by re-invoking initialise").
func Prove(params Params, d Driver) error {
	for attempt := 0; attempt < maxRestarts; attempt++ {
		if err := d.Initialise(); err != nil {
			return err
		}
		if provePass(params, d) {
			return nil
		}
	}
	return errs.New(errs.Crypto, "fischlin.Prove", "exhausted restart budget without an accepting challenge in every repetition")
}

func provePass(params Params, d Driver) bool {
	limit := params.candidateLimit()
	mask := params.mask()
	for i := 0; i < params.Repetitions; i++ {
		d.ResponseBegin(i)
		found := false
		for e := uint32(0); e < limit; e++ {
			if d.Hash(i, e)&mask == 0 {
				d.Save(i, e)
				found = true
				break
			}
			d.ResponseNext(e)
		}
		if !found {
			return false
		}
	}
	return true
}

// VerifyHashes recomputes the per-repetition Fischlin hash via recompute
// and rejects if any repetition's bottom-b-bit prefix is non-zero (spec
// §4.4 "rejects if any bottom-b-bit prefix is non-zero"). The batched
// linear-relation check over the accepted (e_i, z_i) pairs is proof-
// specific and is the caller's responsibility after this passes.
func VerifyHashes(params Params, recompute func(repetition int) uint32) error {
	mask := params.mask()
	for i := 0; i < params.Repetitions; i++ {
		if recompute(i)&mask != 0 {
			return errs.New(errs.Crypto, "fischlin.VerifyHashes", "repetition hash prefix nonzero")
		}
	}
	return nil
}

// RepetitionHash is the shared building block every proof's Hash callback
// uses: domain-separated by the proof's own label, absorbing the common
// transcript, the repetition index, the candidate challenge, and the
// current working response (spec §4.4 step 3).
func RepetitionHash(label string, transcript []byte, repetition int, eTag uint32, z ...[]byte) uint32 {
	ro := hash.NewRO(label)
	ro.Absorb(transcript)
	ro.AbsorbUint64(uint64(repetition))
	ro.AbsorbUint64(uint64(eTag))
	ro.Absorb(z...)
	return ro.Uint32()
}

// BatchCoefficients samples rho verifier-chosen scalars for the
// batched linear-relation check (spec §4.4: "Σ σ_i · z_i · G − Σ σ_i · e_i
// · Q = Σ σ_i · A_i"). Each is HashToScalar of 8 bytes of fresh randomness:
// a full-width scalar carrying 64 bits of entropy, unpredictable rather
// than the repetition index itself.
func BatchCoefficients(group curve.Curve, repetitions int) ([]curve.Scalar, error) {
	out := make([]curve.Scalar, repetitions)
	for i := range out {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, errs.Wrap(errs.Crypto, "fischlin.BatchCoefficients", err)
		}
		out[i] = group.HashToScalar("fischlin-batch-sigma", buf[:])
	}
	return out, nil
}

// DLParams returns the UC-DL proof's fixed Fischlin parameters (spec
// §4.5: "rho = 32, b = 4, t = 9").
func DLParams() Params { return Params{Repetitions: 32, ZeroBits: 4, MaxExponent: 9} }

// BatchDLParams returns the UC-Batch-DL proof's parameters for a batch of
// n discrete logs (spec §4.5: "rho in {43, 64}, b = 2 or 3 + ceil(log2 n),
// t = b + 5"). n <= 0 is treated as 1.
func BatchDLParams(n int) Params {
	if n <= 0 {
		n = 1
	}
	rho := 43
	b := 2
	if n > 1 {
		rho = 64
		b = 3 + ceilLog2(n)
	}
	return Params{Repetitions: rho, ZeroBits: b, MaxExponent: b + 5}
}

func ceilLog2(n int) int {
	bits := 0
	v := 1
	for v < n {
		v <<= 1
		bits++
	}
	return bits
}
