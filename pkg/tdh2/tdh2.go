// Package tdh2 implements threshold ElGamal-hybrid encryption (spec §4.9,
// "TDH2"): one public key encrypts a message non-interactively, and a
// quorum of key-share holders can each produce a publicly checkable partial
// decryption that combine reassembles into the plaintext, without any
// party's share ever appearing in the clear. Grounded directly on
// original_source/src/cbmpc/crypto/tdh2.{h,cpp}, read in full — the
// Chaum-Pedersen-style proof structure on both the ciphertext (binding R1 to
// G and R2 to Gamma under one challenge) and each partial decryption
// (binding Xi to R1 and G under a second challenge) follows the source
// line for line.
package tdh2

import (
	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/core/sym"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

const ivSize = 16
const aesKeyBytes = 32

// PublicKey is public_key_t: Q is the threshold public key, Gamma a second
// generator derived from Q so the encryptor's proof binds both R1=r*G and
// R2=r*Gamma under one challenge (an unrelated-base Chaum-Pedersen proof of
// equal discrete log, the "s,e,f" triple below).
type PublicKey struct {
	Group curve.Curve
	Q     curve.Point
	Gamma curve.Point
}

// NewPublicKey derives Gamma from Q the way the source does, via a
// domain-separated hash-to-curve rather than a second trusted generator.
func NewPublicKey(group curve.Curve, q curve.Point) PublicKey {
	return PublicKey{Group: group, Q: q, Gamma: group.HashToPoint("TDH2-Gamma", q.Bytes())}
}

// PrivateKey is private_key_t: the full secret key, used only to derive
// per-party shares out of band (this module shares x via pkg/accesstree
// rather than the source's own secret_sharing.h).
type PrivateKey struct {
	X   curve.Scalar
	Pub PublicKey
}

// PrivateShare is private_share_t: one party's additive or access-structure
// share of x, tagged with a party identifier used by combine_additive's
// pid-indexed share list.
type PrivateShare struct {
	Pub PublicKey
	X   curve.Scalar
	PID int
}

// Ciphertext is ciphertext_t.
type Ciphertext struct {
	C     []byte
	IV    []byte
	R1    curve.Point
	R2    curve.Point
	E     curve.Scalar
	F     curve.Scalar
	Label []byte
}

func deriveAESKey(p curve.Point) []byte {
	return hash.NewRO("tdh2-key").Absorb(p.Bytes()).Read(aesKeyBytes)
}

func ciphertextChallenge(group curve.Curve, c, label []byte, r1, w1, r2, w2 curve.Point, iv []byte) curve.Scalar {
	return group.HashToScalar("tdh2-ciphertext", c, label, r1.Bytes(), w1.Bytes(), r2.Bytes(), w2.Bytes(), iv)
}

// Encrypt is public_key_t::encrypt (the random-r,s,iv overload): P = r*Q
// keys an AES-GCM seal of plain, and (e, f) is a Chaum-Pedersen proof that
// R1 = r*G and R2 = r*Gamma share the same r.
func Encrypt(pub PublicKey, plain, label []byte) (*Ciphertext, error) {
	group := pub.Group
	r, err := curve.RandomScalar(group)
	if err != nil {
		return nil, err
	}
	s, err := curve.RandomScalar(group)
	if err != nil {
		return nil, err
	}
	iv, err := sym.RandomBytes(ivSize)
	if err != nil {
		return nil, err
	}
	return EncryptWith(pub, plain, label, r, s, iv)
}

// EncryptWith is public_key_t::encrypt's deterministic overload, exposed so
// tests and higher protocols can pin r, s, and iv.
func EncryptWith(pub PublicKey, plain, label []byte, r, s curve.Scalar, iv []byte) (*Ciphertext, error) {
	group := pub.Group
	p := r.Act(pub.Q)
	key := deriveAESKey(p)

	ct, err := sym.SealGCM(key, iv, label, plain)
	if err != nil {
		return nil, err
	}

	r1 := group.ScalarBaseMul(r)
	w1 := group.ScalarBaseMul(s)
	r2 := r.Act(pub.Gamma)
	w2 := s.Act(pub.Gamma)

	e := ciphertextChallenge(group, ct, label, r1, w1, r2, w2, iv)
	f := s.Add(r.Mul(e))

	labelCopy := append([]byte(nil), label...)
	return &Ciphertext{C: ct, IV: append([]byte(nil), iv...), R1: r1, R2: r2, E: e, F: f, Label: labelCopy}, nil
}

// Verify is ciphertext_t::verify: checks R1/R2 lie in the prime-order
// subgroup, Gamma was derived honestly from Q, and the Chaum-Pedersen
// challenge recomputes.
func (ct *Ciphertext) Verify(pub PublicKey, label []byte) error {
	if !equalBytes(ct.Label, label) {
		return errs.New(errs.Crypto, "tdh2.Verify", "label mismatch")
	}
	if !ct.R1.InSubgroup() {
		return errs.New(errs.Crypto, "tdh2.Verify", "R1 failed subgroup check")
	}
	if !ct.R2.InSubgroup() {
		return errs.New(errs.Crypto, "tdh2.Verify", "R2 failed subgroup check")
	}
	expectedGamma := pub.Group.HashToPoint("TDH2-Gamma", pub.Q.Bytes())
	if !expectedGamma.Equal(pub.Gamma) {
		return errs.New(errs.Crypto, "tdh2.Verify", "Gamma mismatch")
	}

	negE := ct.E.Neg()
	w1 := pub.Group.ScalarBaseMul(ct.F).Add(negE.ActVarTime(ct.R1))
	w2 := ct.F.ActVarTime(pub.Gamma).Add(negE.ActVarTime(ct.R2))

	eTest := ciphertextChallenge(pub.Group, ct.C, label, ct.R1, w1, ct.R2, w2, ct.IV)
	if !eTest.Equal(ct.E) {
		return errs.New(errs.Crypto, "tdh2.Verify", "challenge recomputation mismatch")
	}
	return nil
}

// Decrypt is ciphertext_t::decrypt: given V = x*R1 reassembled from partial
// decryptions, finish the AES-GCM open.
func (ct *Ciphertext) Decrypt(v curve.Point, label []byte) ([]byte, error) {
	key := deriveAESKey(v)
	return sym.OpenGCM(key, ct.IV, label, ct.C)
}

// PartialDecryption is partial_decryption_t: Xi = x_i*R1 plus a
// Chaum-Pedersen proof binding Xi to R1 and Qi = x_i*G under one challenge,
// so combine can check a share without trusting the party that produced it.
type PartialDecryption struct {
	PID int
	Xi  curve.Point
	Ei  curve.Scalar
	Fi  curve.Scalar
}

// Decrypt is private_share_t::decrypt (tdh2-local-decrypt-1P): verifies the
// ciphertext first, then produces this party's partial decryption.
func (share *PrivateShare) Decrypt(ct *Ciphertext, label []byte) (*PartialDecryption, error) {
	if err := ct.Verify(share.Pub, label); err != nil {
		return nil, err
	}
	group := share.Pub.Group

	xi := share.X.Act(ct.R1)
	si, err := curve.RandomScalar(group)
	if err != nil {
		return nil, err
	}
	yi := si.Act(ct.R1)
	zi := group.ScalarBaseMul(si)

	ei := group.HashToScalar("tdh2-partial", xi.Bytes(), yi.Bytes(), zi.Bytes())
	fi := si.Add(share.X.Mul(ei))

	return &PartialDecryption{PID: share.PID, Xi: xi, Ei: ei, Fi: fi}, nil
}

// checkHelper is partial_decryption_t::check_partial_decryption_helper:
// recomputes the Chaum-Pedersen challenge from (Xi, R1, Qi) and the claimed
// response.
func (pd *PartialDecryption) checkHelper(group curve.Curve, qi curve.Point, ct *Ciphertext) error {
	if !qi.InSubgroup() {
		return errs.New(errs.Crypto, "tdh2.checkHelper", "Qi failed subgroup check")
	}
	if !pd.Xi.InSubgroup() {
		return errs.New(errs.Crypto, "tdh2.checkHelper", "Xi failed subgroup check")
	}

	negEi := pd.Ei.Neg()
	yi := pd.Fi.ActVarTime(ct.R1).Add(negEi.ActVarTime(pd.Xi))
	zi := group.ScalarBaseMul(pd.Fi).Add(negEi.ActVarTime(qi))

	eiTest := group.HashToScalar("tdh2-partial", pd.Xi.Bytes(), yi.Bytes(), zi.Bytes())
	if !eiTest.Equal(pd.Ei) {
		return errs.New(errs.Crypto, "tdh2.checkHelper", "partial decryption challenge mismatch")
	}
	return nil
}

// CombineAdditive is combine_additive (tdh2-combine-1P, the additive-shares
// special case): Qi is indexed 1..n by pid, matching combine_additive's
// pid-based lookup.
func CombineAdditive(pub PublicKey, qi []curve.Point, label []byte, partials []PartialDecryption, ct *Ciphertext) ([]byte, error) {
	group := pub.Group
	n := len(qi)
	for _, q := range qi {
		if !q.InSubgroup() {
			return nil, errs.New(errs.Crypto, "tdh2.CombineAdditive", "Qi failed subgroup check")
		}
	}
	if len(partials) != n {
		return nil, errs.New(errs.BadArgument, "tdh2.CombineAdditive", "partial decryption count must match share count")
	}
	if err := ct.Verify(pub, label); err != nil {
		return nil, err
	}

	v := group.NewPoint()
	for _, pd := range partials {
		if pd.PID < 1 || pd.PID > n {
			return nil, errs.New(errs.Format, "tdh2.CombineAdditive", "party id out of range")
		}
		if err := pd.checkHelper(group, qi[pd.PID-1], ct); err != nil {
			return nil, err
		}
		v = v.Add(pd.Xi)
	}
	return ct.Decrypt(v, label)
}

// Combine is combine (tdh2-combine-1P, the general access-structure case):
// pubShares and partials are both keyed by leaf name, and the quorum test
// plus reconstruction both flow through structure.
func Combine(structure quorumStructure, pub PublicKey, pubShares map[string]curve.Point, label []byte, partials map[string]PartialDecryption, ct *Ciphertext) ([]byte, error) {
	names := make([]string, 0, len(partials))
	for name := range partials {
		names = append(names, name)
	}
	if !structure.QuorumSufficient(names) {
		return nil, errs.New(errs.Insufficient, "tdh2.Combine", "partial decryptions do not satisfy the access structure")
	}
	if err := ct.Verify(pub, label); err != nil {
		return nil, err
	}

	vs := make(map[string]curve.Point, len(partials))
	for name, pd := range partials {
		qi, ok := pubShares[name]
		if !ok {
			return nil, errs.New(errs.BadArgument, "tdh2.Combine", "missing public share for "+name)
		}
		if err := pd.checkHelper(pub.Group, qi, ct); err != nil {
			return nil, err
		}
		vs[name] = pd.Xi
	}

	v, err := structure.ReconstructInExponent(vs)
	if err != nil {
		return nil, err
	}
	return ct.Decrypt(v, label)
}

// quorumStructure is the slice of pkg/accesstree.Structure this package
// needs, kept narrow so tdh2 doesn't import accesstree just to name a type.
type quorumStructure interface {
	QuorumSufficient(names []string) bool
	ReconstructInExponent(leafPoints map[string]curve.Point) (curve.Point, error)
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
