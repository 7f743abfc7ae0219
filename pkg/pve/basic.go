package pve

import (
	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/core/sym"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// kappa is the number of cut-and-choose rows (spec §4.10's "statistical
// security parameter for the reveal-half challenge", SEC_P_COM in the
// source).
const kappa = 128

// Proof is ec_pve_t: a publicly verifiable encryption of one scalar x under
// Q = x*G, recoverable by decrypt with the matching private key and
// checkable by anyone with verify.
type Proof struct {
	Q         curve.Point
	Label     string
	Challenge []byte // kappa bits, packed 8 to a byte
	Rows      []Row
}

// Row is one cut-and-choose row: a 128-bit seed for the half the challenge
// bit does NOT require revealing in full, the sibling half's ciphertext
// (which can't be recomputed without that half's own seed), and — only when
// the challenge bit is set — the x1 scalar the original stores directly
// (cleared to nil when the bit is clear, matching ec_pve_t::x[i] being
// zeroed rather than omitted).
type Row struct {
	Seed       []byte // r0 (bit clear) or r1 (bit set)
	SiblingCT  []byte // c1 (bit clear) or c0 (bit set)
	RevealedX1 curve.Scalar // only set when the bit is set
}

func innerLabel(label string, q curve.Point) string {
	digest := hash.NewRO("cbmpc-pve-inner-label").Absorb([]byte(label), q.Bytes()).Read(32)
	return label + "-" + hashHex(digest)
}

func hashHex(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 2*len(b))
	for i, c := range b {
		out[2*i] = hexDigits[c>>4]
		out[2*i+1] = hexDigits[c&0xf]
	}
	return string(out)
}

func challengeBit(challenge []byte, i int) bool {
	return challenge[i/8]&(1<<uint(i%8)) != 0
}

func setChallengeBit(challenge []byte, i int) {
	challenge[i/8] |= 1 << uint(i%8)
}

// rowHalf holds one cut-and-choose half's public commitment and ciphertext,
// computed either during encryption (both halves known) or during
// verification (the revealed half recomputed, the hidden half taken as-is).
type rowHalf struct {
	x  curve.Scalar
	X  curve.Point
	ct []byte
}

func deriveX0(group curve.Curve, r0 []byte) curve.Scalar {
	drbg := rowDRBG(r0, "x0")
	buf := make([]byte, 40)
	if _, err := drbg.Read(buf); err != nil {
		errs.Invariant("pve.deriveX0", err.Error())
	}
	return group.HashToScalar("cbmpc-pve-x0", buf)
}

func deriveRho(seed []byte, purpose string) []byte {
	drbg := rowDRBG(seed, purpose)
	buf := make([]byte, 32)
	if _, err := drbg.Read(buf); err != nil {
		errs.Invariant("pve.deriveRho", err.Error())
	}
	return buf
}

// Encrypt builds a Proof that x lies behind Q = x*G (spec §4.10 "Encrypt"):
// for each of kappa rows, split x additively into x0/x1, encrypt both halves
// under pub, derive the reveal challenge from every row's public data, then
// reveal only the half the challenge bit doesn't cover.
func Encrypt(group curve.Curve, pub RecipientPublicKey, label string, x curve.Scalar) (*Proof, error) {
	q := group.ScalarBaseMul(x)
	inner := innerLabel(label, q)

	rows := make([]rowHalf, kappa)
	rows1 := make([]rowHalf, kappa)
	r0s := make([][]byte, kappa)
	r1s := make([][]byte, kappa)

	for i := 0; i < kappa; i++ {
		r0, err := randSeed()
		if err != nil {
			return nil, err
		}
		r1, err := randSeed()
		if err != nil {
			return nil, err
		}
		r0s[i], r1s[i] = r0, r1

		x0 := deriveX0(group, r0)
		x1 := x.Sub(x0)
		rho0 := deriveRho(r0, "rho0")
		rho1 := deriveRho(r1, "rho1")

		c0, err := recipientEncrypt(pub, inner, x0.Bytes(), rho0)
		if err != nil {
			return nil, err
		}
		c1, err := recipientEncrypt(pub, inner, x1.Bytes(), rho1)
		if err != nil {
			return nil, err
		}

		X0 := group.ScalarBaseMul(x0)
		X1 := q.Add(X0.Negate())

		rows[i] = rowHalf{x: x0, X: X0, ct: c0}
		rows1[i] = rowHalf{x: x1, X: X1, ct: c1}
	}

	challenge := rowChallenge(label, q, rows, rows1)

	out := make([]Row, kappa)
	for i := 0; i < kappa; i++ {
		if challengeBit(challenge, i) {
			out[i] = Row{Seed: r1s[i], SiblingCT: rows[i].ct, RevealedX1: rows1[i].x}
		} else {
			out[i] = Row{Seed: r0s[i], SiblingCT: rows1[i].ct}
		}
	}
	return &Proof{Q: q, Label: label, Challenge: challenge, Rows: out}, nil
}

func rowChallenge(label string, q curve.Point, halves0, halves1 []rowHalf) []byte {
	ro := hash.NewRO("cbmpc-pve-challenge")
	ro.Absorb([]byte(label), q.Bytes())
	for i := range halves0 {
		ro.Absorb(halves0[i].ct, halves1[i].ct, halves0[i].X.Bytes(), halves1[i].X.Bytes())
	}
	return ro.Read(kappa / 8)
}

// Verify recomputes the revealed half of every row and checks the challenge
// was derived honestly (spec §4.10 "Verify") — it never touches the
// recipient's private key.
func Verify(group curve.Curve, pub RecipientPublicKey, proof *Proof) error {
	if len(proof.Challenge) != kappa/8 || len(proof.Rows) != kappa {
		return errs.New(errs.Format, "pve.Verify", "proof has the wrong shape")
	}
	inner := innerLabel(proof.Label, proof.Q)

	halves0 := make([]rowHalf, kappa)
	halves1 := make([]rowHalf, kappa)
	for i, row := range proof.Rows {
		if challengeBit(proof.Challenge, i) {
			if row.RevealedX1 == nil {
				return errs.New(errs.Format, "pve.Verify", "row is missing its revealed x1")
			}
			rho1 := deriveRho(row.Seed, "rho1")
			c1, err := recipientEncrypt(pub, inner, row.RevealedX1.Bytes(), rho1)
			if err != nil {
				return err
			}
			X1 := group.ScalarBaseMul(row.RevealedX1)
			X0 := proof.Q.Add(X1.Negate())
			halves1[i] = rowHalf{X: X1, ct: c1}
			halves0[i] = rowHalf{X: X0, ct: row.SiblingCT}
		} else {
			x0 := deriveX0(group, row.Seed)
			rho0 := deriveRho(row.Seed, "rho0")
			c0, err := recipientEncrypt(pub, inner, x0.Bytes(), rho0)
			if err != nil {
				return err
			}
			X0 := group.ScalarBaseMul(x0)
			X1 := proof.Q.Add(X0.Negate())
			halves0[i] = rowHalf{X: X0, ct: c0}
			halves1[i] = rowHalf{X: X1, ct: row.SiblingCT}
		}
	}

	want := rowChallenge(proof.Label, proof.Q, halves0, halves1)
	if !equalBytes(want, proof.Challenge) {
		return errs.New(errs.Crypto, "pve.Verify", "challenge recomputation mismatch")
	}
	return nil
}

// Decrypt recovers x from a Proof using priv (spec §4.10 "Decrypt"): for
// each row, it decrypts whichever half the proof didn't reveal in the clear
// and combines it with the known half; any single row succeeding (its sum
// landing on Q) is enough, since a proof that passed Verify has at most a
// negligible chance of every row's hidden half being a forgery.
func Decrypt(group curve.Curve, priv RecipientPrivateKey, pub RecipientPublicKey, proof *Proof) (curve.Scalar, error) {
	inner := innerLabel(proof.Label, proof.Q)

	var lastErr error
	for i, row := range proof.Rows {
		x, err := decryptRow(group, priv, pub, inner, row, challengeBit(proof.Challenge, i))
		if err != nil {
			lastErr = err
			continue
		}
		if group.ScalarBaseMul(x).Equal(proof.Q) {
			return x, nil
		}
	}
	if lastErr == nil {
		lastErr = errs.New(errs.Crypto, "pve.Decrypt", "no row")
	}
	return nil, errs.Wrap(errs.Crypto, "pve.Decrypt", lastErr)
}

func decryptRow(group curve.Curve, priv RecipientPrivateKey, pub RecipientPublicKey, inner string, row Row, bitSet bool) (curve.Scalar, error) {
	if bitSet {
		x1 := row.RevealedX1
		if x1 == nil {
			return nil, errs.New(errs.Format, "pve.Decrypt", "row is missing its revealed x1")
		}
		pt, err := recipientDecrypt(priv, pub, inner, row.SiblingCT)
		if err != nil {
			return nil, err
		}
		x0, err := group.DecodeScalar(pt)
		if err != nil {
			return nil, err
		}
		return x0.Add(x1), nil
	}
	x0 := deriveX0(group, row.Seed)
	pt, err := recipientDecrypt(priv, pub, inner, row.SiblingCT)
	if err != nil {
		return nil, err
	}
	x1, err := group.DecodeScalar(pt)
	if err != nil {
		return nil, err
	}
	return x0.Add(x1), nil
}

func randSeed() ([]byte, error) {
	return sym.RandomBytes(16)
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
