package pve

import (
	"golang.org/x/sync/errgroup"

	"github.com/sigilcrypto/mpc/pkg/core/hash"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// BatchProof is ec_pve_batch_t: a publicly verifiable encryption of a vector
// of scalars, one Proof-shaped cut-and-choose but with each row's two halves
// holding a whole vector of masks instead of one scalar — each half's
// ciphertext encrypts all n scalars, so the proof's ciphertext size grows
// linearly with the vector length.
type BatchProof struct {
	Qs        []curve.Point
	Label     string
	Challenge []byte
	Rows      []BatchRow
}

// BatchRow mirrors Row, except RevealedX1 holds the full mask vector rather
// than a single scalar.
type BatchRow struct {
	Seed        []byte
	SiblingCT   []byte
	RevealedX1s []curve.Scalar
}

type batchHalf struct {
	xs []curve.Scalar
	Xs []curve.Point
	ct []byte
}

func deriveX0Vector(group curve.Curve, r0 []byte, n int) []curve.Scalar {
	drbg := rowDRBG(r0, "x0-batch")
	out := make([]curve.Scalar, n)
	for j := 0; j < n; j++ {
		buf := make([]byte, 40)
		if _, err := drbg.Read(buf); err != nil {
			errs.Invariant("pve.deriveX0Vector", err.Error())
		}
		out[j] = group.HashToScalar("cbmpc-pve-x0-batch", buf)
	}
	return out
}

func encodeScalars(xs []curve.Scalar) []byte {
	out := make([]byte, 0, len(xs)*33)
	for _, x := range xs {
		b := x.Bytes()
		out = append(out, byte(len(b)))
		out = append(out, b...)
	}
	return out
}

func decodeScalars(group curve.Curve, n int, buf []byte) ([]curve.Scalar, error) {
	out := make([]curve.Scalar, n)
	pos := 0
	for j := 0; j < n; j++ {
		if pos >= len(buf) {
			return nil, errs.New(errs.Format, "pve.decodeScalars", "truncated vector")
		}
		l := int(buf[pos])
		pos++
		if pos+l > len(buf) {
			return nil, errs.New(errs.Format, "pve.decodeScalars", "truncated scalar")
		}
		x, err := group.DecodeScalar(buf[pos : pos+l])
		if err != nil {
			return nil, err
		}
		out[j] = x
		pos += l
	}
	return out, nil
}

// EncryptBatch is ec_pve_batch_t::encrypt: xs[j]*G must equal the caller's
// published Q[j] for every j.
func EncryptBatch(group curve.Curve, pub RecipientPublicKey, label string, xs []curve.Scalar) (*BatchProof, error) {
	n := len(xs)
	qs := make([]curve.Point, n)
	for j, x := range xs {
		qs[j] = group.ScalarBaseMul(x)
	}
	inner := innerLabel(label, batchAnchor(group, qs))

	halves0 := make([]batchHalf, kappa)
	halves1 := make([]batchHalf, kappa)
	r0s := make([][]byte, kappa)
	r1s := make([][]byte, kappa)

	// Each row is an independent cut-and-choose instance, so the kappa rows'
	// encryption work fans out across goroutines (the vector payload per row
	// is what makes this worth parallelizing, unlike the scalar-only basic
	// proof).
	var g errgroup.Group
	for i := 0; i < kappa; i++ {
		i := i
		g.Go(func() error {
			r0, err := randSeed()
			if err != nil {
				return err
			}
			r1, err := randSeed()
			if err != nil {
				return err
			}
			r0s[i], r1s[i] = r0, r1

			x0s := deriveX0Vector(group, r0, n)
			x1s := make([]curve.Scalar, n)
			X0s := make([]curve.Point, n)
			X1s := make([]curve.Point, n)
			for j := 0; j < n; j++ {
				x1s[j] = xs[j].Sub(x0s[j])
				X0s[j] = group.ScalarBaseMul(x0s[j])
				X1s[j] = qs[j].Add(X0s[j].Negate())
			}

			rho0 := deriveRho(r0, "rho0-batch")
			rho1 := deriveRho(r1, "rho1-batch")
			c0, err := recipientEncrypt(pub, inner, encodeScalars(x0s), rho0)
			if err != nil {
				return err
			}
			c1, err := recipientEncrypt(pub, inner, encodeScalars(x1s), rho1)
			if err != nil {
				return err
			}

			halves0[i] = batchHalf{xs: x0s, Xs: X0s, ct: c0}
			halves1[i] = batchHalf{xs: x1s, Xs: X1s, ct: c1}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	challenge := batchChallenge(label, qs, halves0, halves1)

	rows := make([]BatchRow, kappa)
	for i := 0; i < kappa; i++ {
		if challengeBit(challenge, i) {
			rows[i] = BatchRow{Seed: r1s[i], SiblingCT: halves0[i].ct, RevealedX1s: halves1[i].xs}
		} else {
			rows[i] = BatchRow{Seed: r0s[i], SiblingCT: halves1[i].ct}
		}
	}
	return &BatchProof{Qs: qs, Label: label, Challenge: challenge, Rows: rows}, nil
}

func batchAnchor(group curve.Curve, qs []curve.Point) curve.Point {
	if len(qs) == 0 {
		return group.NewPoint()
	}
	return qs[0]
}

func batchChallenge(label string, qs []curve.Point, halves0, halves1 []batchHalf) []byte {
	ro := hash.NewRO("cbmpc-pve-batch-challenge")
	ro.Absorb([]byte(label))
	for _, q := range qs {
		ro.Absorb(q.Bytes())
	}
	for i := range halves0 {
		ro.Absorb(halves0[i].ct, halves1[i].ct)
		for _, X := range halves0[i].Xs {
			ro.Absorb(X.Bytes())
		}
		for _, X := range halves1[i].Xs {
			ro.Absorb(X.Bytes())
		}
	}
	return ro.Read(kappa / 8)
}

// VerifyBatch is ec_pve_batch_t::verify.
func VerifyBatch(group curve.Curve, pub RecipientPublicKey, proof *BatchProof) error {
	if len(proof.Challenge) != kappa/8 || len(proof.Rows) != kappa {
		return errs.New(errs.Format, "pve.VerifyBatch", "proof has the wrong shape")
	}
	n := len(proof.Qs)
	inner := innerLabel(proof.Label, batchAnchor(group, proof.Qs))

	halves0 := make([]batchHalf, kappa)
	halves1 := make([]batchHalf, kappa)
	for i, row := range proof.Rows {
		if challengeBit(proof.Challenge, i) {
			if len(row.RevealedX1s) != n {
				return errs.New(errs.Format, "pve.VerifyBatch", "row is missing its revealed x1 vector")
			}
			rho1 := deriveRho(row.Seed, "rho1-batch")
			c1, err := recipientEncrypt(pub, inner, encodeScalars(row.RevealedX1s), rho1)
			if err != nil {
				return err
			}
			X1s := make([]curve.Point, n)
			X0s := make([]curve.Point, n)
			for j := 0; j < n; j++ {
				X1s[j] = group.ScalarBaseMul(row.RevealedX1s[j])
				X0s[j] = proof.Qs[j].Add(X1s[j].Negate())
			}
			halves1[i] = batchHalf{Xs: X1s, ct: c1}
			halves0[i] = batchHalf{Xs: X0s, ct: row.SiblingCT}
		} else {
			x0s := deriveX0Vector(group, row.Seed, n)
			rho0 := deriveRho(row.Seed, "rho0-batch")
			c0, err := recipientEncrypt(pub, inner, encodeScalars(x0s), rho0)
			if err != nil {
				return err
			}
			X0s := make([]curve.Point, n)
			X1s := make([]curve.Point, n)
			for j := 0; j < n; j++ {
				X0s[j] = group.ScalarBaseMul(x0s[j])
				X1s[j] = proof.Qs[j].Add(X0s[j].Negate())
			}
			halves0[i] = batchHalf{Xs: X0s, ct: c0}
			halves1[i] = batchHalf{Xs: X1s, ct: row.SiblingCT}
		}
	}

	want := batchChallenge(proof.Label, proof.Qs, halves0, halves1)
	if !equalBytes(want, proof.Challenge) {
		return errs.New(errs.Crypto, "pve.VerifyBatch", "challenge recomputation mismatch")
	}
	return nil
}

// DecryptBatch is ec_pve_batch_t::decrypt.
func DecryptBatch(group curve.Curve, priv RecipientPrivateKey, pub RecipientPublicKey, proof *BatchProof) ([]curve.Scalar, error) {
	n := len(proof.Qs)
	inner := innerLabel(proof.Label, batchAnchor(group, proof.Qs))

	var lastErr error
	for i, row := range proof.Rows {
		xs, err := decryptBatchRow(group, priv, pub, inner, row, challengeBit(proof.Challenge, i), n)
		if err != nil {
			lastErr = err
			continue
		}
		ok := true
		for j := 0; j < n; j++ {
			if !group.ScalarBaseMul(xs[j]).Equal(proof.Qs[j]) {
				ok = false
				break
			}
		}
		if ok {
			return xs, nil
		}
	}
	if lastErr == nil {
		lastErr = errs.New(errs.Crypto, "pve.DecryptBatch", "no row")
	}
	return nil, errs.Wrap(errs.Crypto, "pve.DecryptBatch", lastErr)
}

func decryptBatchRow(group curve.Curve, priv RecipientPrivateKey, pub RecipientPublicKey, inner string, row BatchRow, bitSet bool, n int) ([]curve.Scalar, error) {
	if bitSet {
		if len(row.RevealedX1s) != n {
			return nil, errs.New(errs.Format, "pve.DecryptBatch", "row is missing its revealed x1 vector")
		}
		pt, err := recipientDecrypt(priv, pub, inner, row.SiblingCT)
		if err != nil {
			return nil, err
		}
		x0s, err := decodeScalars(group, n, pt)
		if err != nil {
			return nil, err
		}
		xs := make([]curve.Scalar, n)
		for j := 0; j < n; j++ {
			xs[j] = x0s[j].Add(row.RevealedX1s[j])
		}
		return xs, nil
	}
	x0s := deriveX0Vector(group, row.Seed, n)
	pt, err := recipientDecrypt(priv, pub, inner, row.SiblingCT)
	if err != nil {
		return nil, err
	}
	x1s, err := decodeScalars(group, n, pt)
	if err != nil {
		return nil, err
	}
	xs := make([]curve.Scalar, n)
	for j := 0; j < n; j++ {
		xs[j] = x0s[j].Add(x1s[j])
	}
	return xs, nil
}
