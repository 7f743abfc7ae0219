package pve

import (
	"github.com/sigilcrypto/mpc/pkg/accesstree"
	"github.com/sigilcrypto/mpc/pkg/core/sym"
	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

// QuorumProof is ec_pve_ac_t (PVE-AC, spec §4.10 "Quorum PVE"): x is not
// encrypted directly under one recipient but wrapped by a row-level
// symmetric key K that is itself secret-shared across an access structure's
// leaves, each leaf's share verifiably encrypted under that leaf's own
// public key via Proof (the same cut-and-choose this package already
// builds for a single recipient). The pve_ac.cpp implementation's
// encrypt_row0/encrypt_row1/find_quorum_ciphertext helpers weren't
// available to transcribe from (only pve_ac.h's class declaration was
// retrieved), so this follows spec.md's plainer description of the layering
// instead of the source line for line: it composes Proof + accesstree
// rather than reproducing the C++'s internal row bookkeeping.
type QuorumProof struct {
	Structure     *accesstree.Structure
	Q             curve.Point
	Label         string
	LeafProofs    map[string]*Proof
	PublicPoints  map[string]curve.Point
	IV            []byte
	RowCiphertext []byte
}

const quorumKeyInfo = "cbmpc-pve-ac-row-key"

// EncryptQuorum is ec_pve_ac_t::encrypt: x must equal structure.Share's
// secret, and every leaf named by structure needs a public key in pubs.
func EncryptQuorum(structure *accesstree.Structure, pubs map[string]RecipientPublicKey, label string, x curve.Scalar) (*QuorumProof, error) {
	group := structure.Group
	q := group.ScalarBaseMul(x)

	k, err := curve.RandomScalar(group)
	if err != nil {
		return nil, err
	}
	shares, err := structure.Share(k)
	if err != nil {
		return nil, err
	}

	leafProofs := make(map[string]*Proof, len(shares.LeafShares))
	for name, share := range shares.LeafShares {
		pub, ok := pubs[name]
		if !ok {
			return nil, errs.New(errs.BadArgument, "pve.EncryptQuorum", "missing recipient key for leaf "+name)
		}
		proof, err := Encrypt(group, pub, label+"-leaf-"+name, share)
		if err != nil {
			return nil, err
		}
		leafProofs[name] = proof
	}

	aesKey, err := sym.HKDFExpand(k.Bytes(), nil, []byte(quorumKeyInfo), 32)
	if err != nil {
		return nil, err
	}
	iv, err := sym.RandomBytes(12)
	if err != nil {
		return nil, err
	}
	ct, err := sym.SealGCM(aesKey, iv, []byte(label), x.Bytes())
	if err != nil {
		return nil, err
	}

	publicPoints := make(map[string]curve.Point, len(shares.LeafShares))
	for name := range shares.LeafShares {
		publicPoints[name] = shares.PublicPoints[name]
	}

	return &QuorumProof{
		Structure:     structure,
		Q:             q,
		Label:         label,
		LeafProofs:    leafProofs,
		PublicPoints:  publicPoints,
		IV:            iv,
		RowCiphertext: ct,
	}, nil
}

// VerifyQuorum is ec_pve_ac_t::verify: every leaf's own proof must check out
// under its own public key, and the leaves' published points must
// reconstruct (via the access structure) to Q.
func VerifyQuorum(proof *QuorumProof, pubs map[string]RecipientPublicKey) error {
	group := proof.Structure.Group
	for name, leafProof := range proof.LeafProofs {
		pub, ok := pubs[name]
		if !ok {
			return errs.New(errs.BadArgument, "pve.VerifyQuorum", "missing recipient key for leaf "+name)
		}
		if err := Verify(group, pub, leafProof); err != nil {
			return errs.Wrap(errs.Crypto, "pve.VerifyQuorum", err)
		}
		point, ok := proof.PublicPoints[name]
		if !ok || !leafProof.Q.Equal(point) {
			return errs.New(errs.Crypto, "pve.VerifyQuorum", "leaf proof point does not match published point for "+name)
		}
	}

	recomposed, err := proof.Structure.ReconstructInExponent(proof.PublicPoints)
	if err != nil {
		return errs.Wrap(errs.Crypto, "pve.VerifyQuorum", err)
	}
	if !recomposed.Equal(proof.Q) {
		return errs.New(errs.Crypto, "pve.VerifyQuorum", "access structure does not reconstruct to Q")
	}
	return nil
}

// DecryptQuorum is ec_pve_ac_t::decrypt: privs need only cover a quorum
// (spec §4.8's QuorumSufficient over names(privs)), not every leaf.
func DecryptQuorum(proof *QuorumProof, privs map[string]RecipientPrivateKey, pubs map[string]RecipientPublicKey) (curve.Scalar, error) {
	group := proof.Structure.Group

	names := make([]string, 0, len(privs))
	for name := range privs {
		names = append(names, name)
	}
	if !proof.Structure.QuorumSufficient(names) {
		return nil, errs.New(errs.Insufficient, "pve.DecryptQuorum", "available leaves do not satisfy the access structure")
	}

	leafShares := make(map[string]curve.Scalar, len(privs))
	for name, priv := range privs {
		leafProof, ok := proof.LeafProofs[name]
		if !ok {
			continue
		}
		pub, ok := pubs[name]
		if !ok {
			return nil, errs.New(errs.BadArgument, "pve.DecryptQuorum", "missing recipient key for leaf "+name)
		}
		share, err := Decrypt(group, priv, pub, leafProof)
		if err != nil {
			return nil, errs.Wrap(errs.Crypto, "pve.DecryptQuorum", err)
		}
		leafShares[name] = share
	}

	k, err := proof.Structure.Reconstruct(leafShares)
	if err != nil {
		return nil, err
	}

	aesKey, err := sym.HKDFExpand(k.Bytes(), nil, []byte(quorumKeyInfo), 32)
	if err != nil {
		return nil, err
	}
	pt, err := sym.OpenGCM(aesKey, proof.IV, []byte(proof.Label), proof.RowCiphertext)
	if err != nil {
		return nil, errs.Wrap(errs.Crypto, "pve.DecryptQuorum", err)
	}
	x, err := group.DecodeScalar(pt)
	if err != nil {
		return nil, err
	}
	if !group.ScalarBaseMul(x).Equal(proof.Q) {
		return nil, errs.New(errs.Crypto, "pve.DecryptQuorum", "decrypted value does not match Q")
	}
	return x, nil
}
