// Package wire implements the self-describing CBOR encoding spec §6 asks
// for, separate from the core/buf length-prefixed codec (which this package
// does not use): a handful of wire-facing
// types (TDH2 ciphertexts, PVE proofs) that a CLI or a config file needs to
// round-trip get a `cbor`-tagged DTO shape, mirroring the teacher's own
// protocol-config CBOR encoding in cmd/threshold-cli.
package wire

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/sigilcrypto/mpc/pkg/errs"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/pve"
	"github.com/sigilcrypto/mpc/pkg/tdh2"
)

// ciphertextDTO is the CBOR shape of a tdh2.Ciphertext: curve elements
// flatten to their compressed byte encodings, tagged with the curve name so
// UnmarshalCiphertext can reject data encoded for a different curve than the
// caller's before decoding anything.
type ciphertextDTO struct {
	Curve string `cbor:"curve"`
	C     []byte `cbor:"c"`
	IV    []byte `cbor:"iv"`
	R1    []byte `cbor:"r1"`
	R2    []byte `cbor:"r2"`
	E     []byte `cbor:"e"`
	F     []byte `cbor:"f"`
	Label []byte `cbor:"label"`
}

// MarshalCiphertext encodes a TDH2 ciphertext to CBOR.
func MarshalCiphertext(group curve.Curve, ct *tdh2.Ciphertext) ([]byte, error) {
	dto := ciphertextDTO{
		Curve: group.Name(),
		C:     ct.C,
		IV:    ct.IV,
		R1:    ct.R1.Bytes(),
		R2:    ct.R2.Bytes(),
		E:     ct.E.Bytes(),
		F:     ct.F.Bytes(),
		Label: ct.Label,
	}
	return cbor.Marshal(dto)
}

// UnmarshalCiphertext decodes a TDH2 ciphertext produced by MarshalCiphertext,
// validating every point and scalar against group — wire values are never
// trusted bare (spec §6).
func UnmarshalCiphertext(group curve.Curve, data []byte) (*tdh2.Ciphertext, error) {
	var dto ciphertextDTO
	if err := cbor.Unmarshal(data, &dto); err != nil {
		return nil, errs.New(errs.Format, "wire.UnmarshalCiphertext", err.Error())
	}
	if dto.Curve != group.Name() {
		return nil, errs.New(errs.Format, "wire.UnmarshalCiphertext", "curve mismatch")
	}
	r1, err := group.DecodePoint(dto.R1)
	if err != nil {
		return nil, err
	}
	r2, err := group.DecodePoint(dto.R2)
	if err != nil {
		return nil, err
	}
	e, err := group.DecodeScalar(dto.E)
	if err != nil {
		return nil, err
	}
	f, err := group.DecodeScalar(dto.F)
	if err != nil {
		return nil, err
	}
	return &tdh2.Ciphertext{
		C:     dto.C,
		IV:    dto.IV,
		R1:    r1,
		R2:    r2,
		E:     e,
		F:     f,
		Label: dto.Label,
	}, nil
}

// pveRowDTO mirrors pve.Row. RevealedX1 is omitted on the wire when the
// challenge bit left that half hidden, the same "cleared rather than
// transmitted" shape the in-memory Row uses.
type pveRowDTO struct {
	Seed       []byte `cbor:"seed"`
	SiblingCT  []byte `cbor:"sibling_ct"`
	RevealedX1 []byte `cbor:"revealed_x1,omitempty"`
}

type pveProofDTO struct {
	Curve     string      `cbor:"curve"`
	Q         []byte      `cbor:"q"`
	Label     string      `cbor:"label"`
	Challenge []byte      `cbor:"challenge"`
	Rows      []pveRowDTO `cbor:"rows"`
}

// MarshalPVEProof encodes a publicly verifiable encryption proof to CBOR.
func MarshalPVEProof(group curve.Curve, proof *pve.Proof) ([]byte, error) {
	rows := make([]pveRowDTO, len(proof.Rows))
	for i, r := range proof.Rows {
		row := pveRowDTO{Seed: r.Seed, SiblingCT: r.SiblingCT}
		if r.RevealedX1 != nil {
			row.RevealedX1 = r.RevealedX1.Bytes()
		}
		rows[i] = row
	}
	dto := pveProofDTO{
		Curve:     group.Name(),
		Q:         proof.Q.Bytes(),
		Label:     proof.Label,
		Challenge: proof.Challenge,
		Rows:      rows,
	}
	return cbor.Marshal(dto)
}

// UnmarshalPVEProof decodes a proof produced by MarshalPVEProof.
func UnmarshalPVEProof(group curve.Curve, data []byte) (*pve.Proof, error) {
	var dto pveProofDTO
	if err := cbor.Unmarshal(data, &dto); err != nil {
		return nil, errs.New(errs.Format, "wire.UnmarshalPVEProof", err.Error())
	}
	if dto.Curve != group.Name() {
		return nil, errs.New(errs.Format, "wire.UnmarshalPVEProof", "curve mismatch")
	}
	q, err := group.DecodePoint(dto.Q)
	if err != nil {
		return nil, err
	}
	rows := make([]pve.Row, len(dto.Rows))
	for i, r := range dto.Rows {
		row := pve.Row{Seed: r.Seed, SiblingCT: r.SiblingCT}
		if len(r.RevealedX1) > 0 {
			x1, err := group.DecodeScalar(r.RevealedX1)
			if err != nil {
				return nil, err
			}
			row.RevealedX1 = x1
		}
		rows[i] = row
	}
	return &pve.Proof{Q: q, Label: dto.Label, Challenge: dto.Challenge, Rows: rows}, nil
}
