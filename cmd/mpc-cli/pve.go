package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/pve"
	"github.com/sigilcrypto/mpc/pkg/wire"
)

type pveResult struct {
	Curve     string `json:"curve"`
	VerifyOK  bool   `json:"verify_ok"`
	Recovered string `json:"recovered_scalar"`
	Matches   bool   `json:"matches_original"`
	CBOR      string `json:"cbor_proof"`
}

func runPVE(cmd *cobra.Command, args []string) error {
	group, err := resolveCurve(curveType)
	if err != nil {
		return err
	}

	x, err := curve.RandomScalar(group)
	if err != nil {
		return fmt.Errorf("sampling secret: %w", err)
	}
	recipPriv, recipPub, err := pve.GenerateRecipientKey()
	if err != nil {
		return fmt.Errorf("generating recipient key: %w", err)
	}

	proof, err := pve.Encrypt(group, recipPub, "mpc-cli-demo", x)
	if err != nil {
		return fmt.Errorf("pve encrypt: %w", err)
	}
	verifyErr := pve.Verify(group, recipPub, proof)
	recovered, err := pve.Decrypt(group, recipPriv, recipPub, proof)
	if err != nil {
		return fmt.Errorf("pve decrypt: %w", err)
	}

	encoded, err := wire.MarshalPVEProof(group, proof)
	if err != nil {
		return fmt.Errorf("encoding proof to cbor: %w", err)
	}

	result := pveResult{
		Curve:     group.Name(),
		VerifyOK:  verifyErr == nil,
		Recovered: hex.EncodeToString(recovered.Bytes()),
		Matches:   recovered.Equal(x),
		CBOR:      hex.EncodeToString(encoded),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeResult("pve", data)
}
