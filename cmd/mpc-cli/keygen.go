package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/math/polynomial"
	"github.com/sigilcrypto/mpc/pkg/party"
)

type keygenResult struct {
	Curve     string            `json:"curve"`
	Threshold int               `json:"threshold"`
	Parties   int               `json:"parties"`
	PublicKey string            `json:"public_key"`
	Shares    map[string]string `json:"shares"`
}

func runKeygen(cmd *cobra.Command, args []string) error {
	group, err := resolveCurve(curveType)
	if err != nil {
		return err
	}
	if threshold < 1 || threshold > parties {
		return fmt.Errorf("threshold must be between 1 and parties")
	}

	secret, err := curve.RandomScalar(group)
	if err != nil {
		return fmt.Errorf("sampling secret: %w", err)
	}
	poly, err := polynomial.Sample(group, threshold-1, secret)
	if err != nil {
		return fmt.Errorf("sampling polynomial: %w", err)
	}

	ids := party.IDSlice(make([]party.ID, parties))
	shares := make(map[string]string, parties)
	for i := range ids {
		ids[i] = party.ID(fmt.Sprintf("party-%d", i+1))
		x := group.HashToScalar("cbmpc-pid", []byte(ids[i]))
		share := poly.Evaluate(x)
		shares[string(ids[i])] = hex.EncodeToString(share.Bytes())
	}

	result := keygenResult{
		Curve:     group.Name(),
		Threshold: threshold,
		Parties:   parties,
		PublicKey: hex.EncodeToString(group.ScalarBaseMul(secret).Bytes()),
		Shares:    shares,
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeResult("keygen", data)
}

func resolveCurve(name string) (curve.Curve, error) {
	switch name {
	case "secp256k1":
		return curve.Secp256k1{}, nil
	default:
		return nil, fmt.Errorf("unsupported curve: %s", name)
	}
}
