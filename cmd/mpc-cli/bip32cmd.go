package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigilcrypto/mpc/pkg/bip32"
	"github.com/sigilcrypto/mpc/pkg/core/sym"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
)

type bip32Result struct {
	Curve      string `json:"curve"`
	RootPublic string `json:"root_public_key"`
	Path       []uint32 `json:"path"`
	ChildPublic string `json:"child_public_key"`
}

func runBIP32(cmd *cobra.Command, args []string) error {
	group, err := resolveCurve(curveType)
	if err != nil {
		return err
	}

	x, err := curve.RandomScalar(group)
	if err != nil {
		return err
	}
	Q := group.ScalarBaseMul(x)

	var chainCode bip32.ChainCode
	raw, err := sym.RandomBytes(32)
	if err != nil {
		return err
	}
	copy(chainCode[:], raw)

	path := bip32.Path{0, 1, 2}
	deltas, err := bip32.Derive(group, Q, chainCode, []bip32.Path{path})
	if err != nil {
		return fmt.Errorf("bip32 derive: %w", err)
	}
	childQ := bip32.ChildPublicKey(group, Q, deltas[0])

	result := bip32Result{
		Curve:       group.Name(),
		RootPublic:  hex.EncodeToString(Q.Bytes()),
		Path:        path,
		ChildPublic: hex.EncodeToString(childQ.Bytes()),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeResult("bip32", data)
}
