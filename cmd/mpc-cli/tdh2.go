package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigilcrypto/mpc/pkg/accesstree"
	"github.com/sigilcrypto/mpc/pkg/math/curve"
	"github.com/sigilcrypto/mpc/pkg/party"
	"github.com/sigilcrypto/mpc/pkg/tdh2"
	"github.com/sigilcrypto/mpc/pkg/wire"
)

type tdh2Result struct {
	Curve      string `json:"curve"`
	Threshold  int    `json:"threshold"`
	Parties    int    `json:"parties"`
	Plaintext  string `json:"plaintext"`
	Decrypted  string `json:"decrypted"`
	Matches    bool   `json:"matches"`
	CBOR       string `json:"cbor_ciphertext"`
}

func runTDH2(cmd *cobra.Command, args []string) error {
	group, err := resolveCurve(curveType)
	if err != nil {
		return err
	}
	if threshold < 1 || threshold > parties {
		return fmt.Errorf("threshold must be between 1 and parties")
	}

	x, err := curve.RandomScalar(group)
	if err != nil {
		return err
	}
	pub := tdh2.NewPublicKey(group, group.ScalarBaseMul(x))

	leaves := make([]*accesstree.Node, parties)
	names := make([]string, parties)
	for i := 0; i < parties; i++ {
		names[i] = string(party.ID(fmt.Sprintf("party-%d", i+1)))
		leaves[i] = accesstree.NewLeaf(names[i])
	}
	structure, err := accesstree.New(group, accesstree.NewThreshold("root", threshold, leaves...))
	if err != nil {
		return fmt.Errorf("building access structure: %w", err)
	}
	shares, err := structure.Share(x)
	if err != nil {
		return fmt.Errorf("sharing secret: %w", err)
	}

	plaintext := []byte("mpc-cli tdh2 demo message")
	ct, err := tdh2.Encrypt(pub, plaintext, []byte("mpc-cli-demo"))
	if err != nil {
		return fmt.Errorf("tdh2 encrypt: %w", err)
	}

	quorum := names[:threshold]
	pubShares := make(map[string]curve.Point, len(quorum))
	partials := make(map[string]tdh2.PartialDecryption, len(quorum))
	for _, name := range quorum {
		xi := shares.LeafShares[name]
		pubShares[name] = group.ScalarBaseMul(xi)
		share := tdh2.PrivateShare{Pub: pub, X: xi}
		pd, err := share.Decrypt(ct, []byte("mpc-cli-demo"))
		if err != nil {
			return fmt.Errorf("partial decrypt for %s: %w", name, err)
		}
		partials[name] = *pd
	}

	decrypted, err := tdh2.Combine(structure, pub, pubShares, []byte("mpc-cli-demo"), partials, ct)
	if err != nil {
		return fmt.Errorf("tdh2 combine: %w", err)
	}

	encoded, err := wire.MarshalCiphertext(group, ct)
	if err != nil {
		return fmt.Errorf("encoding ciphertext to cbor: %w", err)
	}

	result := tdh2Result{
		Curve:     group.Name(),
		Threshold: threshold,
		Parties:   parties,
		Plaintext: hex.EncodeToString(plaintext),
		Decrypted: hex.EncodeToString(decrypted),
		Matches:   string(decrypted) == string(plaintext),
		CBOR:      hex.EncodeToString(encoded),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeResult("tdh2", data)
}
