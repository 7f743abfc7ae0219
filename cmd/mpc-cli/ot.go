package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigilcrypto/mpc/pkg/core/sym"
	"github.com/sigilcrypto/mpc/pkg/ot"
)

type otResult struct {
	Curve        string   `json:"curve"`
	Instances    int      `json:"instances"`
	Choices      []bool   `json:"choices"`
	Recovered    []string `json:"recovered"`
	AllMatch     bool     `json:"all_match"`
}

func runOT(cmd *cobra.Command, args []string) error {
	group, err := resolveCurve(curveType)
	if err != nil {
		return err
	}

	const m = 8
	choices := make([]bool, m)
	for i := range choices {
		choices[i] = i%2 == 0
	}

	proto := &ot.Protocol{Group: group, SID: []byte("mpc-cli-ot-demo")}
	senderState, baseMsg1, err := proto.Step1SenderToReceiver()
	if err != nil {
		return fmt.Errorf("ot step1: %w", err)
	}

	l := 16
	recvState, baseMsg2, extMsg1, err := proto.Step2ReceiverToSender(baseMsg1, choices, l*8)
	if err != nil {
		return fmt.Errorf("ot step2: %w", err)
	}

	x0 := make([][]byte, m)
	x1 := make([][]byte, m)
	for i := 0; i < m; i++ {
		x0[i], err = sym.RandomBytes(l)
		if err != nil {
			return err
		}
		x1[i], err = sym.RandomBytes(l)
		if err != nil {
			return err
		}
	}

	extMsg2, err := proto.Step3SenderToReceiver(senderState, baseMsg2, extMsg1, x0, x1)
	if err != nil {
		return fmt.Errorf("ot step3: %w", err)
	}

	out, err := recvState.Output(m, extMsg2)
	if err != nil {
		return fmt.Errorf("ot output: %w", err)
	}

	recovered := make([]string, m)
	allMatch := true
	for i := range out {
		recovered[i] = hex.EncodeToString(out[i])
		want := x0[i]
		if choices[i] {
			want = x1[i]
		}
		if hex.EncodeToString(want) != recovered[i] {
			allMatch = false
		}
	}

	result := otResult{
		Curve:     group.Name(),
		Instances: m,
		Choices:   choices,
		Recovered: recovered,
		AllMatch:  allMatch,
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeResult("ot", data)
}
