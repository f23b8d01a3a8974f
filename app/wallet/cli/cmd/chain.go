package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/protocol"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the full chain and pending pool",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) {
	resp, err := request(protocol.NewGetChain())
	if err != nil {
		log.Fatal(err)
	}

	data, err := json.MarshalIndent(resp.Snapshot, "", "  ")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(data))
}
