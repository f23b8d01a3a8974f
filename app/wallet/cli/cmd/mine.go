package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/protocol"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions, paying the reward to this wallet",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	w, err := loadWallet()
	if err != nil {
		log.Fatal(err)
	}

	resp, err := request(protocol.NewMineBlock(w.Address))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Message)
}
