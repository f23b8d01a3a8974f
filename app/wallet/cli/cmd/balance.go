package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/protocol"
	"github.com/spf13/cobra"
)

var balanceAddress string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&balanceAddress, "address", "d", "", "Address to query instead of the wallet's own.")
}

func balanceRun(cmd *cobra.Command, args []string) {
	address := balanceAddress
	if address == "" {
		w, err := loadWallet()
		if err != nil {
			log.Fatal(err)
		}
		address = w.Address
	}

	resp, err := request(protocol.NewGetBalance(address))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("For Address:", address)
	fmt.Println(resp.Balance)
}
