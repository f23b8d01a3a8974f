package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/protocol"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "m", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) {
	w, err := loadWallet()
	if err != nil {
		log.Fatal(err)
	}

	tx, err := w.NewTx(to, amount)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := request(protocol.NewAddTransaction(tx))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Message)
}
