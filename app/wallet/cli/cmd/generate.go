package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/protocol"
	"github.com/spf13/cobra"
)

var remote bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&remote, "remote", "r", false, "Ask the node to generate the key pair.")
}

func generateRun(cmd *cobra.Command, args []string) {
	w, err := generate()
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(accountPath, 0755); err != nil {
		log.Fatal(err)
	}

	if err := w.Save(getPrivateKeyPath()); err != nil {
		log.Fatal(err)
	}

	fmt.Println(w.Address)
}

func generate() (wallet.Wallet, error) {
	if !remote {
		return wallet.New()
	}

	resp, err := request(protocol.NewGenerateWallet())
	if err != nil {
		return wallet.Wallet{}, err
	}

	w, err := wallet.FromHex(resp.Wallet.PrivateKey)
	if err != nil {
		return wallet.Wallet{}, err
	}

	if w.Address != resp.Wallet.Address {
		return wallet.Wallet{}, fmt.Errorf("node returned address %s for a key owning %s", resp.Wallet.Address, w.Address)
	}

	return w, nil
}
