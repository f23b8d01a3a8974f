// Package cmd contains the wallet commands.
package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/protocol"
	"github.com/spf13/cobra"
)

var (
	url         string
	accountName string
	accountPath string
)

const (
	keyExtension = ".ecdsa"
	dialTimeout  = 5 * time.Second
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "127.0.0.1:8080", "Address of the ledger node.")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Simple wallet for the ledger node",
}

// Execute runs the wallet command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(accountName, keyExtension) {
		accountName += keyExtension
	}

	return filepath.Join(accountPath, accountName)
}

func loadWallet() (wallet.Wallet, error) {
	return wallet.Load(getPrivateKeyPath())
}

func dial() (*protocol.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	return protocol.Dial(ctx, url)
}

// request opens a session, sends a single request and closes the session.
// An Error reply is returned as an error.
func request(req protocol.Request) (protocol.Response, error) {
	client, err := dial()
	if err != nil {
		return protocol.Response{}, err
	}
	defer client.Close()

	resp, err := client.Send(req)
	if err != nil {
		return protocol.Response{}, err
	}

	if err := resp.Err(); err != nil {
		return protocol.Response{}, err
	}

	return resp, nil
}
