// Package wallet provides support for creating and using the key pairs that
// own accounts on the ledger.
package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a secp256k1 key pair and the address derived from it.
type Wallet struct {
	PrivateKey *ecdsa.PrivateKey
	Address    string
}

// New generates a fresh key pair.
func New() (Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return Wallet{}, fmt.Errorf("generating key: %w", err)
	}

	return FromPrivateKey(privateKey), nil
}

// FromPrivateKey constructs a wallet for an existing private key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey) Wallet {
	return Wallet{
		PrivateKey: privateKey,
		Address:    signature.PublicKeyToAddress(privateKey.PublicKey),
	}
}

// FromHex constructs a wallet from a hex encoded private key.
func FromHex(privateKeyHex string) (Wallet, error) {
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return Wallet{}, fmt.Errorf("decoding private key: %w", err)
	}

	return FromPrivateKey(privateKey), nil
}

// Load reads a private key file written by Save.
func Load(path string) (Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return Wallet{}, fmt.Errorf("loading key %q: %w", path, err)
	}

	return FromPrivateKey(privateKey), nil
}

// Save writes the private key to the file in hex.
func (w Wallet) Save(path string) error {
	if err := crypto.SaveECDSA(path, w.PrivateKey); err != nil {
		return fmt.Errorf("saving key %q: %w", path, err)
	}

	return nil
}

// PrivateKeyHex returns the hex encoding of the private key.
func (w Wallet) PrivateKeyHex() string {
	return common.Bytes2Hex(crypto.FromECDSA(w.PrivateKey))
}

// PublicKeyHex returns the hex encoding of the compressed public key. This
// is the same value as the address.
func (w Wallet) PublicKeyHex() string {
	return signature.PublicKeyHex(w.PrivateKey.PublicKey)
}

// NewTx constructs and signs a transaction sending amount from this wallet
// to the recipient.
func (w Wallet) NewTx(recipient string, amount uint64) (database.Tx, error) {
	tx := database.NewTx(w.Address, recipient, amount)
	if err := tx.Sign(w.PrivateKey, w.PublicKeyHex()); err != nil {
		return database.Tx{}, err
	}

	return tx, nil
}
