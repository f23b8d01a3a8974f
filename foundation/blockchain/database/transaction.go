package database

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// These values mark a reward transaction on the wire. A reward is created by
// the chain itself when a block is mined and carries no real signature.
const (
	RewardSender    = "coinbase_reward"
	RewardSignature = "UNSIGNED_COINBASE_TX"
)

// ErrUnsignedTx is returned when a transfer without a signature is submitted.
var ErrUnsignedTx = errors.New("transaction is not signed")

// =============================================================================

// TxKind identifies which variant of transaction a Tx value holds.
type TxKind int

// Set of transaction kinds.
const (
	TxTransfer TxKind = iota
	TxReward
)

// String implements the fmt.Stringer interface.
func (k TxKind) String() string {
	switch k {
	case TxReward:
		return "reward"
	default:
		return "transfer"
	}
}

// =============================================================================

// Tx is a value transfer between two parties. The json shape is the wire
// format used by clients.
type Tx struct {
	Sender    string `json:"sender"`     // Address of the sender or RewardSender.
	Recipient string `json:"recipient"`  // Address receiving the amount.
	Amount    uint64 `json:"amount"`     // Value moved by this transaction.
	Timestamp int64  `json:"timestamp"`  // Time the transaction was created in seconds.
	PublicKey string `json:"public_key"` // Hex encoded public key of the signer.
	Signature string `json:"signature"`  // Hex encoded [R|S] signature or RewardSignature.
}

// NewTx constructs an unsigned transaction stamped with the current time.
func NewTx(sender string, recipient string, amount uint64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Timestamp: time.Now().UTC().Unix(),
	}
}

// NewRewardTx constructs the reward transaction paying the miner of a block.
func NewRewardTx(minerAddress string, reward uint64) Tx {
	tx := NewTx(RewardSender, minerAddress, reward)

	// Signing a reward only stamps the sentinel signature and never fails.
	_ = tx.Sign(nil, minerAddress)

	return tx
}

// Kind reports which variant the transaction is.
func (tx Tx) Kind() TxKind {
	if tx.Sender == RewardSender {
		return TxReward
	}

	return TxTransfer
}

// SigningHash returns the hex encoded SHA-256 digest of the core fields of
// the transaction. This is both the identity of the transaction and the exact
// digest that is signed.
func (tx Tx) SigningHash() string {
	var b strings.Builder
	b.WriteString(tx.Sender)
	b.WriteString(tx.Recipient)
	b.WriteString(strconv.FormatUint(tx.Amount, 10))
	b.WriteString(strconv.FormatInt(tx.Timestamp, 10))

	return signature.Hash(b.String())
}

// Sign signs the transaction with the private key and records the public key.
// A reward transaction is not signed, the private key is ignored and the
// signature is set to RewardSignature.
func (tx *Tx) Sign(privateKey *ecdsa.PrivateKey, publicKeyHex string) error {
	if tx.Kind() == TxReward {
		tx.PublicKey = publicKeyHex
		tx.Signature = RewardSignature
		return nil
	}

	if privateKey == nil {
		return errors.New("private key is required to sign a transfer")
	}

	sig, err := signature.Sign(tx.SigningHash(), privateKey)
	if err != nil {
		return fmt.Errorf("signing tx: %w", err)
	}

	tx.Signature = sig
	tx.PublicKey = publicKeyHex

	return nil
}

// Validate checks the transaction is well formed and, for a transfer, that
// the signature was produced by the sender over the signing hash. It does not
// check the balance of the sender.
func (tx Tx) Validate() error {
	if tx.Kind() == TxReward {
		switch {
		case tx.Signature != RewardSignature:
			return errors.New("reward transaction has an invalid signature marker")
		case tx.Recipient == "":
			return errors.New("reward transaction has no recipient")
		case tx.Amount == 0:
			return errors.New("reward transaction amount must be positive")
		}
		return nil
	}

	if tx.PublicKey == "" || tx.Signature == "" {
		return errors.New("transaction is not signed or public key is missing")
	}

	if tx.Amount == 0 {
		return errors.New("transaction amount must be positive")
	}

	if tx.Sender == "" || tx.Recipient == "" {
		return errors.New("sender or recipient address is empty")
	}

	if tx.Sender != tx.PublicKey {
		return errors.New("sender address does not match public key")
	}

	if err := signature.Verify(tx.SigningHash(), tx.PublicKey, tx.Signature); err != nil {
		return err
	}

	return nil
}

// IsValid is the boolean form of Validate.
func (tx Tx) IsValid() bool {
	return tx.Validate() == nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s->%s:%d", tx.Kind(), short(tx.Sender), short(tx.Recipient), tx.Amount)
}

// short trims an address for log output.
func short(s string) string {
	const max = 10
	if len(s) <= max {
		return s
	}
	return s[:max]
}
