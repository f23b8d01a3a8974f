package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrInsufficientFunds is returned when the sender of a submitted transaction
// can't cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// =============================================================================

// AddTransaction accepts a well formed transaction into the mempool. The
// balance of the sender is not checked.
func (s *State) AddTransaction(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addTransaction(tx)
}

// SubmitTransaction accepts a transaction from a client. The sender's balance
// must cover the amount before the transaction is added to the mempool. The
// check and the add happen under the same lock.
func (s *State) SubmitTransaction(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.db.BalanceOf(tx.Sender)
	if balance < tx.Amount {
		s.evHandler("state: SubmitTransaction: REJECTED: tx[%s]: balance[%d]", tx, balance)
		return fmt.Errorf("%w: sender %s has %d, requested %d", ErrInsufficientFunds, tx.Sender, balance, tx.Amount)
	}

	return s.addTransaction(tx)
}

// =============================================================================

// addTransaction validates the transaction and appends it to the mempool.
// The caller must hold the state lock.
func (s *State) addTransaction(tx database.Tx) error {
	if tx.Kind() != database.TxReward && tx.Signature == "" {
		s.evHandler("state: AddTransaction: REJECTED: tx[%s]: unsigned", tx)
		return database.ErrUnsignedTx
	}

	if err := tx.Validate(); err != nil {
		s.evHandler("state: AddTransaction: REJECTED: tx[%s]: %s", tx, err)
		return fmt.Errorf("invalid transaction: %w", err)
	}

	n := s.mempool.Add(tx)
	s.evHandler("state: AddTransaction: tx[%s]: mempool[%d]", tx, n)

	return nil
}
