package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/jinzhu/copier"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var block database.Block
	if err := copier.CopyWithOption(&block, s.db.LatestBlock(), copier.Option{DeepCopy: true}); err != nil {
		return database.Block{}, fmt.Errorf("copying latest block: %w", err)
	}

	return block, nil
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Copy()
}

// RetrieveSnapshot returns a deep copy of the chain, the pending pool and the
// chain parameters. Nothing in the snapshot shares memory with the state.
func (s *State) RetrieveSnapshot() (database.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := database.Snapshot{
		Difficulty:          s.db.Difficulty(),
		MiningReward:        s.genesis.MiningReward,
		PendingTransactions: s.mempool.Copy(),
	}

	if err := copier.CopyWithOption(&snap.Chain, s.db.Blocks(), copier.Option{DeepCopy: true}); err != nil {
		return database.Snapshot{}, fmt.Errorf("copying chain: %w", err)
	}

	// Keep an empty block encoding as [] and not null.
	for i := range snap.Chain {
		if snap.Chain[i].Transactions == nil {
			snap.Chain[i].Transactions = []database.Tx{}
		}
	}

	return snap, nil
}
