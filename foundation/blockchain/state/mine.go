package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// MinePendingTransactions builds a block from the reward transaction followed
// by every pending transaction, mines it and appends it to the chain. The lock
// is held for the whole proof of work search so every other ledger operation
// waits for it to complete. ErrNoTransactions is returned when the mempool is
// empty.
func (s *State) MinePendingTransactions(minerAddress string) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MinePendingTransactions: MINING: check mempool count")

	if s.mempool.Count() == 0 {
		s.evHandler("state: MinePendingTransactions: MINING: nothing to mine")
		return database.Block{}, database.ErrNoTransactions
	}

	reward := database.NewRewardTx(minerAddress, s.genesis.MiningReward)
	trans := append([]database.Tx{reward}, s.mempool.Drain()...)

	s.evHandler("state: MinePendingTransactions: MINING: perform POW: trans[%d]", len(trans))

	block := s.db.MineNextBlock(trans)

	s.evHandler("state: MinePendingTransactions: MINED: blk[%d]: hash[%s]: miner[%s]", block.Index, block.Hash, minerAddress)

	return block, nil
}
