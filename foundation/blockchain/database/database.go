// Package database handles the lower level data structures of the ledger:
// transactions, blocks and the in memory chain of mined blocks.
package database

import (
	"errors"
	"math"
	"math/bits"
)

// ErrNoTransactions is returned when a block is requested to be mined and
// there are no pending transactions.
var ErrNoTransactions = errors.New("no pending transactions to mine")

// =============================================================================

// Snapshot is a copy of the ledger handed out to clients.
type Snapshot struct {
	Chain               []Block `json:"chain"`
	Difficulty          uint    `json:"difficulty"`
	PendingTransactions []Tx    `json:"pending_transactions"`
	MiningReward        uint64  `json:"mining_reward"`
}

// =============================================================================

// Database maintains the chain of blocks. The chain is append only and always
// holds the genesis block. Database is not safe for concurrent use, access is
// serialized by the state package.
type Database struct {
	difficulty uint
	blocks     []Block
	evHandler  func(v string, args ...any)
}

// New constructs a database holding a freshly mined genesis block.
func New(difficulty uint, evHandler func(v string, args ...any)) *Database {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		difficulty: difficulty,
		evHandler:  ev,
	}

	genesis := NewBlock(0, GenesisPrevHash, nil)
	genesis.Mine(difficulty, ev)
	genesis.Hash = genesis.CalculateHash()

	db.blocks = append(db.blocks, genesis)
	ev("database: New: genesis: hash[%s]", genesis.Hash)

	return &db
}

// Difficulty returns the number of leading zeros required for a block hash.
func (db *Database) Difficulty() uint {
	return db.difficulty
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	return len(db.blocks)
}

// LatestBlock returns the last block in the chain.
func (db *Database) LatestBlock() Block {
	return db.blocks[len(db.blocks)-1]
}

// Blocks returns the chain. The returned slice shares memory with the
// database and must not be modified.
func (db *Database) Blocks() []Block {
	return db.blocks
}

// MineNextBlock builds a block on top of the latest block with the specified
// transactions, performs the proof of work and appends it to the chain.
func (db *Database) MineNextBlock(trans []Tx) Block {
	latest := db.LatestBlock()

	block := NewBlock(uint64(len(db.blocks)), latest.Hash, trans)
	block.Mine(db.difficulty, db.evHandler)
	block.Hash = block.CalculateHash()

	db.blocks = append(db.blocks, block)
	db.evHandler("database: MineNextBlock: blk[%d]: trans[%d]: hash[%s]", block.Index, len(block.Transactions), block.Hash)

	return block
}

// BalanceOf replays every transaction in the chain to compute the balance of
// the address. Blocks are walked in order and transactions in storage order.
func (db *Database) BalanceOf(address string) uint64 {
	return Balance(db.blocks, address)
}

// ValidateChain checks every block after genesis and returns the first
// violation found.
func (db *Database) ValidateChain() error {
	return ValidateChain(db.blocks, db.difficulty)
}

// IsChainValid is the boolean form of ValidateChain.
func (db *Database) IsChainValid() bool {
	return db.ValidateChain() == nil
}

// =============================================================================

// ValidateChain checks each non genesis block against its predecessor in
// ascending order and returns the first violation found.
func ValidateChain(blocks []Block, difficulty uint) error {
	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], difficulty); err != nil {
			return err
		}
	}

	return nil
}

// Balance computes the balance of the address from the set of blocks. The
// arithmetic saturates at zero and at the maximum uint64 value.
func Balance(blocks []Block, address string) uint64 {
	var balance uint64

	for _, block := range blocks {
		for _, tx := range block.Transactions {
			if tx.Sender == address && tx.Kind() != TxReward {
				balance = subSaturating(balance, tx.Amount)
			}
			if tx.Recipient == address {
				balance = addSaturating(balance, tx.Amount)
			}
		}
	}

	return balance
}

// addSaturating adds b to a and clamps at the maximum uint64.
func addSaturating(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// subSaturating subtracts b from a and clamps at zero.
func subSaturating(a, b uint64) uint64 {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0
	}
	return diff
}
