package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// GenesisPrevHash is the previous hash recorded in the genesis block.
const GenesisPrevHash = "0"

// hashLength is the size of a hex encoded SHA-256 digest.
const hashLength = 64

// =============================================================================

// Block represents a group of transactions batched together and sealed by
// proof of work.
type Block struct {
	Index        uint64 `json:"index"`         // Height of the block in the chain, genesis is 0.
	Timestamp    int64  `json:"timestamp"`     // Time the block was created in seconds.
	Transactions []Tx   `json:"transactions"`  // Reward first, then pending transactions in arrival order.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block.
	Hash         string `json:"hash"`          // Hash of this block's content.
	Nonce        uint64 `json:"nonce"`         // Value found by the mining search.
}

// NewBlock constructs an unmined block stamped with the current time.
func NewBlock(index uint64, previousHash string, trans []Tx) Block {
	if trans == nil {
		trans = []Tx{}
	}

	return Block{
		Index:        index,
		Timestamp:    time.Now().UTC().Unix(),
		Transactions: trans,
		PreviousHash: previousHash,
	}
}

// CalculateHash returns the hash of the current content of the block. The
// transactions contribute their signing hashes in order.
func (b Block) CalculateHash() string {
	var s strings.Builder
	s.WriteString(strconv.FormatUint(b.Index, 10))
	s.WriteString(strconv.FormatInt(b.Timestamp, 10))
	s.WriteString(b.PreviousHash)
	s.WriteString(strconv.FormatUint(b.Nonce, 10))

	for _, tx := range b.Transactions {
		s.WriteString(tx.SigningHash())
	}

	return signature.Hash(s.String())
}

// Mine performs the proof of work search. Starting from the current nonce,
// the nonce is incremented and the hash recomputed until the hash has
// difficulty leading zeros. At difficulty zero the starting nonce is kept. There is no
// limit on the number of attempts. Pointer semantics are being used since
// the nonce and hash are discovered.
func (b *Block) Mine(difficulty uint, evHandler func(v string, args ...any)) {
	evHandler("database: Mine: MINING: started: blk[%d]: difficulty[%d]", b.Index, difficulty)

	b.Hash = b.CalculateHash()

	var attempts uint64
	for !isHashSolved(difficulty, b.Hash) {
		attempts++
		if attempts%1_000_000 == 0 {
			evHandler("database: Mine: MINING: blk[%d]: attempts[%d]", b.Index, attempts)
		}

		b.Nonce++
		b.Hash = b.CalculateHash()
	}

	evHandler("database: Mine: MINING: SOLVED: blk[%d]: hash[%s]: nonce[%d]: attempts[%d]", b.Index, b.Hash, b.Nonce, attempts)
}

// ValidateBlock checks the block against its predecessor. The checks run in
// a fixed order and the first violation is returned.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint) error {
	if hash := b.CalculateHash(); b.Hash != hash {
		return fmt.Errorf("blk[%d]: invalid block hash, got %s, exp %s", b.Index, b.Hash, hash)
	}

	if b.PreviousHash != previousBlock.Hash {
		return fmt.Errorf("blk[%d]: invalid previous hash, got %s, exp %s", b.Index, b.PreviousHash, previousBlock.Hash)
	}

	if !isHashSolved(difficulty, b.Hash) {
		return fmt.Errorf("blk[%d]: hash %s does not meet difficulty %d", b.Index, b.Hash, difficulty)
	}

	for i, tx := range b.Transactions {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("blk[%d]: invalid transaction at index %d: %w", b.Index, i, err)
		}
	}

	return nil
}

// =============================================================================

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	if len(hash) != hashLength || difficulty > hashLength {
		return false
	}

	return hash[:difficulty] == strings.Repeat("0", int(difficulty))
}
