package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/nameservice"
)

type tx struct {
	Kind          string `json:"kind"`
	Sender        string `json:"sender"`
	SenderName    string `json:"sender_name"`
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipient_name"`
	Amount        uint64 `json:"amount"`
	Timestamp     int64  `json:"timestamp"`
	Signature     string `json:"signature"`
}

type block struct {
	Index        uint64 `json:"index"`
	Timestamp    int64  `json:"timestamp"`
	PreviousHash string `json:"previous_hash"`
	Hash         string `json:"hash"`
	Nonce        uint64 `json:"nonce"`
	Transactions []tx   `json:"transactions"`
}

type chain struct {
	Length       int     `json:"length"`
	Difficulty   uint    `json:"difficulty"`
	MiningReward uint64  `json:"mining_reward"`
	Pending      int     `json:"pending"`
	Blocks       []block `json:"blocks"`
}

type balance struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}

type validation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// =============================================================================

func toTx(ns *nameservice.NameService, dbTx database.Tx) tx {
	return tx{
		Kind:          dbTx.Kind().String(),
		Sender:        dbTx.Sender,
		SenderName:    ns.Lookup(dbTx.Sender),
		Recipient:     dbTx.Recipient,
		RecipientName: ns.Lookup(dbTx.Recipient),
		Amount:        dbTx.Amount,
		Timestamp:     dbTx.Timestamp,
		Signature:     dbTx.Signature,
	}
}

func toTxs(ns *nameservice.NameService, dbTxs []database.Tx) []tx {
	trans := make([]tx, len(dbTxs))
	for i, dbTx := range dbTxs {
		trans[i] = toTx(ns, dbTx)
	}
	return trans
}

func toBlock(ns *nameservice.NameService, dbBlock database.Block) block {
	return block{
		Index:        dbBlock.Index,
		Timestamp:    dbBlock.Timestamp,
		PreviousHash: dbBlock.PreviousHash,
		Hash:         dbBlock.Hash,
		Nonce:        dbBlock.Nonce,
		Transactions: toTxs(ns, dbBlock.Transactions),
	}
}
