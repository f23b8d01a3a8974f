package state_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	MINER_ECDSA = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	OTHER_ECDSA = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newState(t *testing.T) *state.State {
	st, err := state.New(state.Config{
		Genesis: genesis.Genesis{Difficulty: 2, MiningReward: 100},
	})
	ifErrFailNow(t, err)

	return st
}

// =============================================================================

func Test_Scenario(t *testing.T) {
	miner, err := wallet.FromHex(MINER_ECDSA)
	ifErrFailNow(t, err)

	x, err := wallet.FromHex(OTHER_ECDSA)
	ifErrFailNow(t, err)

	t.Log("Given the need to mine, transfer and account for value.")
	{
		st := newState(t)

		t.Logf("\tTest 0:\tWhen the ledger is constructed.")
		{
			if n := st.QueryChainLength(); n != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould hold the genesis block, got %d blocks.", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould hold the genesis block.", success)

			if !st.IsChainValid() {
				t.Fatalf("\t%s\tTest 0:\tShould be valid.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be valid.", success)

			if _, err := st.MinePendingTransactions(miner.Address); !errors.Is(err, database.ErrNoTransactions) {
				t.Fatalf("\t%s\tTest 0:\tShould have nothing to mine, got %v.", failed, err)
			}
			if n := st.QueryChainLength(); n != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not grow the chain, got %d blocks.", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould have nothing to mine.", success)
		}

		t.Logf("\tTest 1:\tWhen the miner mines the first block.")
		{
			// The pool must hold something for a block to be mined.
			ifErrFailNow(t, st.AddTransaction(database.NewRewardTx("seed", 1)))

			block, err := st.MinePendingTransactions(miner.Address)
			ifErrFailNow(t, err)

			if block.Transactions[0].Kind() != database.TxReward || block.Transactions[0].Recipient != miner.Address {
				t.Fatalf("\t%s\tTest 1:\tShould place the miner reward first.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould place the miner reward first.", success)

			if n := st.QueryChainLength(); n != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould hold 2 blocks, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 1:\tShould hold 2 blocks.", success)

			if bal := st.QueryBalance(miner.Address); bal != 100 {
				t.Fatalf("\t%s\tTest 1:\tShould give the miner 100, got %d.", failed, bal)
			}
			t.Logf("\t%s\tTest 1:\tShould give the miner 100.", success)

			if n := st.QueryMempoolLength(); n != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould empty the mempool, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 1:\tShould empty the mempool.", success)
		}

		t.Logf("\tTest 2:\tWhen the miner sends 40 to X and mines again.")
		{
			tx, err := miner.NewTx(x.Address, 40)
			ifErrFailNow(t, err)
			ifErrFailNow(t, st.SubmitTransaction(tx))

			_, err = st.MinePendingTransactions(miner.Address)
			ifErrFailNow(t, err)

			if n := st.QueryChainLength(); n != 3 {
				t.Fatalf("\t%s\tTest 2:\tShould hold 3 blocks, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 2:\tShould hold 3 blocks.", success)

			if bal := st.QueryBalance(miner.Address); bal != 160 {
				t.Fatalf("\t%s\tTest 2:\tShould leave the miner with 160, got %d.", failed, bal)
			}
			t.Logf("\t%s\tTest 2:\tShould leave the miner with 160.", success)

			if bal := st.QueryBalance(x.Address); bal != 40 {
				t.Fatalf("\t%s\tTest 2:\tShould give X 40, got %d.", failed, bal)
			}
			t.Logf("\t%s\tTest 2:\tShould give X 40.", success)

			if err := st.ValidateChain(); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be valid: %s", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be valid.", success)
		}

		t.Logf("\tTest 3:\tWhen X sends more than it holds.")
		{
			tx, err := x.NewTx("someone", 1000)
			ifErrFailNow(t, err)

			if err := st.SubmitTransaction(tx); !errors.Is(err, state.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest 3:\tShould reject for insufficient funds, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould reject for insufficient funds.", success)

			if n := st.QueryMempoolLength(); n != 0 {
				t.Fatalf("\t%s\tTest 3:\tShould not place it in the mempool.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould not place it in the mempool.", success)

			// The ledger level gate does not check balances.
			ifErrFailNow(t, st.AddTransaction(tx))
			if n := st.QueryMempoolLength(); n != 1 {
				t.Fatalf("\t%s\tTest 3:\tShould accept it through the structural gate.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould accept it through the structural gate.", success)
		}
	}
}

func Test_AddTransactionRejects(t *testing.T) {
	w, err := wallet.FromHex(OTHER_ECDSA)
	ifErrFailNow(t, err)

	t.Log("Given the need to reject malformed transactions.")
	{
		st := newState(t)

		unsigned := database.NewTx(w.Address, "someone", 10)
		if err := st.AddTransaction(unsigned); !errors.Is(err, database.ErrUnsignedTx) {
			t.Fatalf("\t%s\tShould reject an unsigned transaction, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject an unsigned transaction.", success)

		tx, err := w.NewTx("someone", 10)
		ifErrFailNow(t, err)
		tx.Amount = 11
		if err := st.AddTransaction(tx); err == nil {
			t.Fatalf("\t%s\tShould reject a bad signature.", failed)
		}
		t.Logf("\t%s\tShould reject a bad signature.", success)

		if n := st.QueryMempoolLength(); n != 0 {
			t.Fatalf("\t%s\tShould leave the mempool untouched, got %d.", failed, n)
		}
		t.Logf("\t%s\tShould leave the mempool untouched.", success)
	}
}

func Test_Snapshot(t *testing.T) {
	t.Log("Given the need to hand out the chain without sharing memory.")
	{
		st := newState(t)
		ifErrFailNow(t, st.AddTransaction(database.NewRewardTx("x", 5)))
		_, err := st.MinePendingTransactions("miner")
		ifErrFailNow(t, err)
		ifErrFailNow(t, st.AddTransaction(database.NewRewardTx("y", 7)))

		snap, err := st.RetrieveSnapshot()
		ifErrFailNow(t, err)

		if len(snap.Chain) != 2 || len(snap.PendingTransactions) != 1 || snap.Difficulty != 2 || snap.MiningReward != 100 {
			t.Fatalf("\t%s\tShould capture the ledger, got %+v.", failed, snap)
		}
		t.Logf("\t%s\tShould capture the ledger.", success)

		if snap.Chain[0].Transactions == nil {
			t.Fatalf("\t%s\tShould keep an empty genesis transaction list.", failed)
		}
		t.Logf("\t%s\tShould keep an empty genesis transaction list.", success)

		snap.Chain[1].Hash = "tampered"
		snap.Chain[1].Transactions[0].Amount = 1_000_000
		snap.PendingTransactions[0].Amount = 1_000_000

		if !st.IsChainValid() {
			t.Fatalf("\t%s\tShould not be affected by changes to the snapshot.", failed)
		}
		if bal := st.QueryBalance("miner"); bal != 100 {
			t.Fatalf("\t%s\tShould keep the miner balance, got %d.", failed, bal)
		}
		if st.RetrieveMempool()[0].Amount != 7 {
			t.Fatalf("\t%s\tShould keep the pending transaction.", failed)
		}
		t.Logf("\t%s\tShould not be affected by changes to the snapshot.", success)

		latest, err := st.RetrieveLatestBlock()
		ifErrFailNow(t, err)
		if latest.Index != 1 {
			t.Fatalf("\t%s\tShould retrieve the latest block, got %d.", failed, latest.Index)
		}
		t.Logf("\t%s\tShould retrieve the latest block.", success)
	}
}

func Test_ConcurrentMining(t *testing.T) {
	t.Log("Given the need to serialize concurrent mining requests.")
	{
		st := newState(t)
		ifErrFailNow(t, st.AddTransaction(database.NewRewardTx("x", 5)))

		const miners = 4

		var wg sync.WaitGroup
		results := make(chan error, miners)
		for i := 0; i < miners; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := st.MinePendingTransactions("miner" + string(rune('a'+i)))
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var mined, empty int
		for err := range results {
			switch {
			case err == nil:
				mined++
			case errors.Is(err, database.ErrNoTransactions):
				empty++
			default:
				t.Fatalf("\t%s\tShould not fail mining: %s", failed, err)
			}
		}

		if mined != 1 || empty != miners-1 {
			t.Fatalf("\t%s\tShould mine exactly one block, mined %d, empty %d.", failed, mined, empty)
		}
		t.Logf("\t%s\tShould mine exactly one block.", success)

		if n := st.QueryChainLength(); n != 2 {
			t.Fatalf("\t%s\tShould grow the chain by one, got %d blocks.", failed, n)
		}
		t.Logf("\t%s\tShould grow the chain by one.", success)

		if err := st.ValidateChain(); err != nil {
			t.Fatalf("\t%s\tShould be valid: %s", failed, err)
		}
		t.Logf("\t%s\tShould be valid.", success)
	}
}

func Test_ConcurrentUse(t *testing.T) {
	t.Log("Given the need to share the ledger between many sessions.")
	{
		st := newState(t)

		const sessions = 8

		var wg sync.WaitGroup
		for i := 0; i < sessions; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				addr := "acct" + string(rune('a'+i))

				if err := st.AddTransaction(database.NewRewardTx(addr, 1)); err != nil {
					t.Errorf("\t%s\tShould be able to add: %s", failed, err)
					return
				}
				st.MinePendingTransactions(addr)
				st.QueryBalance(addr)
				if _, err := st.RetrieveSnapshot(); err != nil {
					t.Errorf("\t%s\tShould be able to snapshot: %s", failed, err)
				}
			}()
		}
		wg.Wait()

		if err := st.ValidateChain(); err != nil {
			t.Fatalf("\t%s\tShould be valid: %s", failed, err)
		}
		t.Logf("\t%s\tShould be valid after concurrent use.", success)

		snap, err := st.RetrieveSnapshot()
		ifErrFailNow(t, err)

		var trans int
		for _, block := range snap.Chain[1:] {
			trans += len(block.Transactions) - 1
		}
		if trans+len(snap.PendingTransactions) != sessions {
			t.Fatalf("\t%s\tShould account for every transaction, got %d.", failed, trans+len(snap.PendingTransactions))
		}
		t.Logf("\t%s\tShould account for every transaction.", success)
	}
}
