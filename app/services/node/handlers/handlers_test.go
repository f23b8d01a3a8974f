package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Explorer(t *testing.T) {
	log := zap.NewNop().Sugar()

	st, err := state.New(state.Config{
		Genesis: genesis.Genesis{Difficulty: 1, MiningReward: 100},
	})
	if err != nil {
		t.Fatalf("constructing state: %s", err)
	}

	if err := st.AddTransaction(database.NewRewardTx("seed", 1)); err != nil {
		t.Fatalf("seeding pool: %s", err)
	}
	if _, err := st.MinePendingTransactions("miner"); err != nil {
		t.Fatalf("mining: %s", err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("constructing name service: %s", err)
	}

	mux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		State:    st,
		NS:       ns,
		Evts:     events.New(),
	})

	t.Log("Given the need to browse the ledger over http.")
	{
		t.Logf("\tTest 0:\tWhen asking for the chain.")
		{
			r := httptest.NewRequest(http.MethodGet, "/v1/chain", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200 for the response : %v", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200 for the response.", success)

			var got struct {
				Length int `json:"length"`
				Blocks []struct {
					Transactions []struct {
						Kind string `json:"kind"`
					} `json:"transactions"`
				} `json:"blocks"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to unmarshal the response : %v", failed, err)
			}

			if got.Length != 2 || len(got.Blocks) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould see two blocks, got %d.", failed, got.Length)
			}
			if kind := got.Blocks[1].Transactions[0].Kind; kind != "reward" {
				t.Fatalf("\t%s\tTest 0:\tShould lead the block with the reward, got %s.", failed, kind)
			}
			t.Logf("\t%s\tTest 0:\tShould see the mined block.", success)
		}

		t.Logf("\tTest 1:\tWhen asking for a balance.")
		{
			r := httptest.NewRequest(http.MethodGet, "/v1/balances/miner", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			var got struct {
				Address string `json:"address"`
				Balance uint64 `json:"balance"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to unmarshal the response : %v", failed, err)
			}

			if w.Code != http.StatusOK || got.Address != "miner" || got.Balance != 100 {
				t.Fatalf("\t%s\tTest 1:\tShould report the reward: %d %+v", failed, w.Code, got)
			}
			t.Logf("\t%s\tTest 1:\tShould report the reward.", success)
		}

		t.Logf("\tTest 2:\tWhen asking for chain validation.")
		{
			r := httptest.NewRequest(http.MethodGet, "/v1/chain/validate", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			var got struct {
				Valid bool `json:"valid"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to unmarshal the response : %v", failed, err)
			}

			if !got.Valid {
				t.Fatalf("\t%s\tTest 2:\tShould report a valid chain.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould report a valid chain.", success)
		}

		t.Logf("\tTest 3:\tWhen asking for the latest block.")
		{
			r := httptest.NewRequest(http.MethodGet, "/v1/chain/latest", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			var got struct {
				Index        uint64 `json:"index"`
				Hash         string `json:"hash"`
				Transactions []struct {
					Recipient string `json:"recipient"`
				} `json:"transactions"`
			}
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to unmarshal the response : %v", failed, err)
			}

			latest, err := st.RetrieveLatestBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to retrieve the latest block : %v", failed, err)
			}

			if w.Code != http.StatusOK || got.Index != 1 || got.Hash != latest.Hash {
				t.Fatalf("\t%s\tTest 3:\tShould return the tip of the chain: %d %+v", failed, w.Code, got)
			}
			if len(got.Transactions) != 2 || got.Transactions[0].Recipient != "miner" {
				t.Fatalf("\t%s\tTest 3:\tShould lead with the miner reward: %+v", failed, got.Transactions)
			}
			t.Logf("\t%s\tTest 3:\tShould return the tip of the chain.", success)
		}

		t.Logf("\tTest 4:\tWhen asking for the pending pool.")
		{
			r := httptest.NewRequest(http.MethodGet, "/v1/tx/pending", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			var got []json.RawMessage
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("\t%s\tTest 4:\tShould be able to unmarshal the response : %v", failed, err)
			}

			if w.Code != http.StatusOK || len(got) != 0 {
				t.Fatalf("\t%s\tTest 4:\tShould report an empty pool: %d %d", failed, w.Code, len(got))
			}
			t.Logf("\t%s\tTest 4:\tShould report an empty pool.", success)
		}
	}
}

func Test_Debug(t *testing.T) {
	st, err := state.New(state.Config{Genesis: genesis.Default()})
	if err != nil {
		t.Fatalf("constructing state: %s", err)
	}

	mux := handlers.DebugMux("test", zap.NewNop().Sugar(), st)

	t.Log("Given the need to check the health of the node.")
	{
		for testID, path := range []string{"/debug/readiness", "/debug/liveness"} {
			t.Logf("\tTest %d:\tWhen checking %s.", testID, path)
			{
				r := httptest.NewRequest(http.MethodGet, path, nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, r)

				if w.Code != http.StatusOK {
					t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200 for the response : %v", failed, testID, w.Code)
				}
				t.Logf("\t%s\tTest %d:\tShould receive a status code of 200 for the response.", success, testID)
			}
		}
	}
}
