// Package public maintains the group of read only explorer handlers.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of explorer endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Chain returns every block with names resolved for known addresses.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	snap, err := h.State.RetrieveSnapshot()
	if err != nil {
		return err
	}

	blocks := make([]block, len(snap.Chain))
	for i, blk := range snap.Chain {
		blocks[i] = toBlock(h.NS, blk)
	}

	ch := chain{
		Length:       len(snap.Chain),
		Difficulty:   snap.Difficulty,
		MiningReward: snap.MiningReward,
		Pending:      len(snap.PendingTransactions),
		Blocks:       blocks,
	}

	return web.Respond(ctx, w, ch, http.StatusOK)
}

// LatestBlock returns the block at the tip of the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.State.RetrieveLatestBlock()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, toBlock(h.NS, blk), http.StatusOK)
}

// ValidateChain reports whether the chain passes a full validation.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var val validation

	switch err := h.State.ValidateChain(); err {
	case nil:
		val.Valid = true
	default:
		val.Error = err.Error()
	}

	return web.Respond(ctx, w, val, http.StatusOK)
}

// Balance returns the balance of the address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")
	if address == "" {
		return errs.NewRequestError(errors.New("address is required"), http.StatusBadRequest)
	}

	bal := balance{
		Address: address,
		Name:    h.NS.Lookup(address),
		Balance: h.State.QueryBalance(address),
	}

	return web.Respond(ctx, w, bal, http.StatusOK)
}

// Mempool returns the set of pending transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := toTxs(h.NS, h.State.RetrieveMempool())
	return web.Respond(ctx, w, trans, http.StatusOK)
}
