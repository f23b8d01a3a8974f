// Package session handles the framed request/response sessions clients open
// against the node.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/protocol"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Set of success messages sent back to clients.
const (
	msgTxAdded     = "transaction added to the pending pool"
	msgBlockMined  = "new block mined and added to the chain, miner: %s"
	msgNothingMine = "no pending transactions to mine, no block was created"
)

// Handlers serves client sessions against the shared ledger state.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Serve runs one session until the client sends a zero length frame, the
// connection fails or the context is cancelled. A malformed request gets an
// Error reply and the session continues.
func (h Handlers) Serve(ctx context.Context, conn net.Conn) {
	traceID := uuid.NewString()
	remote := conn.RemoteAddr().String()

	h.Log.Infow("session", "traceid", traceID, "status", "started", "remoteaddr", remote)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	requests, err := h.serve(traceID, conn)

	switch {
	case err == nil:
		h.Log.Infow("session", "traceid", traceID, "status", "closed by client", "remoteaddr", remote, "requests", requests)
	case errors.Is(err, io.EOF):
		h.Log.Infow("session", "traceid", traceID, "status", "client disconnected", "remoteaddr", remote, "requests", requests)
	default:
		h.Log.Errorw("session", "traceid", traceID, "status", "terminated", "remoteaddr", remote, "requests", requests, "ERROR", err)
	}
}

// serve runs the read, dispatch, write loop and returns the number of
// requests answered. A nil error means the client ended the session.
func (h Handlers) serve(traceID string, conn net.Conn) (int, error) {
	var requests int

	for {
		payload, err := protocol.ReadFrame(conn)
		if err != nil {
			if errors.Is(err, protocol.ErrSessionClosed) {
				return requests, nil
			}
			return requests, err
		}

		var resp protocol.Response

		req, err := protocol.DecodeRequest(payload)
		switch {
		case err != nil:
			h.Log.Infow("session", "traceid", traceID, "status", "malformed request", "ERROR", err)
			resp = protocol.NewError(fmt.Sprintf("invalid request format: %s", err))

		default:
			h.Log.Infow("session", "traceid", traceID, "request", req.Kind)
			resp = h.Dispatch(req)
		}

		reply, err := protocol.EncodeResponse(resp)
		if err != nil {
			return requests, fmt.Errorf("encoding response: %w", err)
		}

		if err := protocol.WriteFrame(conn, reply); err != nil {
			return requests, err
		}

		requests++
	}
}

// Dispatch performs the request against the ledger and returns the reply.
// Failures are reported as an Error reply.
func (h Handlers) Dispatch(req protocol.Request) protocol.Response {
	switch req.Kind {
	case protocol.AddTransaction:
		if err := h.State.SubmitTransaction(req.Tx); err != nil {
			return protocol.NewError(err.Error())
		}
		return protocol.NewSuccess(msgTxAdded)

	case protocol.MineBlock:
		_, err := h.State.MinePendingTransactions(req.Address)
		switch {
		case errors.Is(err, database.ErrNoTransactions):
			return protocol.NewSuccess(msgNothingMine)
		case err != nil:
			return protocol.NewError(err.Error())
		}
		return protocol.NewSuccess(fmt.Sprintf(msgBlockMined, req.Address))

	case protocol.GetBalance:
		return protocol.NewBalance(h.State.QueryBalance(req.Address))

	case protocol.GetChain:
		snap, err := h.State.RetrieveSnapshot()
		if err != nil {
			return protocol.NewError(err.Error())
		}
		return protocol.NewBlockchain(snap)

	case protocol.GenerateWallet:
		w, err := wallet.New()
		if err != nil {
			return protocol.NewError(err.Error())
		}
		return protocol.NewWallet(protocol.WalletKeys{
			Address:    w.Address,
			PrivateKey: w.PrivateKeyHex(),
			PublicKey:  w.PublicKeyHex(),
		})
	}

	return protocol.NewError(fmt.Sprintf("unsupported request %q", req.Kind))
}
