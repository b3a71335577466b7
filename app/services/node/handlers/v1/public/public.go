// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	v1 "github.com/minichain/ledger/business/web/v1"
	"github.com/minichain/ledger/foundation/events"
	"github.com/minichain/ledger/foundation/ledger/database"
	"github.com/minichain/ledger/foundation/ledger/state"
	"github.com/minichain/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
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

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nt newTx
	if err := web.Decode(r, &nt); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	dbTx := database.NewTx(nt.Sender, nt.Receiver, nt.Amount)

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", dbTx.Sender, "receiver", dbTx.Receiver, "amount", dbTx.Amount)
	if err := h.State.SubmitTransaction(dbTx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		Tx     tx     `json:"tx"`
	}{
		Status: "transaction added to mempool",
		Tx:     toTx(dbTx),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()

	trans := make([]tx, len(mempool))
	for i, tran := range mempool {
		trans[i] = toTx(tran)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Blocks returns the blocks in the chain, oldest first.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks, err := h.State.RetrieveBlocks()
	if err != nil {
		return err
	}

	blocks := make([]block, len(dbBlocks))
	for i, blockData := range dbBlocks {
		blocks[i] = toBlock(blockData)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlockByNumber returns a single block and its transactions.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("invalid block number: %w", err), http.StatusBadRequest)
	}

	dbBlock, err := h.State.RetrieveBlock(num)
	if err != nil {
		return v1.NewRequestError(err, http.StatusNotFound)
	}

	return web.Respond(ctx, w, toBlock(database.NewBlockData(dbBlock)), http.StatusOK)
}

// Transactions returns every committed transaction, oldest first.
func (h Handlers) Transactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbTrans, err := h.State.RetrieveAllTransactions()
	if err != nil {
		return err
	}

	trans := make([]tx, len(dbTrans))
	for i, tran := range dbTrans {
		trans[i] = toTx(tran)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Validate audits the whole chain and reports any infractions found.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbInfractions, err := h.State.ValidateChain()
	if err != nil {
		return err
	}

	infractions := make([]infraction, len(dbInfractions))
	for i, inf := range dbInfractions {
		infractions[i] = infraction{
			Number: inf.Number,
			Check:  inf.Check,
			Detail: inf.Detail,
		}
	}

	resp := validation{
		Valid:       len(infractions) == 0,
		Height:      h.State.RetrieveHeight(),
		Infractions: infractions,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Proof returns a merkle proof of inclusion for the specified transaction.
func (h Handlers) Proof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("invalid block number: %w", err), http.StatusBadRequest)
	}
	txID := web.Param(r, "id")

	dbBlock, err := h.State.RetrieveBlock(num)
	if err != nil {
		return v1.NewRequestError(err, http.StatusNotFound)
	}
	if dbBlock.Trans == nil {
		return v1.NewRequestError(errors.New("block has no transactions"), http.StatusNotFound)
	}

	var dbTx database.Tx
	var found bool
	for _, tran := range dbBlock.Trans.Values() {
		if tran.ID == txID {
			dbTx = tran
			found = true
			break
		}
	}
	if !found {
		return v1.NewRequestError(fmt.Errorf("transaction %q not in block %d", txID, num), http.StatusNotFound)
	}

	merkleProof, order, err := dbBlock.Trans.Proof(dbTx)
	if err != nil {
		return err
	}

	proofHex := make([]string, len(merkleProof))
	for i, p := range merkleProof {
		proofHex[i] = hexutil.Encode(p)
	}

	resp := proof{
		Block:     num,
		TransRoot: dbBlock.Header.TransRoot,
		Tx:        toTx(dbTx),
		Proof:     proofHex,
		Order:     order,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalMining signals a background mining operation for any pending
// transactions in the mempool.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker == nil {
		return v1.NewRequestError(errors.New("no background worker running"), http.StatusServiceUnavailable)
	}
	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
