// Package ledgergrp maintains the group of handlers for accessing the
// transaction ledger.
package ledgergrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/scrollsoul/qfs/business/web/errs"
	"github.com/scrollsoul/qfs/foundation/events"
	"github.com/scrollsoul/qfs/foundation/ledger"
	"github.com/scrollsoul/qfs/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log          *zap.SugaredLogger
	Ledger       *ledger.Ledger
	MinerAccount string
	Evts         *events.Events
	WS           websocket.Upgrader
}

// SubmitTransaction adds a new transaction to the pool of uncommitted
// transactions.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app AppNewTx
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	tx := app.toTx()

	h.Log.Infow("add tran", "traceid", v.TraceID, "from", tx.From(), "to", tx.To(), "amount", tx.Amount())

	if err := h.Ledger.SubmitTransaction(tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status      string `json:"status"`
		Uncommitted int    `json:"uncommitted"`
	}{
		Status:      "transaction added to pool",
		Uncommitted: len(h.Ledger.PendingTransactions()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine commits the pool of uncommitted transactions into a new block. The
// proof of work search is bound to the request context so a disconnected
// client abandons the search.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	account := r.URL.Query().Get("account")
	if account == "" {
		account = h.MinerAccount
	}

	block, err := h.Ledger.MineBlockContext(ctx, account)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return errs.NewTrusted(err, http.StatusRequestTimeout)
		}
		return fmt.Errorf("unable to mine block: %w", err)
	}

	h.Log.Infow("mined block", "traceid", v.TraceID, "index", block.Index, "hash", block.Hash, "trans", len(block.Transactions))

	return web.Respond(ctx, w, toAppBlock(block), http.StatusCreated)
}

// Balance returns the computed balance for the specified account.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	resp := struct {
		Account string  `json:"account"`
		Balance float64 `json:"balance"`
	}{
		Account: account,
		Balance: h.Ledger.BalanceOf(account),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Info returns chain level information including a full validity check.
func (h Handlers) Info(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Ledger.ChainInfo(), http.StatusOK)
}

// Blocks returns every block in the chain, genesis first.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toAppBlocks(h.Ledger.Blocks()), http.StatusOK)
}

// Uncommitted returns the current pool of uncommitted transactions.
func (h Handlers) Uncommitted(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.Ledger.PendingTransactions()

	resp := struct {
		Count        int         `json:"count"`
		Transactions []ledger.Tx `json:"transactions"`
	}{
		Count:        len(txs),
		Transactions: txs,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	h.Log.Infow("websocket open", "traceid", v.TraceID)

	// Set the pong handler to log the receiving of a pong.
	f := func(appData string) error {
		h.Log.Infow("websocket pong", "traceid", v.TraceID)
		return nil
	}
	c.SetPongHandler(f)

	// This provides a channel for receiving events from the ledger.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
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
