// Package treasurygrp maintains the group of handlers for treasury
// operations: distributions, compliance checks and portal bookkeeping.
package treasurygrp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/scrollsoul/qfs/business/core/compliance"
	"github.com/scrollsoul/qfs/business/core/distribute"
	"github.com/scrollsoul/qfs/business/core/portal"
	"github.com/scrollsoul/qfs/business/web/errs"
	"github.com/scrollsoul/qfs/foundation/ledger"
	"github.com/scrollsoul/qfs/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of treasury endpoints.
type Handlers struct {
	Log             *zap.SugaredLogger
	Ledger          *ledger.Ledger
	TreasuryAccount string
	Distributor     *distribute.Distributor
	Checker         *compliance.Checker
	Registry        *portal.Registry
}

// Distribute runs a distribution and submits the resulting batch of
// transactions to the pool of uncommitted transactions.
func (h Handlers) Distribute(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app AppDistribution
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	allocation, err := h.Distributor.Distribute(*app.TotalAmount, toParticipants(app.Participants), app.Strategy)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	txType := app.Type
	if txType == "" {
		txType = "distribution"
	}

	txs := distribute.Transactions(h.TreasuryAccount, allocation, txType)
	for _, tx := range txs {
		if err := h.Ledger.SubmitTransaction(tx); err != nil {
			return fmt.Errorf("unable to submit distribution tran: %w", err)
		}
	}

	h.Log.Infow("distribution", "traceid", v.TraceID, "total", *app.TotalAmount, "recipients", len(txs))

	resp := struct {
		Status     string             `json:"status"`
		Submitted  int                `json:"submitted"`
		Allocation map[string]float64 `json:"allocation"`
		Gini       float64            `json:"gini_coefficient"`
	}{
		Status:     "distribution submitted to pool",
		Submitted:  len(txs),
		Allocation: allocation,
		Gini:       distribute.Gini(allocation),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Stats returns the aggregate treasury statistics across distributions,
// compliance checks and portals.
func (h Handlers) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Treasury     string             `json:"treasury_account"`
		Balance      float64            `json:"treasury_balance"`
		Distribution distribute.Stats   `json:"distribution"`
		Compliance   compliance.Summary `json:"compliance"`
		Portals      portal.Report      `json:"portals"`
	}{
		Treasury:     h.TreasuryAccount,
		Balance:      h.Ledger.BalanceOf(h.TreasuryAccount),
		Distribution: h.Distributor.Stats(),
		Compliance:   h.Checker.Summary(),
		Portals:      h.Registry.Report(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// CheckCompliance runs the rule set against a transaction document.
func (h Handlers) CheckCompliance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var app AppComplianceCheck
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	report := h.Checker.Check(app.EntityID, app.Transaction)

	return web.Respond(ctx, w, report, http.StatusOK)
}

// Rules returns the fixed compliance rule set.
func (h Handlers) Rules(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, compliance.Rules(), http.StatusOK)
}

// AnchorPortal registers a new abundance portal, optionally activating it
// in the same call.
func (h Handlers) AnchorPortal(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app AppNewPortal
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	p, err := h.Registry.Anchor(app.ID, app.Dimension, *app.Capacity, app.Coordinates)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if app.Activate {
		if err := h.Registry.Activate(app.ID); err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		p.Status = portal.StatusActive
	}

	h.Log.Infow("portal anchored", "traceid", v.TraceID, "portal", p.ID, "dimension", p.Dimension, "active", app.Activate)

	return web.Respond(ctx, w, p, http.StatusCreated)
}

// Portals returns the registered portals and a registry report.
func (h Handlers) Portals(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Portals []portal.Portal `json:"portals"`
		Report  portal.Report   `json:"report"`
	}{
		Portals: h.Registry.Portals(),
		Report:  h.Registry.Report(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
