// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/scrollsoul/qfs/app/services/node/handlers/v1/ledgergrp"
	"github.com/scrollsoul/qfs/app/services/node/handlers/v1/treasurygrp"
	"github.com/scrollsoul/qfs/business/core/compliance"
	"github.com/scrollsoul/qfs/business/core/distribute"
	"github.com/scrollsoul/qfs/business/core/portal"
	"github.com/scrollsoul/qfs/foundation/events"
	"github.com/scrollsoul/qfs/foundation/ledger"
	"github.com/scrollsoul/qfs/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log             *zap.SugaredLogger
	Ledger          *ledger.Ledger
	MinerAccount    string
	TreasuryAccount string
	Evts            *events.Events
	Distributor     *distribute.Distributor
	Checker         *compliance.Checker
	Registry        *portal.Registry
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	lgh := ledgergrp.Handlers{
		Log:          cfg.Log,
		Ledger:       cfg.Ledger,
		MinerAccount: cfg.MinerAccount,
		Evts:         cfg.Evts,
	}
	app.Handle(http.MethodPost, version, "/tx", lgh.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/tx/uncommitted", lgh.Uncommitted)
	app.Handle(http.MethodPost, version, "/mine", lgh.Mine)
	app.Handle(http.MethodGet, version, "/balance/:account", lgh.Balance)
	app.Handle(http.MethodGet, version, "/info", lgh.Info)
	app.Handle(http.MethodGet, version, "/blocks", lgh.Blocks)
	app.Handle(http.MethodGet, version, "/events", lgh.Events)

	tgh := treasurygrp.Handlers{
		Log:             cfg.Log,
		Ledger:          cfg.Ledger,
		TreasuryAccount: cfg.TreasuryAccount,
		Distributor:     cfg.Distributor,
		Checker:         cfg.Checker,
		Registry:        cfg.Registry,
	}
	app.Handle(http.MethodPost, version, "/treasury/distribute", tgh.Distribute)
	app.Handle(http.MethodGet, version, "/treasury/stats", tgh.Stats)
	app.Handle(http.MethodPost, version, "/compliance", tgh.CheckCompliance)
	app.Handle(http.MethodGet, version, "/compliance/rules", tgh.Rules)
	app.Handle(http.MethodPost, version, "/portals", tgh.AnchorPortal)
	app.Handle(http.MethodGet, version, "/portals", tgh.Portals)
}
