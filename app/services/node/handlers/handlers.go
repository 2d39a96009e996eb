// Package handlers manages the different versions of the API.
package handlers

import (
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/scrollsoul/qfs/app/services/node/handlers/debug/checkgrp"
	v1 "github.com/scrollsoul/qfs/app/services/node/handlers/v1"
	"github.com/scrollsoul/qfs/business/core/compliance"
	"github.com/scrollsoul/qfs/business/core/distribute"
	"github.com/scrollsoul/qfs/business/core/portal"
	"github.com/scrollsoul/qfs/business/web/v1/mid"
	"github.com/scrollsoul/qfs/foundation/events"
	"github.com/scrollsoul/qfs/foundation/ledger"
	"github.com/scrollsoul/qfs/foundation/web"
	"go.uber.org/zap"
)

// APIMuxConfig contains all the mandatory systems required by handlers.
type APIMuxConfig struct {
	Shutdown        chan os.Signal
	Log             *zap.SugaredLogger
	Ledger          *ledger.Ledger
	MinerAccount    string
	TreasuryAccount string
	Evts            *events.Events
	Distributor     *distribute.Distributor
	Checker         *compliance.Checker
	Registry        *portal.Registry
}

// APIMux constructs a http.Handler with all application routes defined.
func APIMux(cfg APIMuxConfig) http.Handler {
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(),
		mid.Cors("*"),
		mid.Panics(),
	)

	v1.Routes(app, v1.Config{
		Log:             cfg.Log,
		Ledger:          cfg.Ledger,
		MinerAccount:    cfg.MinerAccount,
		TreasuryAccount: cfg.TreasuryAccount,
		Evts:            cfg.Evts,
		Distributor:     cfg.Distributor,
		Checker:         cfg.Checker,
		Registry:        cfg.Registry,
	})

	return app
}

// DebugStandardLibraryMux registers all the debug routes from the standard
// library into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes and then custom
// debug application routes for the service.
func DebugMux(build string, log *zap.SugaredLogger) http.Handler {
	mux := DebugStandardLibraryMux()

	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}
