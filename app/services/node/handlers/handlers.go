// Package handlers manages the different versions of the API and builds the
// node's HTTP muxes: the debug mux, and the admin mux that carries the public
// and private routes together on the node's one admin listener. PublicMux
// and PrivateMux build each route group on its own.
package handlers

import (
	"context"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"go.uber.org/zap"

	v1 "github.com/qcbit/powchain/app/services/node/handlers/v1"
	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/miner"
	"github.com/qcbit/powchain/foundation/blockchain/network"
	"github.com/qcbit/powchain/foundation/blockchain/state"
	"github.com/qcbit/powchain/foundation/blockchain/txgen"
	"github.com/qcbit/powchain/foundation/web"
)

// DebugMux registers the standard library's pprof and expvar endpoints
// alongside a /debug/build route, for the operator-facing debug listener.
func DebugMux(build string, log *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	mux.HandleFunc("/debug/build", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(build))
	})

	return mux
}

// MuxConfig contains all the mandatory systems required by the public and
// private muxes.
type MuxConfig struct {
	Shutdown      chan os.Signal
	Log           *zap.SugaredLogger
	Chain         *chain.Chain
	StatePerBlock *state.PerBlock
	Miner         miner.Handle
	TxGenerator   txgen.Handle
	Transport     network.Transport
}

// PublicMux constructs the mux for the public, read-only API calls.
func PublicMux(cfg MuxConfig) http.Handler {
	app := web.NewApp(cfg.Shutdown)

	v1.PublicRoutes(app, v1.Config{
		Log:           cfg.Log,
		Chain:         cfg.Chain,
		StatePerBlock: cfg.StatePerBlock,
	})

	notFound(app)
	return app
}

// PrivateMux constructs the mux for the control API calls.
func PrivateMux(cfg MuxConfig) http.Handler {
	app := web.NewApp(cfg.Shutdown)

	v1.PrivateRoutes(app, v1.Config{
		Log:         cfg.Log,
		Miner:       cfg.Miner,
		TxGenerator: cfg.TxGenerator,
		Transport:   cfg.Transport,
	})

	notFound(app)
	return app
}

// AdminMux constructs the single mux the node's one admin listener serves:
// every public read-only route and every private control route together,
// matching the admin HTTP surface's one-address external interface.
func AdminMux(cfg MuxConfig) http.Handler {
	app := web.NewApp(cfg.Shutdown)

	v1.PublicRoutes(app, v1.Config{
		Log:           cfg.Log,
		Chain:         cfg.Chain,
		StatePerBlock: cfg.StatePerBlock,
	})
	v1.PrivateRoutes(app, v1.Config{
		Log:         cfg.Log,
		Miner:       cfg.Miner,
		TxGenerator: cfg.TxGenerator,
		Transport:   cfg.Transport,
	})

	notFound(app)
	return app
}

// notFound registers the catch-all 404 JSON response for any path that
// falls outside the registered routes.
func notFound(app *web.App) {
	app.NotFound(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.RespondErrorCtx(ctx, w, "resource not found", http.StatusNotFound)
	})
}
