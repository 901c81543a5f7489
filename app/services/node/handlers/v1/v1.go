// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/qcbit/powchain/app/services/node/handlers/v1/private"
	"github.com/qcbit/powchain/app/services/node/handlers/v1/public"
	"github.com/qcbit/powchain/business/web/v1/mid"
	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/miner"
	"github.com/qcbit/powchain/foundation/blockchain/network"
	"github.com/qcbit/powchain/foundation/blockchain/state"
	"github.com/qcbit/powchain/foundation/blockchain/txgen"
	"github.com/qcbit/powchain/foundation/web"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log           *zap.SugaredLogger
	Chain         *chain.Chain
	StatePerBlock *state.PerBlock
	Miner         miner.Handle
	TxGenerator   txgen.Handle
	Transport     network.Transport
}

// PublicRoutes binds all the version 1 public, read-only routes.
func PublicRoutes(app *web.App, cfg Config) {
	errs := mid.Errors(cfg.Log)

	pbl := public.Handlers{
		Log:           cfg.Log,
		Chain:         cfg.Chain,
		StatePerBlock: cfg.StatePerBlock,
	}

	app.Handle(http.MethodGet, version, "/blockchain/longest-chain", pbl.LongestChain, errs)
	app.Handle(http.MethodGet, version, "/blockchain/longest-chain-tx", pbl.LongestChainTx, errs)
	app.Handle(http.MethodGet, version, "/blockchain/state", pbl.State, errs)
}

// PrivateRoutes binds all the version 1 control routes: starting the miner
// and transaction generator, and nudging the network transport.
func PrivateRoutes(app *web.App, cfg Config) {
	errs := mid.Errors(cfg.Log)

	prv := private.Handlers{
		Log:         cfg.Log,
		Miner:       cfg.Miner,
		TxGenerator: cfg.TxGenerator,
		Transport:   cfg.Transport,
	}

	app.Handle(http.MethodPost, version, "/miner/start", prv.MinerStart, errs)
	app.Handle(http.MethodPost, version, "/tx-generator/start", prv.TxGeneratorStart, errs)
	app.Handle(http.MethodPost, version, "/network/ping", prv.NetworkPing, errs)
}
