// Package private maintains the group of handlers that control node
// behavior: starting the mining engine and transaction generator, and
// nudging the network transport. These are the admin HTTP surface's
// control endpoints, as distinct from public's read-only queries.
package private

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qcbit/powchain/foundation/blockchain/miner"
	"github.com/qcbit/powchain/foundation/blockchain/network"
	"github.com/qcbit/powchain/foundation/blockchain/txgen"
	"github.com/qcbit/powchain/foundation/web"
)

// Handlers manages the set of control endpoints.
type Handlers struct {
	Log         *zap.SugaredLogger
	Miner       miner.Handle
	TxGenerator txgen.Handle
	Transport   network.Transport
}

type successResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondFailure(ctx context.Context, w http.ResponseWriter, message string) error {
	return web.Respond(ctx, w, successResult{Success: false, Message: message}, http.StatusOK)
}

func respondOK(ctx context.Context, w http.ResponseWriter, message string) error {
	return web.Respond(ctx, w, successResult{Success: true, Message: message}, http.StatusOK)
}

// MinerStart transitions the mining engine to Run(lambda), where lambda is
// the microsecond sleep interval between attempts.
func (h Handlers) MinerStart(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	lambda, err := parseInterval(r, "lambda")
	if err != nil {
		return respondFailure(ctx, w, err.Error())
	}

	h.Miner.Start(lambda)
	return respondOK(ctx, w, "miner started")
}

// TxGeneratorStart transitions the transaction generator to Run(theta),
// where theta is the microsecond sleep interval between attempts.
func (h Handlers) TxGeneratorStart(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	theta, err := parseInterval(r, "theta")
	if err != nil {
		return respondFailure(ctx, w, err.Error())
	}

	h.TxGenerator.Start(theta)
	return respondOK(ctx, w, "transaction generator started")
}

// NetworkPing broadcasts a liveness Ping to every connected peer.
func (h Handlers) NetworkPing(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Transport.Broadcast(network.Ping{Nonce: uuid.NewString()})
	return respondOK(ctx, w, "ping broadcast")
}

func parseInterval(r *http.Request, name string) (uint64, error) {
	raw := r.URL.Query().Get(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("missing or invalid %s query parameter", name)
	}
	return v, nil
}
