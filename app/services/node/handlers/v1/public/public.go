// Package public maintains the group of handlers for read-only access to
// the blockchain: the longest chain, its transactions, and per-block
// account state. Every handler copies state out from under its guarding
// mutex before formatting a response, so a concurrent admission never shows
// through as a partially updated read.
package public

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"go.uber.org/zap"

	v1 "github.com/qcbit/powchain/business/web/v1"
	"github.com/qcbit/powchain/foundation/blockchain/chain"
	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/state"
	"github.com/qcbit/powchain/foundation/web"
)

// Handlers manages the set of read-only blockchain endpoints.
type Handlers struct {
	Log           *zap.SugaredLogger
	Chain         *chain.Chain
	StatePerBlock *state.PerBlock
}

// LongestChain returns the hex ids of every block on the longest chain,
// genesis first.
func (h Handlers) LongestChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.Chain.AllBlocksInLongestChain()

	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID().String()
	}

	return web.Respond(ctx, w, ids, http.StatusOK)
}

// LongestChainTx returns the hex ids of every transaction on the longest
// chain, grouped by block in chain order.
func (h Handlers) LongestChainTx(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	perBlock := h.Chain.AllTransactionsInLongestChain()

	ids := make([][]string, len(perBlock))
	for i, txs := range perBlock {
		row := make([]string, 0, len(txs))
		for _, stx := range txs {
			id, err := stx.Hash()
			if err != nil {
				continue
			}
			row = append(row, id.String())
		}
		ids[i] = row
	}

	return web.Respond(ctx, w, ids, http.StatusOK)
}

// State returns the account state at the block selected by the "block"
// query parameter, an index into the longest chain (0 = genesis). Lines are
// formatted "<addr>, <nonce>, <balance>" and sorted lexicographically by
// address, matching the stable comparison needed to diff two nodes' views.
func (h Handlers) State(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	indexStr := r.URL.Query().Get("block")
	if indexStr == "" {
		return respondFailure(ctx, w, "missing required query parameter: block")
	}

	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		return respondFailure(ctx, w, "block must be a non-negative integer")
	}

	blocks := h.Chain.AllBlocksInLongestChain()
	if index >= len(blocks) {
		return respondFailure(ctx, w, "block index out of range")
	}

	s, ok := h.StatePerBlock.Get(blocks[index].ID())
	if !ok {
		return v1.NewRequestError(errBlockStateMissing, http.StatusInternalServerError)
	}

	addrs := make([]hash.Address, 0, len(s))
	for addr := range s {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].String() < addrs[j].String()
	})

	lines := make([]string, len(addrs))
	for i, addr := range addrs {
		acct := s[addr]
		lines[i] = formatAccountLine(addr, acct)
	}

	return web.Respond(ctx, w, lines, http.StatusOK)
}
