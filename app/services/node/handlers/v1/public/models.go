package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/qcbit/powchain/foundation/blockchain/hash"
	"github.com/qcbit/powchain/foundation/blockchain/state"
	"github.com/qcbit/powchain/foundation/web"
)

var errBlockStateMissing = errors.New("no recorded state for that block id")

// result is the uniform envelope for a malformed-query response: a 200 with
// success=false, per the admin HTTP surface's error handling design.
type result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondFailure(ctx context.Context, w http.ResponseWriter, message string) error {
	return web.Respond(ctx, w, result{Success: false, Message: message}, http.StatusOK)
}

// formatAccountLine renders a.String(), nonce, and balance per the
// "<addr>, <nonce>, <balance>" line format.
func formatAccountLine(addr hash.Address, acct state.Account) string {
	return fmt.Sprintf("%s, %d, %d", addr, acct.Nonce, acct.Balance)
}
