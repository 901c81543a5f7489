// Package mid contains the set of middleware functions shared across the
// public and private handler groups.
package mid

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	v1 "github.com/qcbit/powchain/business/web/v1"
	"github.com/qcbit/powchain/foundation/validate"
	"github.com/qcbit/powchain/foundation/web"
)

// Errors handles errors coming out of the call chain. It detects normal
// application errors which are used to respond to the client in a uniform
// way. Unexpected errors (status code 500) are logged and a generic message
// is returned to the client, to avoid leaking internals.
func Errors(log *zap.SugaredLogger) web.Midware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if err := handler(ctx, w, r); err != nil {
				traceID := web.GetTraceID(ctx)
				log.Errorw("handled error", "traceid", traceID, "ERROR", err)

				var status int
				var msg string

				switch {
				case v1.IsRequestError(err):
					reqErr := v1.GetRequestError(err)
					status = reqErr.Status
					msg = reqErr.Error()

				default:
					if fe, ok := err.(validate.FieldErrors); ok {
						status = http.StatusBadRequest
						msg = fe.Error()
					} else {
						status = http.StatusInternalServerError
						msg = http.StatusText(status)
					}
				}

				if err := web.RespondErrorCtx(ctx, w, msg, status); err != nil {
					return err
				}

				if status == http.StatusInternalServerError {
					return err
				}
			}

			return nil
		}

		return h
	}

	return m
}
