package web

import (
	"context"
	"encoding/json"
	"net/http"
)

// Respond converts a Go value to JSON and sends it to the client. If
// statusCode is http.StatusNoContent, no body is written and data is ignored.
func Respond(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	if err := setStatusCode(ctx, statusCode); err != nil {
		return err
	}

	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		return err
	}

	return nil
}

// RespondErrorCtx formats and sends a JSON {"error": message} payload,
// recording statusCode into the request's Values the same way Respond does.
// Used by the error-handling middleware to render a classified error.
func RespondErrorCtx(ctx context.Context, w http.ResponseWriter, message string, statusCode int) error {
	resp := struct {
		Error string `json:"error"`
	}{
		Error: message,
	}

	return Respond(ctx, w, resp, statusCode)
}
