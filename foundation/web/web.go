// Package web provides a thin layer of support for writing a web service. It
// integrates with the standard library's net/http as directly as possible
// and provides support for:
//   - Routing via httptreemux.
//   - Context support with trace id, start time, and response status code.
//   - Graceful, signal driven shutdown via a shutdown error sentinel.
package web

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/dimfeld/httptreemux/v5"
	"github.com/google/uuid"
)

// A Handler is a type that handles an http request within our own little
// mini framework, returning an error so middleware and top-level error
// handling can act on it consistently.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// Midware is a function designed to run some code before and/or after
// another Handler, wrapping it into a new Handler. Registered middleware is
// applied in the order given to Handle, outermost first.
type Midware func(Handler) Handler

// wrapMidware composes mw around handler so the first middleware in the
// slice runs outermost.
func wrapMidware(handler Handler, mw []Midware) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			handler = mw[i](handler)
		}
	}
	return handler
}

// App is the entrypoint into our application and what configures our
// context object for each of our http handlers. It is a thin wrapper around
// an httptreemux.ContextMux.
type App struct {
	mux      *httptreemux.ContextMux
	shutdown chan os.Signal
}

// NewApp creates an App value that handles a set of routes for the
// application. shutdown is the channel that receives OS termination signals
// so a handler can trigger a graceful shutdown by returning a shutdown
// error.
func NewApp(shutdown chan os.Signal) *App {
	return &App{
		mux:      httptreemux.NewContextMux(),
		shutdown: shutdown,
	}
}

// ServeHTTP implements the http.Handler interface, allowing an App value to
// be passed directly to http.Server.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// SignalShutdown is used to gracefully shut down the app when an integrity
// issue is identified inside a handler.
func (a *App) SignalShutdown() {
	a.shutdown <- syscall.SIGTERM
}

// NotFound registers the handler invoked for any path that falls outside
// every route registered via Handle.
func (a *App) NotFound(handler Handler) {
	a.mux.NotFoundHandler = func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), key, &Values{TraceID: uuid.NewString(), Now: time.Now()})
		handler(ctx, w, r)
	}
}

// Handle sets a handler function for a given http method and path pair to
// the application server mux. version is prefixed onto path so every route
// lives under its own api version. Middleware, if any, is applied around
// handler in the order given (first entry outermost).
func (a *App) Handle(method string, version string, path string, handler Handler, mw ...Midware) {
	handler = wrapMidware(handler, mw)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		v := Values{
			TraceID: uuid.NewString(),
			Now:     time.Now(),
		}
		ctx = context.WithValue(ctx, key, &v)

		if err := handler(ctx, w, r); err != nil {
			if isShutdown(err) {
				a.SignalShutdown()
			}
			return
		}
	}

	finalPath := path
	if version != "" {
		finalPath = "/" + version + path
	}

	a.mux.Handle(method, finalPath, h)
}
