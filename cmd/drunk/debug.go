package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	jlog "github.com/luno/jettison/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func createDebugRouter(g prometheus.Gatherer) *httprouter.Router {
	r := httprouter.New()
	r.Handler(http.MethodGet, "/debug/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.HandlerFunc(http.MethodGet, "/debug/ready", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	return r
}

func runDebugServer(ctx context.Context, router *httprouter.Router, addr string) error {
	srv := &http.Server{
		BaseContext: func(listener net.Listener) context.Context { return ctx },
		Handler:     router,
		Addr:        addr,
	}
	go stopOnDone(ctx, srv)
	jlog.Info(ctx, "debug server listening", j.KV("address", addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "debug server", j.KV("address", addr))
	}
	jlog.Info(ctx, "debug server terminated", j.KV("address", addr))
	return nil
}

// stopOnDone gives in-flight metric scrapes a grace period once the run
// is over.
func stopOnDone(ctx context.Context, srv *http.Server) {
	<-ctx.Done()
	grace, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	jlog.Info(grace, "stopping debug server", j.KV("address", srv.Addr))
	if err := srv.Shutdown(grace); err != nil {
		jlog.Error(grace, errors.Wrap(err, "debug server shutdown", j.KV("address", srv.Addr)))
	}
}
