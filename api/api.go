// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/unfoldfi/unfold/api/emission"
	"github.com/unfoldfi/unfold/api/middleware"
	"github.com/unfoldfi/unfold/api/node"
	"github.com/unfoldfi/unfold/api/pools"
	"github.com/unfoldfi/unfold/api/subscriptions"
	"github.com/unfoldfi/unfold/api/tokens"
	"github.com/unfoldfi/unfold/api/vestings"
	"github.com/unfoldfi/unfold/ledger"
	"github.com/unfoldfi/unfold/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	BacktraceLimit       uint64
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	Info                 node.Info
}

// New return api router
func New(svc *ledger.Service, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pools.New(svc).
		Mount(router, "/pools")
	tokens.New(svc).
		Mount(router, "/tokens")
	emission.New(svc).
		Mount(router, "/emission")
	vestings.New(svc).
		Mount(router, "/vestings")
	node.New(svc, opts.Info).
		Mount(router, "/node")
	subs := subscriptions.New(svc, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
