// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/unfold"
)

const (
	// maxBodySize limits request bodies, calls are small JSON objects.
	maxBodySize = 200 * 1024

	genesisIDHeader = "X-Genesis-Id"
)

type APIOptions struct {
	Timeout   time.Duration // zero disables the timeout
	GenesisID unfold.Bytes32
}

// Server is an http server bound to a listener.
type Server struct {
	srv      *http.Server
	listener net.Listener
	url      string
}

// Serve blocks until the server is closed. Closing is not an error.
func (s *Server) Serve() error {
	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Close() error {
	return s.srv.Close()
}

func (s *Server) URL() string {
	return s.url
}

func NewAPIServer(addr string, handler http.Handler, opts APIOptions) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if opts.Timeout > 0 {
		handler = handleAPITimeout(handler, opts.Timeout)
	}
	handler = handleXGenesisID(handler, opts.GenesisID)
	handler = requestBodyLimit(handler)

	return &Server{
		srv:      &http.Server{Handler: handler, ReadHeaderTimeout: time.Second},
		listener: listener,
		url:      "http://" + listener.Addr().String() + "/",
	}, nil
}

// handleAPITimeout bounds request handling time. Websocket subscriptions are long lived and left out.
func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	timed := http.TimeoutHandler(h, timeout, "request timeout")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/subscriptions") {
			h.ServeHTTP(w, r)
			return
		}
		timed.ServeHTTP(w, r)
	})
}

// handleXGenesisID rejects requests aimed at another deployment and tags responses with ours.
func handleXGenesisID(h http.Handler, genesisID unfold.Bytes32) http.Handler {
	expected := genesisID.String()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actual := r.Header.Get(genesisIDHeader)
		if actual == "" {
			actual = r.URL.Query().Get("x-genesis-id")
		}
		w.Header().Set(genesisIDHeader, expected)
		if actual != "" && !strings.EqualFold(actual, expected) {
			http.Error(w, "genesis id mismatch", http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		h.ServeHTTP(w, r)
	})
}
