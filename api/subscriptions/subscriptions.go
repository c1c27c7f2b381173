// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/api/utils"
	"github.com/unfoldfi/unfold/ledger"
	"github.com/unfoldfi/unfold/log"
	"github.com/unfoldfi/unfold/unfold"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	svc            *ledger.Service
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

func New(svc *ledger.Service, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		svc:            svc,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parseFilter builds the filter from the contract and name query parameters.
func parseFilter(req *http.Request) (*Filter, error) {
	f := &Filter{Name: req.URL.Query().Get("name")}
	if s := req.URL.Query().Get("contract"); s != "" {
		addr, err := unfold.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "contract"))
		}
		f.Contract = addr
	}
	return f, nil
}

// parsePosition returns the sequence after which receipts are streamed. It defaults to the head.
func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	head, _ := s.svc.Head()
	pos, err := utils.Uint64Query(req, "pos", head)
	if err != nil {
		return 0, err
	}
	if pos > head {
		return 0, utils.BadRequest(errors.New("pos: out of range"))
	}
	if head-pos > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return pos, nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	pos, err := s.parsePosition(req)
	if err != nil {
		return err
	}
	filter, err := parseFilter(req)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	var closeMsg []byte
	defer func() {
		if closeMsg == nil {
			closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		}
		if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)); err != nil {
			logger.Debug("write close message", "err", err)
		}
		conn.Close()
	}()

	if err := s.pipe(conn, NewReader(s.svc, pos, filter)); err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader *Reader) error {
	// read and discard so that pong and close frames are processed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		// take the waiter before reading, so a commit in between is not missed
		ticker := s.svc.Ticker()
		msgs, err := reader.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return nil
			}
		}
		if len(msgs) > 0 {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker:
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		}
	}
}

// Close terminates all subscriptions and waits for their handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipts").
		Methods(http.MethodGet).
		Name("subscriptions_receipts").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
