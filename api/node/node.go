// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/api/utils"
	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/ledger"
)

type Node struct {
	svc  *ledger.Service
	info Info
}

func New(svc *ledger.Service, info Info) *Node {
	return &Node{
		svc,
		info,
	}
}

func (n *Node) status() *Status {
	seq, ts := n.svc.Head()
	return &Status{
		Info:      n.info,
		GenesisID: n.svc.GenesisID(),
		Seq:       seq,
		Time:      ts,
		Now:       n.svc.Now(),
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, n.status())
}

func (n *Node) handleContracts(w http.ResponseWriter, _ *http.Request) error {
	contracts := make([]*Contract, 0)
	if err := n.svc.View(func(c *builtin.Contracts) error {
		entries, err := c.All()
		if err != nil {
			return err
		}
		for _, e := range entries {
			contracts = append(contracts, &Contract{Address: e.Address, Kind: e.Kind.String(), Name: e.Name})
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, contracts)
}

// handleWarp moves the ledger clock forward. Only available in solo mode.
func (n *Node) handleWarp(w http.ResponseWriter, req *http.Request) error {
	if !n.info.Solo {
		return utils.Forbidden(errors.New("warp is only available in solo mode"))
	}
	var body WarpRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	n.svc.Warp(body.Seconds)
	return utils.WriteJSON(w, n.status())
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
	sub.Path("/contracts").
		Methods(http.MethodGet).
		Name("node_get_contracts").
		HandlerFunc(utils.WrapHandlerFunc(n.handleContracts))
	sub.Path("/warp").
		Methods(http.MethodPost).
		Name("node_warp").
		HandlerFunc(utils.WrapHandlerFunc(n.handleWarp))
}
