// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emission

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/api/utils"
	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/builtin/emission"
	"github.com/unfoldfi/unfold/ledger"
	"github.com/unfoldfi/unfold/unfold"
)

// Status is the emission schedule of the governance token.
type Status struct {
	Address           unfold.Address `json:"address"`
	Owner             unfold.Address `json:"owner"`
	TotalSupply       *uint256.Int   `json:"totalSupply"`
	NextEmissionTime  uint64         `json:"nextEmissionTime"`
	EmissionPerYearBp uint64         `json:"emissionPerYearBp"`
	AvailableEmission *uint256.Int   `json:"availableEmission"`
}

type ClaimRequest struct {
	Caller unfold.Address `json:"caller"`
}

type RateRequest struct {
	Caller            unfold.Address `json:"caller"`
	EmissionPerYearBp uint64         `json:"emissionPerYearBp"`
}

type OwnerRequest struct {
	Caller   unfold.Address `json:"caller"`
	NewOwner unfold.Address `json:"newOwner"`
}

type Emission struct {
	svc *ledger.Service
}

func New(svc *ledger.Service) *Emission {
	return &Emission{svc}
}

func (e *Emission) handleGetStatus(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	status := &Status{Address: addr}
	if err := e.svc.View(func(c *builtin.Contracts) error {
		l, err := c.Emission(addr)
		if err != nil {
			return err
		}
		if status.Owner, err = l.Owner(); err != nil {
			return err
		}
		if status.TotalSupply, err = l.TotalSupply(); err != nil {
			return err
		}
		if status.NextEmissionTime, err = l.NextEmissionTime(); err != nil {
			return err
		}
		if status.EmissionPerYearBp, err = l.EmissionPerYearBp(); err != nil {
			return err
		}
		status.AvailableEmission, err = l.AvailableEmission()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, status)
}

func (e *Emission) execute(w http.ResponseWriter, addr unfold.Address, method string, fn func(l *emission.Ledger) error) error {
	receipt, err := e.svc.Execute(method, func(c *builtin.Contracts) error {
		l, err := c.Emission(addr)
		if err != nil {
			return err
		}
		return fn(l)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (e *Emission) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	return e.execute(w, addr, "claimEmission", func(l *emission.Ledger) error {
		return l.ClaimEmission(body.Caller)
	})
}

func (e *Emission) handleSetRate(w http.ResponseWriter, req *http.Request) error {
	var body RateRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	return e.execute(w, addr, "setEmissionPerYearBp", func(l *emission.Ledger) error {
		return l.SetEmissionPerYearBp(body.Caller, body.EmissionPerYearBp)
	})
}

func (e *Emission) handleTransferOwnership(w http.ResponseWriter, req *http.Request) error {
	var body OwnerRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	return e.execute(w, addr, "transferOwnership", func(l *emission.Ledger) error {
		return l.TransferOwnership(body.Caller, body.NewOwner)
	})
}

func (e *Emission) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("emission_get_status").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetStatus))
	sub.Path("/{address}/claim").
		Methods(http.MethodPost).
		Name("emission_claim").
		HandlerFunc(utils.WrapHandlerFunc(e.handleClaim))
	sub.Path("/{address}/rate").
		Methods(http.MethodPost).
		Name("emission_set_rate").
		HandlerFunc(utils.WrapHandlerFunc(e.handleSetRate))
	sub.Path("/{address}/owner").
		Methods(http.MethodPost).
		Name("emission_transfer_ownership").
		HandlerFunc(utils.WrapHandlerFunc(e.handleTransferOwnership))
}
