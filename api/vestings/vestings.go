// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vestings

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/api/utils"
	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/ledger"
	"github.com/unfoldfi/unfold/unfold"
)

type Vesting struct {
	Address     unfold.Address `json:"address"`
	Beneficiary unfold.Address `json:"beneficiary"`
	Start       uint64         `json:"start"`
	Cliff       uint64         `json:"cliff"`
	Duration    uint64         `json:"duration"`
	Token       unfold.Address `json:"token"`
	Released    *uint256.Int   `json:"released"`
	Releasable  *uint256.Int   `json:"releasable"`
}

// ReleaseRequest releases the vested Token. Anyone may call it, the beneficiary receives the tokens.
type ReleaseRequest struct {
	Token unfold.Address `json:"token"`
}

type Vestings struct {
	svc *ledger.Service
}

func New(svc *ledger.Service) *Vestings {
	return &Vestings{svc}
}

func (v *Vestings) handleGetVesting(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	tok, err := utils.AddressQuery(req, "token")
	if err != nil {
		return err
	}
	res := &Vesting{Address: addr, Token: tok}
	if err := v.svc.View(func(c *builtin.Contracts) error {
		vst, err := c.Vesting(addr)
		if err != nil {
			return err
		}
		s, err := vst.Schedule()
		if err != nil {
			return err
		}
		res.Beneficiary, res.Start, res.Cliff, res.Duration = s.Beneficiary, s.Start, s.Cliff, s.Duration
		if res.Released, err = vst.Released(tok); err != nil {
			return err
		}
		res.Releasable, err = vst.Releasable(tok)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (v *Vestings) handleRelease(w http.ResponseWriter, req *http.Request) error {
	var body ReleaseRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	receipt, err := v.svc.Execute("release", func(c *builtin.Contracts) error {
		vst, err := c.Vesting(addr)
		if err != nil {
			return err
		}
		return vst.Release(body.Token)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (v *Vestings) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("vestings_get_vesting").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVesting))
	sub.Path("/{address}/release").
		Methods(http.MethodPost).
		Name("vestings_release").
		HandlerFunc(utils.WrapHandlerFunc(v.handleRelease))
}
