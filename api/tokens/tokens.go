// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/api/utils"
	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/builtin/token"
	"github.com/unfoldfi/unfold/ledger"
	"github.com/unfoldfi/unfold/unfold"
)

type Tokens struct {
	svc *ledger.Service
}

func New(svc *ledger.Service) *Tokens {
	return &Tokens{svc}
}

func getToken(c *builtin.Contracts, entry *builtin.Entry) (*Token, error) {
	tok, err := c.Token(entry.Address)
	if err != nil {
		return nil, err
	}
	meta, err := tok.Metadata()
	if err != nil {
		return nil, err
	}
	supply, err := tok.TotalSupply()
	if err != nil {
		return nil, err
	}
	return &Token{
		Address:     entry.Address,
		Kind:        entry.Kind.String(),
		Name:        meta.Name,
		Symbol:      meta.Symbol,
		Decimals:    meta.Decimals,
		TotalSupply: supply,
	}, nil
}

func newAmount(v *uint256.Int, meta *token.Metadata) *Amount {
	return &Amount{
		Value:     v,
		Formatted: unfold.FormatUnits(v.ToBig(), int32(meta.Decimals)),
	}
}

func (t *Tokens) handleGetTokens(w http.ResponseWriter, _ *http.Request) error {
	tokens := make([]*Token, 0)
	if err := t.svc.View(func(c *builtin.Contracts) error {
		entries, err := c.All()
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Kind != builtin.KindToken && e.Kind != builtin.KindEmission {
				continue
			}
			tok, err := getToken(c, e)
			if err != nil {
				return err
			}
			tokens = append(tokens, tok)
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, tokens)
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var tok *Token
	if err := t.svc.View(func(c *builtin.Contracts) error {
		entry, err := c.Lookup(addr)
		if err != nil {
			return err
		}
		tok, err = getToken(c, entry)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, tok)
}

// view resolves the token addressed by the request and reads an amount from it.
func (t *Tokens) view(w http.ResponseWriter, req *http.Request, read func(tok *token.Token) (*uint256.Int, error)) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var amount *Amount
	if err := t.svc.View(func(c *builtin.Contracts) error {
		tok, err := c.Token(addr)
		if err != nil {
			return err
		}
		meta, err := tok.Metadata()
		if err != nil {
			return err
		}
		v, err := read(tok)
		if err != nil {
			return err
		}
		amount = newAmount(v, meta)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, amount)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	return t.view(w, req, func(tok *token.Token) (*uint256.Int, error) {
		return tok.BalanceOf(account)
	})
}

func (t *Tokens) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	spender, err := utils.AddressVar(req, "spender")
	if err != nil {
		return err
	}
	return t.view(w, req, func(tok *token.Token) (*uint256.Int, error) {
		return tok.Allowance(owner, spender)
	})
}

func (t *Tokens) execute(w http.ResponseWriter, addr unfold.Address, method string, fn func(tok *token.Token) error) error {
	receipt, err := t.svc.Execute(method, func(c *builtin.Contracts) error {
		tok, err := c.Token(addr)
		if err != nil {
			return err
		}
		return fn(tok)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (t *Tokens) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	return t.execute(w, addr, "transfer", func(tok *token.Token) error {
		return tok.Transfer(body.Caller, body.To, body.Amount)
	})
}

func (t *Tokens) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body ApproveRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	return t.execute(w, addr, "approve", func(tok *token.Token) error {
		return tok.Approve(body.Caller, body.Spender, body.Amount)
	})
}

func (t *Tokens) handleTransferFrom(w http.ResponseWriter, req *http.Request) error {
	var body TransferFromRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	return t.execute(w, addr, "transferFrom", func(tok *token.Token) error {
		return tok.TransferFrom(body.Caller, body.From, body.To, body.Amount)
	})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("tokens_get_tokens").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTokens))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("tokens_get_token").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{address}/balances/{account}").
		Methods(http.MethodGet).
		Name("tokens_get_balance").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{address}/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("tokens_get_allowance").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))

	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("tokens_transfer").
		HandlerFunc(utils.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/{address}/approve").
		Methods(http.MethodPost).
		Name("tokens_approve").
		HandlerFunc(utils.WrapHandlerFunc(t.handleApprove))
	sub.Path("/{address}/transfer-from").
		Methods(http.MethodPost).
		Name("tokens_transfer_from").
		HandlerFunc(utils.WrapHandlerFunc(t.handleTransferFrom))
}
