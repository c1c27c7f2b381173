// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/unfold"
)

// AddressVar parses the named path variable as an address.
func AddressVar(req *http.Request, name string) (unfold.Address, error) {
	addr, err := unfold.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return unfold.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// Uint64Query parses the named query parameter, returning def when it's absent.
func Uint64Query(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// AddressQuery parses the named query parameter as an address. It's required.
func AddressQuery(req *http.Request, name string) (unfold.Address, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return unfold.Address{}, BadRequest(errors.Errorf("%s: required", name))
	}
	addr, err := unfold.ParseAddress(s)
	if err != nil {
		return unfold.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// ParseCall parses the contract address path variable and the JSON body of a call.
func ParseCall(req *http.Request, body any) (unfold.Address, error) {
	addr, err := AddressVar(req, "address")
	if err != nil {
		return unfold.Address{}, err
	}
	if err := ParseJSON(req.Body, body); err != nil {
		return unfold.Address{}, BadRequest(errors.WithMessage(err, "body"))
	}
	return addr, nil
}
