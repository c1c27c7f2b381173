// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/unfoldfi/unfold/state"
	"github.com/unfoldfi/unfold/unfold"
)

// Context binds typed storage variables to the storage of one contract.
type Context struct {
	address unfold.Address
	state   *state.State
}

func NewContext(address unfold.Address, state *state.State) *Context {
	return &Context{address: address, state: state}
}

func (c *Context) Address() unfold.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
