// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/unfold"
)

type Uint256 struct {
	context *Context
	pos     unfold.Bytes32
}

func NewUint256(context *Context, pos unfold.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *uint256.Int) {
	u.context.state.SetStorage(u.context.address, u.pos, unfold.Bytes32(value.Bytes32()))
}

// Add increases the stored value, failing with reverts.ErrOverflow on wrap around.
func (u *Uint256) Add(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if _, overflow := storage.AddOverflow(storage, value); overflow {
		return reverts.ErrOverflow
	}
	u.Set(storage)
	return nil
}

// Sub decreases the stored value, failing with reverts.ErrOverflow on underflow.
func (u *Uint256) Sub(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if _, underflow := storage.SubOverflow(storage, value); underflow {
		return reverts.ErrOverflow
	}
	u.Set(storage)
	return nil
}

type Uint64 struct {
	context *Context
	pos     unfold.Bytes32
}

func NewUint64(context *Context, pos unfold.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return 0, err
	}
	return new(uint256.Int).SetBytes(storage.Bytes()).Uint64(), nil
}

func (u *Uint64) Set(value uint64) {
	u.context.state.SetStorage(u.context.address, u.pos, uint256.NewInt(value).Bytes32())
}
