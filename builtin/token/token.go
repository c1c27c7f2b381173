// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a fungible token ledger with balances, allowances and supply.
package token

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/builtin/solidity"
	"github.com/unfoldfi/unfold/log"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

var (
	logger = log.WithContext("pkg", "token")

	slotMetadata    = unfold.BytesToBytes32([]byte("token-metadata"))
	slotTotalSupply = unfold.BytesToBytes32([]byte("total-supply"))
	slotBalances    = unfold.BytesToBytes32([]byte("balances"))
	slotAllowances  = unfold.BytesToBytes32([]byte("allowances"))
)

// Metadata describes the token.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

type allowanceKey struct {
	owner, spender unfold.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token implements the token ledger living at a contract address.
type Token struct {
	addr unfold.Address
	env  *xenv.Environment

	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[unfold.Address, *uint256.Int]
	allowances  *solidity.Mapping[allowanceKey, *uint256.Int]
}

// New create a new instance.
func New(addr unfold.Address, env *xenv.Environment) *Token {
	sctx := solidity.NewContext(addr, env.State())
	return &Token{
		addr:        addr,
		env:         env,
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[unfold.Address, *uint256.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *uint256.Int](sctx, slotAllowances),
	}
}

// Address returns the contract address of the token.
func (t *Token) Address() unfold.Address {
	return t.addr
}

// Initialize stores the token metadata.
func (t *Token) Initialize(meta *Metadata) error {
	return t.env.State().EncodeStorage(t.addr, slotMetadata, func() ([]byte, error) {
		return rlp.EncodeToBytes(meta)
	})
}

// Metadata returns the token metadata.
func (t *Token) Metadata() (*Metadata, error) {
	var meta Metadata
	err := t.env.State().DecodeStorage(t.addr, slotMetadata, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &meta)
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr unfold.Address) (*uint256.Int, error) {
	return t.balances.Get(addr)
}

func (t *Token) Allowance(owner, spender unfold.Address) (*uint256.Int, error) {
	return t.allowances.Get(allowanceKey{owner, spender})
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to unfold.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "transfer to the zero address")
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	t.env.Emit(t.addr, "Transfer", map[string]any{"from": from, "to": to, "amount": amount.Clone()})
	logger.Debug("transfer", "token", t.addr, "from", from, "to", to, "amount", amount)
	return nil
}

// Approve sets the amount spender may move out of owner's balance.
func (t *Token) Approve(owner, spender unfold.Address, amount *uint256.Int) error {
	if spender.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "approve to the zero address")
	}
	if err := t.allowances.Set(allowanceKey{owner, spender}, amount); err != nil {
		return err
	}
	t.env.Emit(t.addr, "Approval", map[string]any{"owner": owner, "spender": spender, "amount": amount.Clone()})
	return nil
}

// TransferFrom moves amount out of from on behalf of spender, consuming allowance.
// An allowance of the max uint256 is never consumed.
func (t *Token) TransferFrom(spender, from, to unfold.Address, amount *uint256.Int) error {
	key := allowanceKey{from, spender}
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return reverts.Errorf(reverts.ErrInsufficientAllowance, "allowance %v, amount %v", allowance, amount)
	}
	if !isInfinite(allowance) {
		if err := t.allowances.Set(key, new(uint256.Int).Sub(allowance, amount)); err != nil {
			return err
		}
	}
	return t.Transfer(from, to, amount)
}

// Mint creates amount new tokens for to. Access control belongs to the calling contract.
func (t *Token) Mint(to unfold.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "mint to the zero address")
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	t.env.Emit(t.addr, "Transfer", map[string]any{"from": unfold.Address{}, "to": to, "amount": amount.Clone()})
	return nil
}

func (t *Token) addBalance(addr unfold.Address, amount *uint256.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return reverts.ErrOverflow
	}
	return t.balances.Set(addr, bal)
}

func (t *Token) subBalance(addr unfold.Address, amount *uint256.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return reverts.Errorf(reverts.ErrInsufficientBalance, "balance %v, amount %v", bal, amount)
	}
	return t.balances.Set(addr, bal.Sub(bal, amount))
}

func isInfinite(v *uint256.Int) bool {
	return v.Eq(new(uint256.Int).SetAllOne())
}
