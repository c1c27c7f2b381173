// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/lvldb"
	"github.com/unfoldfi/unfold/state"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

var (
	alice = unfold.BytesToAddress([]byte("alice"))
	bob   = unfold.BytesToAddress([]byte("bob"))
	pool  = unfold.BytesToAddress([]byte("pool"))
)

func newToken(t *testing.T) (*Token, *xenv.Environment) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	env := xenv.New(state.New(db, nil), &xenv.BlockContext{Time: 1})
	return New(unfold.BytesToAddress([]byte("token")), env), env
}

func balanceOf(t *testing.T, tok *Token, addr unfold.Address) uint64 {
	bal, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	return bal.Uint64()
}

func TestMetadata(t *testing.T) {
	tok, _ := newToken(t)

	meta, err := tok.Metadata()
	require.NoError(t, err)
	assert.Equal(t, &Metadata{}, meta)

	require.NoError(t, tok.Initialize(&Metadata{Name: "Unfold", Symbol: "UNFOLD", Decimals: 18}))
	meta, err = tok.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "UNFOLD", meta.Symbol)
	assert.Equal(t, uint8(18), meta.Decimals)
}

func TestMintAndTransfer(t *testing.T) {
	tok, env := newToken(t)

	require.NoError(t, tok.Mint(alice, uint256.NewInt(1000)))
	supply, _ := tok.TotalSupply()
	assert.Equal(t, uint64(1000), supply.Uint64())

	require.NoError(t, tok.Transfer(alice, bob, uint256.NewInt(300)))
	assert.Equal(t, uint64(700), balanceOf(t, tok, alice))
	assert.Equal(t, uint64(300), balanceOf(t, tok, bob))

	err := tok.Transfer(bob, alice, uint256.NewInt(301))
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	err = tok.Transfer(alice, unfold.Address{}, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrZeroAddress)

	events := env.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "Transfer", events[0].Name)
	assert.Equal(t, unfold.Address{}, events[0].Data["from"])
	assert.Equal(t, bob, events[1].Data["to"])
	assert.Equal(t, uint256.NewInt(300), events[1].Data["amount"])
}

func TestMintOverflow(t *testing.T) {
	tok, _ := newToken(t)
	require.NoError(t, tok.Mint(alice, new(uint256.Int).SetAllOne()))
	assert.ErrorIs(t, tok.Mint(bob, uint256.NewInt(1)), reverts.ErrOverflow)
}

func TestApproveAndTransferFrom(t *testing.T) {
	tok, _ := newToken(t)
	require.NoError(t, tok.Mint(alice, uint256.NewInt(1000)))

	err := tok.TransferFrom(pool, alice, pool, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrInsufficientAllowance)

	require.NoError(t, tok.Approve(alice, pool, uint256.NewInt(500)))
	require.NoError(t, tok.TransferFrom(pool, alice, pool, uint256.NewInt(200)))

	allowance, _ := tok.Allowance(alice, pool)
	assert.Equal(t, uint64(300), allowance.Uint64())
	assert.Equal(t, uint64(200), balanceOf(t, tok, pool))

	assert.ErrorIs(t, tok.Approve(alice, unfold.Address{}, uint256.NewInt(1)), reverts.ErrZeroAddress)
}

func TestInfiniteAllowance(t *testing.T) {
	tok, _ := newToken(t)
	require.NoError(t, tok.Mint(alice, uint256.NewInt(1000)))

	max := new(uint256.Int).SetAllOne()
	require.NoError(t, tok.Approve(alice, pool, max))
	require.NoError(t, tok.TransferFrom(pool, alice, bob, uint256.NewInt(999)))

	allowance, _ := tok.Allowance(alice, pool)
	assert.Equal(t, max, allowance)
}
