// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/genesis"
	"github.com/unfoldfi/unfold/lvldb"
	"github.com/unfoldfi/unfold/unfold"
)

var daiAddr = unfold.MustParseAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")

func fixedClock(t uint64) Clock {
	return func() uint64 { return t }
}

func transfer(from, to unfold.Address, amount *uint256.Int) func(c *builtin.Contracts) error {
	return func(c *builtin.Contracts) error {
		dai, err := c.Token(daiAddr)
		if err != nil {
			return err
		}
		return dai.Transfer(from, to, amount)
	}
}

func balanceOf(t *testing.T, s *Service, addr unfold.Address) *uint256.Int {
	var bal *uint256.Int
	require.NoError(t, s.View(func(c *builtin.Contracts) error {
		dai, err := c.Token(daiAddr)
		if err != nil {
			return err
		}
		bal, err = dai.BalanceOf(addr)
		return err
	}))
	return bal
}

func TestExecute(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := genesis.NewDevnet()
	s, err := New(db, gen, fixedClock(gen.LaunchTime()-100))
	require.NoError(t, err)
	assert.Equal(t, gen.ID(), s.GenesisID())

	seq, ts := s.Head()
	assert.Zero(t, seq)
	assert.Equal(t, gen.LaunchTime(), ts)
	// the clock never runs behind the last commit
	assert.Equal(t, gen.LaunchTime(), s.Now())

	accs := genesis.DevAccounts()
	tick := s.Ticker()
	receipt, err := s.Execute("transfer", transfer(accs[0], accs[1], uint256.NewInt(7)))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), receipt.Seq)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "Transfer", receipt.Events[0].Name)

	select {
	case <-tick:
	default:
		t.Fatal("ticker not fired")
	}

	data, err := s.Receipt(1)
	require.NoError(t, err)
	var decoded Receipt
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "transfer", decoded.Method)
	assert.Equal(t, "7", decoded.Events[0].Data["amount"])

	_, err = s.Receipt(2)
	assert.True(t, s.IsNotFound(err))

	// failed calls leave no trace
	_, err = s.Execute("transfer", transfer(accs[2], accs[1], uint256.MustFromBig(unfold.Units(1_000_000))))
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
	seq, _ = s.Head()
	assert.Equal(t, uint64(1), seq)

	expected := new(uint256.Int).Add(uint256.MustFromBig(unfold.Units(100_000)), uint256.NewInt(7))
	assert.Equal(t, expected, balanceOf(t, s, accs[1]))

	assert.Equal(t, gen.LaunchTime()+unfold.Day, s.Warp(unfold.Day+100))
}

func TestReopen(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := genesis.NewDevnet()
	s, err := New(db, gen, fixedClock(gen.LaunchTime()+10))
	require.NoError(t, err)
	accs := genesis.DevAccounts()
	_, err = s.Execute("transfer", transfer(accs[0], accs[1], uint256.NewInt(1)))
	require.NoError(t, err)

	again, err := New(db, gen, fixedClock(gen.LaunchTime()))
	require.NoError(t, err)
	seq, ts := again.Head()
	assert.Equal(t, uint64(1), seq)
	assert.Equal(t, gen.LaunchTime()+10, ts)
	assert.Equal(t, balanceOf(t, s, accs[1]), balanceOf(t, again, accs[1]))

	raw, err := metaBucket.Get(db, headKey)
	require.NoError(t, err)
	var stored head
	require.NoError(t, rlp.DecodeBytes(raw, &stored))
	assert.Equal(t, head{Seq: 1, Time: gen.LaunchTime() + 10}, stored)

	cfg, err := genesis.ParseConfig(genesis.DevnetConfig())
	require.NoError(t, err)
	cfg.LaunchTime++
	other, err := genesis.New(cfg)
	require.NoError(t, err)
	_, err = New(db, other, nil)
	assert.EqualError(t, err, "genesis mismatch")
}

func TestConcurrentExecute(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := genesis.NewDevnet()
	s, err := New(db, gen, fixedClock(gen.LaunchTime()))
	require.NoError(t, err)
	accs := genesis.DevAccounts()
	before := balanceOf(t, s, accs[0])

	var g errgroup.Group
	for range 20 {
		g.Go(func() error {
			_, err := s.Execute("transfer", transfer(accs[0], accs[2], uint256.NewInt(1)))
			return err
		})
	}
	require.NoError(t, g.Wait())

	seq, _ := s.Head()
	assert.Equal(t, uint64(20), seq)
	assert.Equal(t, new(uint256.Int).Sub(before, uint256.NewInt(20)), balanceOf(t, s, accs[0]))
}
