// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vesting releases tokens held by a contract to a beneficiary linearly
// over time, after a cliff.
package vesting

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
	logger = log.WithContext("pkg", "vesting")

	slotSchedule = unfold.BytesToBytes32([]byte("vesting-schedule"))
	slotReleased = unfold.BytesToBytes32([]byte("released"))
)

// Token is the part of a token ledger a vesting contract needs.
type Token interface {
	Transfer(from, to unfold.Address, amount *uint256.Int) error
	BalanceOf(addr unfold.Address) (*uint256.Int, error)
}

// TokenBinder resolves the token contract deployed at an address.
type TokenBinder func(addr unfold.Address) Token

// Schedule is the immutable vesting configuration.
type Schedule struct {
	Beneficiary unfold.Address
	Start       uint64
	Cliff       uint64 // absolute time, Start <= Cliff <= Start+Duration
	Duration    uint64
}

// Vesting is a vesting contract deployed at an address.
type Vesting struct {
	addr     unfold.Address
	env      *xenv.Environment
	bind     TokenBinder
	released *solidity.Mapping[unfold.Address, *uint256.Int]
}

func New(addr unfold.Address, env *xenv.Environment, bind TokenBinder) *Vesting {
	sctx := solidity.NewContext(addr, env.State())
	return &Vesting{
		addr:     addr,
		env:      env,
		bind:     bind,
		released: solidity.NewMapping[unfold.Address, *uint256.Int](sctx, slotReleased),
	}
}

// Deploy stores the schedule. cliffDuration is relative to start.
func (v *Vesting) Deploy(beneficiary unfold.Address, start, cliffDuration, duration uint64) error {
	existing, err := v.Schedule()
	if err != nil {
		return err
	}
	if !existing.Beneficiary.IsZero() {
		return reverts.Errorf(reverts.ErrInvalidConfig, "vesting %v already deployed", v.addr)
	}
	if beneficiary.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "beneficiary is the zero address")
	}
	if duration == 0 {
		return reverts.Errorf(reverts.ErrInvalidConfig, "zero duration")
	}
	if cliffDuration > duration {
		return reverts.Errorf(reverts.ErrInvalidConfig, "cliff %d is longer than duration %d", cliffDuration, duration)
	}
	s := &Schedule{
		Beneficiary: beneficiary,
		Start:       start,
		Cliff:       start + cliffDuration,
		Duration:    duration,
	}
	return v.env.State().EncodeStorage(v.addr, slotSchedule, func() ([]byte, error) {
		return rlp.EncodeToBytes(s)
	})
}

func (v *Vesting) Address() unfold.Address {
	return v.addr
}

// Schedule returns the vesting schedule, zero valued when not deployed.
func (v *Vesting) Schedule() (*Schedule, error) {
	var s Schedule
	err := v.env.State().DecodeStorage(v.addr, slotSchedule, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &s)
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Released returns the amount of tok already released.
func (v *Vesting) Released(tok unfold.Address) (*uint256.Int, error) {
	return v.released.Get(tok)
}

// Releasable returns the vested but not yet released amount of tok.
func (v *Vesting) Releasable(tok unfold.Address) (*uint256.Int, error) {
	s, err := v.Schedule()
	if err != nil {
		return nil, err
	}
	released, err := v.released.Get(tok)
	if err != nil {
		return nil, err
	}
	vested, err := v.vestedAmount(s, tok, released)
	if err != nil {
		return nil, err
	}
	return vested.Sub(vested, released), nil
}

// Release transfers the releasable amount of tok to the beneficiary.
func (v *Vesting) Release(tok unfold.Address) error {
	s, err := v.Schedule()
	if err != nil {
		return err
	}
	if s.Beneficiary.IsZero() {
		return reverts.Errorf(reverts.ErrInvalidConfig, "vesting %v not deployed", v.addr)
	}
	unreleased, err := v.Releasable(tok)
	if err != nil {
		return err
	}
	if unreleased.IsZero() {
		return reverts.ErrNothingVested
	}
	released, err := v.released.Get(tok)
	if err != nil {
		return err
	}
	if err := v.released.Set(tok, new(uint256.Int).Add(released, unreleased)); err != nil {
		return err
	}

	if err := v.bind(tok).Transfer(v.addr, s.Beneficiary, unreleased); err != nil {
		return err
	}
	v.env.Emit(v.addr, "TokensReleased", map[string]any{"token": tok, "amount": unreleased})
	logger.Info("tokens released", "vesting", v.addr, "token", tok, "beneficiary", s.Beneficiary, "amount", unreleased)
	return nil
}

func (v *Vesting) vestedAmount(s *Schedule, tok unfold.Address, released *uint256.Int) (*uint256.Int, error) {
	now := v.env.Now()
	if s.Beneficiary.IsZero() || now < s.Cliff {
		return new(uint256.Int), nil
	}
	balance, err := v.bind(tok).BalanceOf(v.addr)
	if err != nil {
		return nil, err
	}
	total, overflow := new(uint256.Int).AddOverflow(balance, released)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	if now >= s.Start+s.Duration {
		return total, nil
	}
	vested, overflow := new(uint256.Int).MulDivOverflow(total, uint256.NewInt(now-s.Start), uint256.NewInt(s.Duration))
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return vested, nil
}
