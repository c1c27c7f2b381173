// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package emission implements the governance token: a token ledger whose owner
// may mint a capped share of the supply once per emission period. There is no
// other way to create supply after deployment.
package emission

import (
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/builtin/ownable"
	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/builtin/solidity"
	"github.com/unfoldfi/unfold/builtin/token"
	"github.com/unfoldfi/unfold/log"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

var (
	logger = log.WithContext("pkg", "emission")

	slotNextEmissionTime = unfold.BytesToBytes32([]byte("next-emission-time"))
	slotEmissionBp       = unfold.BytesToBytes32([]byte("emission-per-year-bp"))
)

// Ledger is the emission token. Balances and allowances live in the token ledger at the same address.
type Ledger struct {
	tok     *token.Token
	addr    unfold.Address
	env     *xenv.Environment
	ownable *ownable.Service

	nextEmissionTime *solidity.Uint64
	emissionBp       *solidity.Uint64
}

func New(addr unfold.Address, env *xenv.Environment) *Ledger {
	sctx := solidity.NewContext(addr, env.State())
	return &Ledger{
		tok:              token.New(addr, env),
		addr:             addr,
		env:              env,
		ownable:          ownable.New(sctx, env),
		nextEmissionTime: solidity.NewUint64(sctx, slotNextEmissionTime),
		emissionBp:       solidity.NewUint64(sctx, slotEmissionBp),
	}
}

// Deploy mints initialSupply to governance and starts the emission cliff.
func (l *Ledger) Deploy(meta *token.Metadata, initialSupply *uint256.Int, governance unfold.Address) error {
	owner, err := l.ownable.Owner()
	if err != nil {
		return err
	}
	if !owner.IsZero() {
		return reverts.Errorf(reverts.ErrInvalidConfig, "emission ledger %v already deployed", l.addr)
	}
	if meta != nil {
		if err := l.tok.Initialize(meta); err != nil {
			return err
		}
	}
	if err := l.ownable.Initialize(governance); err != nil {
		return err
	}
	if !initialSupply.IsZero() {
		if err := l.tok.Mint(governance, initialSupply); err != nil {
			return err
		}
	}
	next := l.env.Now() + unfold.EmissionCliff
	l.nextEmissionTime.Set(next)
	l.emissionBp.Set(unfold.DefaultEmissionPerYearBp)

	logger.Info("emission ledger deployed", "address", l.addr, "supply", initialSupply, "governance", governance, "next", next)
	return nil
}

func (l *Ledger) Address() unfold.Address                          { return l.addr }
func (l *Ledger) Metadata() (*token.Metadata, error)               { return l.tok.Metadata() }
func (l *Ledger) TotalSupply() (*uint256.Int, error)               { return l.tok.TotalSupply() }
func (l *Ledger) BalanceOf(a unfold.Address) (*uint256.Int, error) { return l.tok.BalanceOf(a) }

func (l *Ledger) Allowance(owner, spender unfold.Address) (*uint256.Int, error) {
	return l.tok.Allowance(owner, spender)
}

func (l *Ledger) Transfer(from, to unfold.Address, amount *uint256.Int) error {
	return l.tok.Transfer(from, to, amount)
}

func (l *Ledger) Approve(owner, spender unfold.Address, amount *uint256.Int) error {
	return l.tok.Approve(owner, spender, amount)
}

func (l *Ledger) TransferFrom(spender, from, to unfold.Address, amount *uint256.Int) error {
	return l.tok.TransferFrom(spender, from, to, amount)
}

func (l *Ledger) Owner() (unfold.Address, error) {
	return l.ownable.Owner()
}

// NextEmissionTime returns the earliest time of the next claim.
func (l *Ledger) NextEmissionTime() (uint64, error) {
	return l.nextEmissionTime.Get()
}

// EmissionPerYearBp returns the share of the supply minted per claim, in basis points.
func (l *Ledger) EmissionPerYearBp() (uint64, error) {
	return l.emissionBp.Get()
}

// AvailableEmission returns what ClaimEmission would mint now.
func (l *Ledger) AvailableEmission() (*uint256.Int, error) {
	next, err := l.nextEmissionTime.Get()
	if err != nil {
		return nil, err
	}
	if l.env.Now() < next {
		return new(uint256.Int), nil
	}
	bp, err := l.emissionBp.Get()
	if err != nil {
		return nil, err
	}
	supply, err := l.TotalSupply()
	if err != nil {
		return nil, err
	}
	amount, overflow := new(uint256.Int).MulDivOverflow(supply, uint256.NewInt(bp), uint256.NewInt(unfold.FeeBase))
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return amount, nil
}

// SetEmissionPerYearBp changes the emission rate. It must stay below unfold.MaxEmissionPerYearBp.
func (l *Ledger) SetEmissionPerYearBp(caller unfold.Address, bp uint64) error {
	if err := l.ownable.OnlyOwner(caller); err != nil {
		return err
	}
	if bp >= unfold.MaxEmissionPerYearBp {
		return reverts.Errorf(reverts.ErrRateTooHigh, "%d bp, max %d", bp, unfold.MaxEmissionPerYearBp)
	}
	l.emissionBp.Set(bp)
	l.env.Emit(l.addr, "EmissionRateUpdated", map[string]any{"emissionPerYearBp": bp})
	logger.Info("emission rate updated", "address", l.addr, "bp", bp)
	return nil
}

// ClaimEmission mints one period of emission to the owner and moves the
// schedule forward by one period from the previous scheduled time.
func (l *Ledger) ClaimEmission(caller unfold.Address) error {
	logger.Debug("claim emission", "address", l.addr, "caller", caller)
	if err := l.ownable.OnlyOwner(caller); err != nil {
		return err
	}
	next, err := l.nextEmissionTime.Get()
	if err != nil {
		return err
	}
	now := l.env.Now()
	if now < next {
		return reverts.Errorf(reverts.ErrEmissionNotReady, "next emission at %d, now %d", next, now)
	}
	amount, err := l.AvailableEmission()
	if err != nil {
		return err
	}

	next += unfold.EmissionPeriod
	l.nextEmissionTime.Set(next)
	if !amount.IsZero() {
		if err := l.tok.Mint(caller, amount); err != nil {
			return err
		}
	}

	l.env.Emit(l.addr, "EmissionClaimed", map[string]any{"owner": caller, "amount": amount, "nextEmissionTime": next})
	metricClaimCount().Add(1)
	logger.Info("emission claimed", "address", l.addr, "owner", caller, "amount", amount, "next", next)
	return nil
}

// TransferOwnership hands the governance key to newOwner.
func (l *Ledger) TransferOwnership(caller, newOwner unfold.Address) error {
	return l.ownable.TransferOwnership(caller, newOwner)
}
