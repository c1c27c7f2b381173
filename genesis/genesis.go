// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/builtin/feeschedule"
	"github.com/unfoldfi/unfold/builtin/rewardpool"
	"github.com/unfoldfi/unfold/builtin/token"
	"github.com/unfoldfi/unfold/kv"
	"github.com/unfoldfi/unfold/state"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

// Genesis to build the initial deployment.
type Genesis struct {
	builder *Builder
	id      unfold.Bytes32
	name    string
	config  *Config
}

// New creates the genesis of a deployment config.
func New(cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, err := newBuilder(cfg)
	if err != nil {
		return nil, err
	}
	id, err := b.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{b, id, cfg.Name, cfg}, nil
}

// Build commits the deployment into the stater's store, along with the extra records.
func (g *Genesis) Build(stater *state.Stater, extras ...func(kv.Putter) error) ([]*xenv.Event, error) {
	id, events, err := g.builder.Build(stater, extras...)
	if err != nil {
		return nil, err
	}
	if id != g.id {
		return nil, errors.New("genesis id mismatch")
	}
	return events, nil
}

// ID returns the genesis ID.
func (g *Genesis) ID() unfold.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

func (g *Genesis) LaunchTime() uint64 {
	return g.builder.timestamp
}

func (g *Genesis) Config() *Config {
	return g.config
}

func mustAddress(s string) unfold.Address {
	return unfold.MustParseAddress(s)
}

func parseAmount(s string) (*uint256.Int, error) {
	v, err := unfold.ParseUnits(s, unfold.Decimals)
	if err != nil {
		return nil, err
	}
	amount, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errors.Errorf("amount %s out of range", s)
	}
	return amount, nil
}

func optionalAddress(s string, fallback unfold.Address) unfold.Address {
	if s == "" {
		return fallback
	}
	return mustAddress(s)
}

// newBuilder expects a validated config.
func newBuilder(cfg *Config) (*Builder, error) {
	supply, err := parseAmount(cfg.Emission.InitialSupply)
	if err != nil {
		return nil, errors.WithMessage(err, "emission")
	}
	emissionAddr := mustAddress(cfg.Emission.Address)
	governance := mustAddress(cfg.Emission.Governance)

	b := new(Builder).Timestamp(cfg.LaunchTime)
	b.Deploy("emission", func(c *builtin.Contracts) error {
		meta := &token.Metadata{Name: cfg.Emission.Name, Symbol: cfg.Emission.Symbol, Decimals: uint8(unfold.Decimals)}
		_, err := c.DeployEmission(emissionAddr, cfg.Emission.Name, meta, supply, governance)
		return err
	})

	for _, t := range cfg.Tokens {
		b.Deploy("token "+t.Name, func(c *builtin.Contracts) error {
			meta := &token.Metadata{Name: t.Name, Symbol: t.Symbol, Decimals: uint8(unfold.Decimals)}
			_, err := c.DeployToken(mustAddress(t.Address), t.Name, meta)
			return err
		})
	}

	for _, a := range cfg.Accounts {
		balance, err := parseAmount(a.Balance)
		if err != nil {
			return nil, errors.WithMessagef(err, "account %s", a.Address)
		}
		b.Deploy("account "+a.Address, func(c *builtin.Contracts) error {
			addr, tokenAddr := mustAddress(a.Address), mustAddress(a.Token)
			if tokenAddr == emissionAddr {
				return c.BindToken(tokenAddr).Transfer(governance, addr, balance)
			}
			t, err := c.Token(tokenAddr)
			if err != nil {
				return err
			}
			return t.Mint(addr, balance)
		})
	}

	for _, p := range cfg.Pools {
		pcfg := &rewardpool.Config{
			PoolToken:     mustAddress(p.PoolToken),
			RewardToken:   optionalAddress(p.RewardToken, emissionAddr),
			Duration:      uint64(p.Duration),
			PublicFunding: p.PublicFunding,
			FeeSchedule:   p.FeeSchedule,
		}
		if pcfg.Duration == 0 {
			pcfg.Duration = unfold.DefaultPoolDuration
		}
		if len(pcfg.FeeSchedule) == 0 {
			pcfg.FeeSchedule = feeschedule.Default()
		}
		owner := optionalAddress(p.Owner, governance)
		b.Deploy("pool "+p.Name, func(c *builtin.Contracts) error {
			if _, err := c.Token(pcfg.PoolToken); err != nil {
				return err
			}
			_, err := c.DeployPool(mustAddress(p.Address), p.Name, pcfg, mustAddress(p.FeeBeneficiary), owner)
			return err
		})
	}

	for _, v := range cfg.Vestings {
		amount, err := parseAmount(v.Amount)
		if err != nil {
			return nil, errors.WithMessagef(err, "vesting %q", v.Name)
		}
		start := v.Start
		if start == 0 {
			start = cfg.LaunchTime
		}
		b.Deploy("vesting "+v.Name, func(c *builtin.Contracts) error {
			addr := mustAddress(v.Address)
			if _, err := c.DeployVesting(addr, v.Name, mustAddress(v.Beneficiary), start, uint64(v.Cliff), uint64(v.Duration)); err != nil {
				return err
			}
			return c.BindToken(emissionAddr).Transfer(governance, addr, amount)
		})
	}
	return b, nil
}
