// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/builtin/emission"
	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/builtin/rewardpool"
	"github.com/unfoldfi/unfold/builtin/solidity"
	"github.com/unfoldfi/unfold/builtin/token"
	"github.com/unfoldfi/unfold/builtin/vesting"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

// RegistryAddress is where the contract directory is stored.
var RegistryAddress = unfold.BytesToAddress([]byte("Registry"))

var (
	ErrNotFound = errors.New("contract not found")

	slotEntries = unfold.BytesToBytes32([]byte("entries"))
	slotCount   = unfold.BytesToBytes32([]byte("count"))
	slotIndex   = unfold.BytesToBytes32([]byte("index"))
)

// Kind is the type of a deployed contract.
type Kind uint8

const (
	KindToken Kind = iota + 1
	KindEmission
	KindPool
	KindVesting
)

func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindEmission:
		return "emission"
	case KindPool:
		return "pool"
	case KindVesting:
		return "vesting"
	}
	return "unknown"
}

// Entry describes a registered contract.
type Entry struct {
	Address unfold.Address
	Kind    Kind
	Name    string
}

type seq uint64

func (s seq) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(s))
}

// Contracts binds the registered contracts to an environment.
type Contracts struct {
	env     *xenv.Environment
	entries *solidity.Mapping[unfold.Address, *Entry]
	count   *solidity.Uint64
	index   *solidity.Mapping[seq, unfold.Address]
}

func New(env *xenv.Environment) *Contracts {
	sctx := solidity.NewContext(RegistryAddress, env.State())
	return &Contracts{
		env:     env,
		entries: solidity.NewMapping[unfold.Address, *Entry](sctx, slotEntries),
		count:   solidity.NewUint64(sctx, slotCount),
		index:   solidity.NewMapping[seq, unfold.Address](sctx, slotIndex),
	}
}

// Environment returns the environment the contracts are bound to.
func (c *Contracts) Environment() *xenv.Environment {
	return c.env
}

func (c *Contracts) register(addr unfold.Address, kind Kind, name string) error {
	if addr.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "contract address")
	}
	if existing, err := c.Lookup(addr); err == nil {
		return reverts.Errorf(reverts.ErrInvalidConfig, "address %v taken by %v %q", addr, existing.Kind, existing.Name)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if name != "" {
		if _, err := c.LookupName(name); err == nil {
			return reverts.Errorf(reverts.ErrInvalidConfig, "name %q taken", name)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	n, err := c.count.Get()
	if err != nil {
		return err
	}
	if err := c.entries.Set(addr, &Entry{Address: addr, Kind: kind, Name: name}); err != nil {
		return err
	}
	if err := c.index.Set(seq(n), addr); err != nil {
		return err
	}
	c.count.Set(n + 1)
	return nil
}

// Lookup returns the entry registered at addr.
func (c *Contracts) Lookup(addr unfold.Address) (*Entry, error) {
	e, err := c.entries.Get(addr)
	if err != nil {
		return nil, err
	}
	if e.Kind == 0 {
		return nil, errors.Wrap(ErrNotFound, addr.String())
	}
	return e, nil
}

// LookupName returns the entry registered under name.
func (c *Contracts) LookupName(name string) (*Entry, error) {
	all, err := c.All()
	if err != nil {
		return nil, err
	}
	for _, e := range all {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, errors.Wrap(ErrNotFound, name)
}

// All returns every entry in registration order.
func (c *Contracts) All() ([]*Entry, error) {
	n, err := c.count.Get()
	if err != nil {
		return nil, err
	}
	entries := make([]*Entry, 0, n)
	for i := range n {
		addr, err := c.index.Get(seq(i))
		if err != nil {
			return nil, err
		}
		e, err := c.entries.Get(addr)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (c *Contracts) expect(addr unfold.Address, kinds ...Kind) error {
	e, err := c.Lookup(addr)
	if err != nil {
		return err
	}
	for _, k := range kinds {
		if e.Kind == k {
			return nil
		}
	}
	return errors.Wrapf(ErrNotFound, "%v is a %v", addr, e.Kind)
}

// BindToken returns the token ledger at addr. Unregistered addresses bind to an empty ledger.
func (c *Contracts) BindToken(addr unfold.Address) rewardpool.Token {
	if e, err := c.Lookup(addr); err == nil && e.Kind == KindEmission {
		return emission.New(addr, c.env)
	}
	return token.New(addr, c.env)
}

func (c *Contracts) bindVestingToken(addr unfold.Address) vesting.Token {
	return c.BindToken(addr)
}

// Token returns the ledger of a token or emission contract.
func (c *Contracts) Token(addr unfold.Address) (*token.Token, error) {
	if err := c.expect(addr, KindToken, KindEmission); err != nil {
		return nil, err
	}
	return token.New(addr, c.env), nil
}

func (c *Contracts) Emission(addr unfold.Address) (*emission.Ledger, error) {
	if err := c.expect(addr, KindEmission); err != nil {
		return nil, err
	}
	return emission.New(addr, c.env), nil
}

func (c *Contracts) Pool(addr unfold.Address) (*rewardpool.Pool, error) {
	if err := c.expect(addr, KindPool); err != nil {
		return nil, err
	}
	return rewardpool.New(addr, c.env, c.BindToken), nil
}

func (c *Contracts) Vesting(addr unfold.Address) (*vesting.Vesting, error) {
	if err := c.expect(addr, KindVesting); err != nil {
		return nil, err
	}
	return vesting.New(addr, c.env, c.bindVestingToken), nil
}

// DeployToken registers a plain token ledger.
func (c *Contracts) DeployToken(addr unfold.Address, name string, meta *token.Metadata) (*token.Token, error) {
	if err := c.register(addr, KindToken, name); err != nil {
		return nil, err
	}
	t := token.New(addr, c.env)
	if err := t.Initialize(meta); err != nil {
		return nil, err
	}
	return t, nil
}

// DeployEmission registers the emission token and mints its initial supply to governance.
func (c *Contracts) DeployEmission(addr unfold.Address, name string, meta *token.Metadata, initialSupply *uint256.Int, governance unfold.Address) (*emission.Ledger, error) {
	if err := c.register(addr, KindEmission, name); err != nil {
		return nil, err
	}
	l := emission.New(addr, c.env)
	if err := l.Deploy(meta, initialSupply, governance); err != nil {
		return nil, err
	}
	return l, nil
}

func (c *Contracts) DeployPool(addr unfold.Address, name string, cfg *rewardpool.Config, feeBeneficiary, owner unfold.Address) (*rewardpool.Pool, error) {
	if err := c.register(addr, KindPool, name); err != nil {
		return nil, err
	}
	p := rewardpool.New(addr, c.env, c.BindToken)
	if err := p.Deploy(cfg, feeBeneficiary, owner); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Contracts) DeployVesting(addr unfold.Address, name string, beneficiary unfold.Address, start, cliffDuration, duration uint64) (*vesting.Vesting, error) {
	if err := c.register(addr, KindVesting, name); err != nil {
		return nil, err
	}
	v := vesting.New(addr, c.env, c.bindVestingToken)
	if err := v.Deploy(beneficiary, start, cliffDuration, duration); err != nil {
		return nil, err
	}
	return v, nil
}
