// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ownable

import (
	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/builtin/solidity"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

var slotOwner = unfold.BytesToBytes32([]byte("owner"))

// Service holds the single privileged key of a contract.
type Service struct {
	contract unfold.Address
	env      *xenv.Environment
	owner    *solidity.Address
}

func New(sctx *solidity.Context, env *xenv.Environment) *Service {
	return &Service{
		contract: sctx.Address(),
		env:      env,
		owner:    solidity.NewAddress(sctx, slotOwner),
	}
}

func (s *Service) Owner() (unfold.Address, error) {
	return s.owner.Get()
}

// Initialize sets the first owner.
func (s *Service) Initialize(owner unfold.Address) error {
	if owner.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "owner is the zero address")
	}
	s.setOwner(unfold.Address{}, owner)
	return nil
}

// OnlyOwner fails with reverts.ErrNotOwner unless caller is the owner.
func (s *Service) OnlyOwner(caller unfold.Address) error {
	owner, err := s.owner.Get()
	if err != nil {
		return err
	}
	if owner != caller {
		return reverts.ErrNotOwner
	}
	return nil
}

// TransferOwnership hands the privileged key to newOwner.
func (s *Service) TransferOwnership(caller, newOwner unfold.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "new owner is the zero address")
	}
	s.setOwner(caller, newOwner)
	return nil
}

func (s *Service) setOwner(previous, owner unfold.Address) {
	s.owner.Set(owner)
	s.env.Emit(s.contract, "OwnershipTransferred", map[string]any{"previousOwner": previous, "newOwner": owner})
}
