// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unfoldfi/unfold/unfold"
)

func TestEvents(t *testing.T) {
	env := New(nil, &BlockContext{Time: 100})
	assert.Equal(t, uint64(100), env.Now())

	contract := unfold.Address{1}
	env.Emit(contract, "Staked", map[string]any{"amount": 1})
	mark := env.EventCount()
	env.Emit(contract, "Withdrawn", nil)
	env.Emit(contract, "RewardPaid", nil)
	assert.Len(t, env.Events(), 3)

	env.RevertEvents(mark)
	assert.Len(t, env.Events(), 1)
	assert.Equal(t, "Staked", env.Events()[0].Name)
	assert.Equal(t, contract, env.Events()[0].Address)
}
