// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/unfoldfi/unfold/state"
	"github.com/unfoldfi/unfold/unfold"
)

// BlockContext is the context a call executes in.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// Event is a log entry emitted by a contract.
type Event struct {
	Address unfold.Address `json:"address"`
	Name    string         `json:"name"`
	Data    map[string]any `json:"data"`
}

// Environment an env to execute native method.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	events   []*Event
}

// New create a new env.
func New(state *state.State, blockCtx *BlockContext) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
	}
}

func (env *Environment) State() *state.State         { return env.state }
func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }

// Now returns the time of the block context.
func (env *Environment) Now() uint64 { return env.blockCtx.Time }

// Emit appends an event to the log.
func (env *Environment) Emit(contract unfold.Address, name string, data map[string]any) {
	env.events = append(env.events, &Event{Address: contract, Name: name, Data: data})
}

// Events returns all events emitted since the env was created.
func (env *Environment) Events() []*Event { return env.events }

// EventCount returns the count of emitted events, usable as a revert mark.
func (env *Environment) EventCount() int { return len(env.events) }

// RevertEvents drops events emitted after the given count.
func (env *Environment) RevertEvents(count int) {
	for i := count; i < len(env.events); i++ {
		env.events[i] = nil
	}
	env.events = env.events[:count]
}
