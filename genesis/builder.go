// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/kv"
	"github.com/unfoldfi/unfold/lvldb"
	"github.com/unfoldfi/unfold/runtime"
	"github.com/unfoldfi/unfold/state"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp uint64
	procs     []proc
}

type proc struct {
	name string
	fn   func(contracts *builtin.Contracts) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// Deploy adds a deployment step. Each step runs atomically.
func (b *Builder) Deploy(name string, fn func(contracts *builtin.Contracts) error) *Builder {
	b.procs = append(b.procs, proc{name, fn})
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (unfold.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return unfold.Bytes32{}, err
	}
	defer db.Close()

	id, _, err := b.Build(state.NewStater(db))
	return id, err
}

// Build runs the deployment steps and commits the resulting state.
// The ID is the hash of the committed changes.
func (b *Builder) Build(stater *state.Stater, extras ...func(kv.Putter) error) (id unfold.Bytes32, events []*xenv.Event, err error) {
	st := stater.NewState()
	rt := runtime.New(st, &xenv.BlockContext{Time: b.timestamp})

	for _, p := range b.procs {
		out, err := rt.Call("genesis", func(env *xenv.Environment) error {
			return p.fn(builtin.New(env))
		})
		if err != nil {
			return unfold.Bytes32{}, nil, errors.Wrap(err, p.name)
		}
		events = append(events, out.Events...)
	}

	stage, err := stater.Commit(st, extras...)
	if err != nil {
		return unfold.Bytes32{}, nil, errors.Wrap(err, "commit state")
	}
	return stage.Hash(), events, nil
}
