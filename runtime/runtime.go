// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/log"
	"github.com/unfoldfi/unfold/metrics"
	"github.com/unfoldfi/unfold/state"
	"github.com/unfoldfi/unfold/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricCallCount   = metrics.LazyLoadCounterVec("runtime_call_count", []string{"method", "result"})
	metricRevertCount = metrics.LazyLoadCounterVec("runtime_revert_count", []string{"kind"})
)

// Output is the result of a successful call.
type Output struct {
	Events []*xenv.Event
}

// Runtime executes calls against a state, each call atomically.
type Runtime struct {
	env *xenv.Environment
}

// New create a Runtime object.
func New(state *state.State, blockCtx *xenv.BlockContext) *Runtime {
	return &Runtime{env: xenv.New(state, blockCtx)}
}

func (rt *Runtime) State() *state.State            { return rt.env.State() }
func (rt *Runtime) Context() *xenv.BlockContext    { return rt.env.BlockContext() }
func (rt *Runtime) Environment() *xenv.Environment { return rt.env }

// Call runs fn under a checkpoint. When fn fails, every storage write and
// event of the call is discarded and the error is returned.
func (rt *Runtime) Call(method string, fn func(env *xenv.Environment) error) (*Output, error) {
	var (
		checkpoint = rt.env.State().NewCheckpoint()
		mark       = rt.env.EventCount()
	)

	if err := fn(rt.env); err != nil {
		rt.env.State().RevertTo(checkpoint)
		rt.env.RevertEvents(mark)

		if kind, ok := reverts.KindOf(err); ok {
			logger.Debug("call reverted", "method", method, "kind", kind, "err", err)
			metricRevertCount().AddWithLabel(1, map[string]string{"kind": kind.String()})
			metricCallCount().AddWithLabel(1, map[string]string{"method": method, "result": "reverted"})
		} else {
			logger.Warn("call failed", "method", method, "err", err)
			metricCallCount().AddWithLabel(1, map[string]string{"method": method, "result": "failed"})
		}
		return nil, err
	}

	metricCallCount().AddWithLabel(1, map[string]string{"method": method, "result": "ok"})
	events := rt.env.Events()[mark:]
	return &Output{Events: append([]*xenv.Event(nil), events...)}, nil
}
