// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/unfoldfi/unfold/cache"
	"github.com/unfoldfi/unfold/kv"
)

const defaultCacheSize = 16384

// Stater is the state creator.
type Stater struct {
	store kv.Store
	cache *cache.LRU
}

// NewStater create a new stater.
func NewStater(store kv.Store) *Stater {
	c, _ := cache.NewLRU(defaultCacheSize)
	return &Stater{store, c}
}

// NewState create a new state object over the committed storage.
func (s *Stater) NewState() *State {
	return New(s.store, s.cache)
}

// Commit flushes the changes of the given state, together with the extra records.
func (s *Stater) Commit(st *State, extras ...func(kv.Putter) error) (*Stage, error) {
	stage := st.Stage()
	if err := stage.Commit(s.store, s.cache, extras...); err != nil {
		return nil, err
	}
	return stage, nil
}

// Store returns the underlying store.
func (s *Stater) Store() kv.Store {
	return s.store
}

// CacheStats returns hit, miss and hit rate of the shared storage cache.
func (s *Stater) CacheStats() (hit, miss int64, rate float64) {
	return s.cache.Stats().Stats()
}
