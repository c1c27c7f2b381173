// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

// StackedMap maintains maps in a stack.
// Each map inherits key/value of map that is at lower level.
// It acts as a map with save-restore/snapshot-revert manner.
type StackedMap[K comparable, V any] struct {
	src       MapGetter[K, V]
	levels    []*level[K, V]
	revisions map[K][]int
}

type level[K comparable, V any] struct {
	kvs     map[K]V
	journal []JournalEntry[K, V]
}

// JournalEntry entry of journal.
type JournalEntry[K comparable, V any] struct {
	Key   K
	Value V
}

// MapGetter defines getter method of map.
type MapGetter[K comparable, V any] func(key K) (value V, exist bool, err error)

// New create an instance of StackedMap.
// src acts as source of data.
func New[K comparable, V any](src MapGetter[K, V]) *StackedMap[K, V] {
	return &StackedMap[K, V]{
		src:       src,
		revisions: make(map[K][]int),
	}
}

// Depth returns depth of stack.
func (sm *StackedMap[K, V]) Depth() int {
	return len(sm.levels)
}

// Push pushes a new map on stack.
// It returns stack depth before push.
func (sm *StackedMap[K, V]) Push() int {
	sm.levels = append(sm.levels, &level[K, V]{kvs: make(map[K]V)})
	return len(sm.levels) - 1
}

// Pop pop the map at top of stack.
// It will revert all Put operations since last Push.
func (sm *StackedMap[K, V]) Pop() {
	top := sm.levels[len(sm.levels)-1]
	for key := range top.kvs {
		revs := sm.revisions[key]
		revs = revs[:len(revs)-1]
		if len(revs) == 0 {
			delete(sm.revisions, key)
		} else {
			sm.revisions[key] = revs
		}
	}
	sm.levels = sm.levels[:len(sm.levels)-1]
}

// PopTo pop maps until stack depth reaches depth.
func (sm *StackedMap[K, V]) PopTo(depth int) {
	for len(sm.levels) > depth {
		sm.Pop()
	}
}

// Get gets value for given key.
// The second return value indicates whether the given key is found.
func (sm *StackedMap[K, V]) Get(key K) (V, bool, error) {
	if revs, ok := sm.revisions[key]; ok {
		if v, ok := sm.levels[revs[len(revs)-1]].kvs[key]; ok {
			return v, true, nil
		}
	}
	return sm.src(key)
}

// Put puts key value into map at stack top.
// It will panic if stack is empty.
func (sm *StackedMap[K, V]) Put(key K, value V) {
	rev := len(sm.levels) - 1
	top := sm.levels[rev]
	_, seen := top.kvs[key]
	top.kvs[key] = value
	top.journal = append(top.journal, JournalEntry[K, V]{Key: key, Value: value})

	// records key revision for fast access
	if !seen {
		sm.revisions[key] = append(sm.revisions[key], rev)
	}
}

// Journal traverses journal entries of all Put operations, from oldest to latest.
// Returning false from cb stops the traversal.
func (sm *StackedMap[K, V]) Journal(cb func(key K, value V) bool) {
	for _, lvl := range sm.levels {
		for _, e := range lvl.journal {
			if !cb(e.Key, e.Value) {
				return
			}
		}
	}
}
