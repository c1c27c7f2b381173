// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/unfoldfi/unfold/cache"
	"github.com/unfoldfi/unfold/kv"
	"github.com/unfoldfi/unfold/stackedmap"
	"github.com/unfoldfi/unfold/unfold"
)

const storageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr unfold.Address
	key  unfold.Bytes32
}

func (k storageKey) encode() []byte {
	b := make([]byte, 0, len(k.addr)+len(k.key))
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages the contract storage.
type State struct {
	store kv.Getter
	cache *cache.LRU // shared read cache of committed values, may be nil
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object.
func New(store kv.Getter, c *cache.LRU) *State {
	s := &State{store: store, cache: c}
	s.sm = stackedmap.New(s.load)
	s.sm.Push()
	return s
}

// load implements stackedmap.MapGetter.
func (s *State) load(key storageKey) (rlp.RawValue, bool, error) {
	if s.cache == nil {
		return s.loadFromStore(key)
	}
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		raw, _, err := s.loadFromStore(key)
		return raw, err
	})
	if err != nil {
		return nil, false, err
	}
	return v.(rlp.RawValue), true, nil
}

func (s *State) loadFromStore(key storageKey) (rlp.RawValue, bool, error) {
	raw, err := storageBucket.Get(s.store, key.encode())
	if err != nil {
		if s.store.IsNotFound(err) {
			return rlp.RawValue(nil), true, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr unfold.Address, key unfold.Bytes32) (unfold.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return unfold.Bytes32{}, err
	}
	if len(raw) == 0 {
		return unfold.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return unfold.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// structured value, represented by its hash
		return unfold.Blake2b(raw), nil
	}
	return unfold.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr unfold.Address, key, value unfold.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr unfold.Address, key unfold.Bytes32) (rlp.RawValue, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr unfold.Address, key unfold.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr unfold.Address, key unfold.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr unfold.Address, key unfold.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage makes a stage object holding the latest value of every changed slot.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes}
}
