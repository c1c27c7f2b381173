// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/cache"
	"github.com/unfoldfi/unfold/kv"
	"github.com/unfoldfi/unfold/unfold"
)

// Stage abstracts changes on the main accounts trie.
type Stage struct {
	changes map[storageKey]rlp.RawValue
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes a digest over all changes, in key order.
func (s *Stage) Hash() unfold.Bytes32 {
	keys := s.sortedKeys()
	data := make([][]byte, 0, len(keys)*2)
	for _, k := range keys {
		data = append(data, k, s.changes[decodeKey(k)])
	}
	return unfold.Blake2b(data...)
}

// Commit writes all changes into the store in one batch, and refreshes the cache.
// Extra writers add their own records to the same batch.
func (s *Stage) Commit(store kv.Store, c *cache.LRU, extras ...func(kv.Putter) error) error {
	bulk := store.Bulk()
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = storageBucket.Delete(bulk, k.encode())
		} else {
			err = storageBucket.Put(bulk, k.encode(), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	for _, extra := range extras {
		if err := extra(bulk); err != nil {
			return errors.Wrap(err, "stage extra")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit")
	}
	if c != nil {
		for k, v := range s.changes {
			c.Add(k, v)
		}
	}
	metricStorageCommits().Add(int64(len(s.changes)))
	return nil
}

func (s *Stage) sortedKeys() [][]byte {
	keys := make([][]byte, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k.encode())
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})
	return keys
}

func decodeKey(b []byte) (k storageKey) {
	copy(k.addr[:], b[:len(k.addr)])
	copy(k.key[:], b[len(k.addr):])
	return
}
