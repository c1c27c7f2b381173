// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store.
type Bucket string

// Get to get value.
func (b Bucket) Get(src Getter, key []byte) ([]byte, error) {
	return src.Get(b.key(key))
}

// Has to check if key exists.
func (b Bucket) Has(src Getter, key []byte) (bool, error) {
	return src.Has(b.key(key))
}

// Put to put value.
func (b Bucket) Put(dst Putter, key, val []byte) error {
	return dst.Put(b.key(key), val)
}

// Delete to delete value.
func (b Bucket) Delete(dst Putter, key []byte) error {
	return dst.Delete(b.key(key))
}

// Range returns the key range covering the bucket.
func (b Bucket) Range() Range {
	start := []byte(b)
	limit := make([]byte, len(start))
	copy(limit, start)
	for i := len(limit) - 1; i >= 0; i-- {
		limit[i]++
		if limit[i] != 0 {
			return Range{Start: start, Limit: limit[:i+1]}
		}
	}
	return Range{Start: start}
}

func (b Bucket) key(key []byte) []byte {
	return append([]byte(b), key...)
}
