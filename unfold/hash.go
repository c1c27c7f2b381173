// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unfold

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

var blake2bPool = sync.Pool{
	New: func() any {
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Blake2b computes blake2b-256 checksum for given data.
// It is used to derive storage positions of mapping entries.
func Blake2b(data ...[]byte) (h Bytes32) {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	w := blake2bPool.Get().(hash.Hash)
	for _, b := range data {
		w.Write(b)
	}
	w.Sum(h[:0])
	w.Reset()
	blake2bPool.Put(w)
	return
}

// Keccak256 computes legacy keccak-256 checksum, used for event and slot names.
func Keccak256(data ...[]byte) (h Bytes32) {
	k := sha3.NewLegacyKeccak256()
	for _, b := range data {
		k.Write(b)
	}
	k.Sum(h[:0])
	return
}
