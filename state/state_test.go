// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unfoldfi/unfold/lvldb"
	"github.com/unfoldfi/unfold/unfold"
)

func newStater(t *testing.T) (*Stater, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db), db
}

func TestStorage(t *testing.T) {
	stater, _ := newStater(t)
	st := stater.NewState()

	addr := unfold.BytesToAddress([]byte("pool"))
	key := unfold.BytesToBytes32([]byte("slot"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	value := unfold.BytesToBytes32([]byte{1, 2, 3})
	st.SetStorage(addr, key, value)
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, v)

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	expected, _ := rlp.EncodeToBytes([]byte{1, 2, 3})
	assert.Equal(t, rlp.RawValue(expected), raw)

	st.SetStorage(addr, key, unfold.Bytes32{})
	raw, _ = st.GetRawStorage(addr, key)
	assert.Empty(t, raw)
}

func TestEncodeDecodeStorage(t *testing.T) {
	stater, _ := newStater(t)
	st := stater.NewState()

	type record struct {
		A uint64
		B []byte
	}
	addr := unfold.BytesToAddress([]byte("a"))
	key := unfold.BytesToBytes32([]byte("k"))

	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&record{7, []byte("x")})
	}))

	var got record
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	}))
	assert.Equal(t, record{7, []byte("x")}, got)

	// list values read as their hash
	raw, _ := st.GetRawStorage(addr, key)
	h, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, unfold.Blake2b(raw), h)

	err = st.DecodeStorage(addr, key, func([]byte) error { return assert.AnError })
	var stateErr *Error
	assert.ErrorAs(t, err, &stateErr)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCheckpointRevert(t *testing.T) {
	stater, _ := newStater(t)
	st := stater.NewState()

	addr := unfold.BytesToAddress([]byte("a"))
	key := unfold.BytesToBytes32([]byte("k"))
	one := unfold.BytesToBytes32([]byte{1})
	two := unfold.BytesToBytes32([]byte{2})

	st.SetStorage(addr, key, one)
	cp := st.NewCheckpoint()
	st.SetStorage(addr, key, two)
	v, _ := st.GetStorage(addr, key)
	assert.Equal(t, two, v)

	st.RevertTo(cp)
	v, _ = st.GetStorage(addr, key)
	assert.Equal(t, one, v)

	// reverting to the base keeps the state writable
	st.RevertTo(0)
	v, _ = st.GetStorage(addr, key)
	assert.True(t, v.IsZero())
	st.SetStorage(addr, key, two)
	v, _ = st.GetStorage(addr, key)
	assert.Equal(t, two, v)
}

func TestStageCommit(t *testing.T) {
	stater, db := newStater(t)
	st := stater.NewState()

	addr := unfold.BytesToAddress([]byte("a"))
	k1 := unfold.BytesToBytes32([]byte("k1"))
	k2 := unfold.BytesToBytes32([]byte("k2"))
	st.SetStorage(addr, k1, unfold.BytesToBytes32([]byte{1}))
	st.SetStorage(addr, k1, unfold.BytesToBytes32([]byte{9}))
	st.SetStorage(addr, k2, unfold.BytesToBytes32([]byte{2}))

	stage, err := stater.Commit(st)
	require.NoError(t, err)
	assert.Equal(t, 2, stage.Len())
	assert.Equal(t, stage.Hash(), st.Stage().Hash())

	// fresh state over a fresh stater reads from the store
	fresh := NewStater(db).NewState()
	v, err := fresh.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, unfold.BytesToBytes32([]byte{9}), v)

	// clearing a slot deletes it
	fresh.SetStorage(addr, k2, unfold.Bytes32{})
	_, err = stater.Commit(fresh)
	require.NoError(t, err)
	has, err := storageBucket.Has(db, storageKey{addr, k2}.encode())
	require.NoError(t, err)
	assert.False(t, has)

	v, _ = stater.NewState().GetStorage(addr, k2)
	assert.True(t, v.IsZero())
}

func TestStageHashIsOrderIndependent(t *testing.T) {
	stater, _ := newStater(t)
	addr := unfold.BytesToAddress([]byte("a"))
	k1 := unfold.BytesToBytes32([]byte("k1"))
	k2 := unfold.BytesToBytes32([]byte("k2"))

	s1 := stater.NewState()
	s1.SetStorage(addr, k1, unfold.BytesToBytes32([]byte{1}))
	s1.SetStorage(addr, k2, unfold.BytesToBytes32([]byte{2}))

	s2 := stater.NewState()
	s2.SetStorage(addr, k2, unfold.BytesToBytes32([]byte{2}))
	s2.SetStorage(addr, k1, unfold.BytesToBytes32([]byte{1}))

	assert.Equal(t, s1.Stage().Hash(), s2.Stage().Hash())
}
