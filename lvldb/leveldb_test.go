// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unfoldfi/unfold/kv"
)

func TestLevelDB(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	v, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	has, err := db.Has([]byte("a"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("a")))
	has, _ = db.Has([]byte("a"))
	assert.False(t, has)
}

func TestBulkAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := db.Bulk()
	for _, k := range []string{"p1", "p2", "p3", "q1"} {
		require.NoError(t, b.Put([]byte(k), []byte(k)))
	}
	assert.Equal(t, 4, b.Len())

	// nothing visible before write
	has, _ := db.Has([]byte("p1"))
	assert.False(t, has)

	require.NoError(t, b.Write())
	assert.Equal(t, 0, b.Len())

	it := db.Iterate(kv.Bucket("p").Range())
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"p1", "p2", "p3"}, keys)
}
