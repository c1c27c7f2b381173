// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f        func()
		depth    int
		expected []any
	}{
		{func() {}, 0, M("bar", true, nil)},
		{func() { sm.Push() }, 1, M("bar", true, nil)},
		{func() { sm.Put("foo", "baz") }, 1, M("baz", true, nil)},
		{func() { sm.Push() }, 2, M("baz", true, nil)},
		{func() { sm.Put("foo", "qux") }, 2, M("qux", true, nil)},
		{func() { sm.Put("foo", "quux") }, 2, M("quux", true, nil)},
		{func() { sm.Pop() }, 1, M("baz", true, nil)},
		{func() { sm.Pop() }, 0, M("bar", true, nil)},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(t, test.depth, sm.Depth())
		assert.Equal(t, test.expected, M(sm.Get("foo")))
	}
}

func TestStackedMapPutsAndPopTo(t *testing.T) {
	sm := New(func(string) (int, bool, error) { return 0, false, nil })

	sm.Push()
	sm.Put("a", 1)
	depth := sm.Push()
	sm.Put("a", 2)
	sm.Put("b", 3)
	sm.Push()
	sm.Put("c", 4)

	sm.PopTo(depth)
	assert.Equal(t, 1, sm.Depth())
	assert.Equal(t, M(1, true, nil), M(sm.Get("a")))
	assert.Equal(t, M(0, false, nil), M(sm.Get("b")))
	assert.Equal(t, M(0, false, nil), M(sm.Get("c")))
}

func TestStackedMapJournal(t *testing.T) {
	sm := New(func(string) (int, bool, error) { return 0, false, nil })
	sm.Push()
	sm.Put("a", 1)
	sm.Push()
	sm.Put("b", 2)
	sm.Put("a", 3)

	var entries []JournalEntry[string, int]
	sm.Journal(func(k string, v int) bool {
		entries = append(entries, JournalEntry[string, int]{k, v})
		return true
	})
	assert.Equal(t, []JournalEntry[string, int]{{"a", 1}, {"b", 2}, {"a", 3}}, entries)

	n := 0
	sm.Journal(func(string, int) bool { n++; return false })
	assert.Equal(t, 1, n)
}

func TestStackedMapSourceError(t *testing.T) {
	errSrc := errors.New("source")
	sm := New(func(string) (int, bool, error) { return 0, false, errSrc })
	sm.Push()
	_, _, err := sm.Get("x")
	assert.ErrorIs(t, err, errSrc)

	sm.Put("x", 1)
	v, ok, err := sm.Get("x")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
