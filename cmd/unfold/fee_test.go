// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unfoldfi/unfold/builtin/feeschedule"
	"github.com/unfoldfi/unfold/genesis"
	"github.com/unfoldfi/unfold/unfold"
)

func TestFindPool(t *testing.T) {
	cfg := genesis.NewDevnet().Config()

	p, err := findPool(cfg, "dai-pool")
	require.NoError(t, err)
	assert.Equal(t, "dai-pool", p.Name)

	p, err = findPool(cfg, "0x0000000000000000000000000000000000E71002")
	require.NoError(t, err)
	assert.Equal(t, "weth-pool", p.Name)

	_, err = findPool(cfg, "nope")
	assert.Error(t, err)
	_, err = findPool(cfg, "")
	assert.Error(t, err)
}

func TestWriteFeeTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFeeTable(&buf, feeschedule.Default(), nil))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"AFTER", "FEE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0", "10%"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1w", "7.5%"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"4w", "0%"}, strings.Fields(lines[5]))

	buf.Reset()
	amount, _ := uint256.FromBig(unfold.Units(200))
	require.NoError(t, writeFeeTable(&buf, feeschedule.Default(), amount))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"0", "10%", "20", "180"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"3w", "2.5%", "5", "195"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"4w", "0%", "0", "200"}, strings.Fields(lines[5]))
}
