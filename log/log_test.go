// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsRoot(t *testing.T) {
	logger := WithContext("pkg", "test")

	prev := ethlog.Root()
	defer ethlog.SetDefault(prev)

	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(slog.LevelInfo)
	ethlog.SetDefault(ethlog.NewLogger(ethlog.JSONHandlerWithLevel(&buf, &level)))

	logger.Debug("hidden")
	logger.With("pool", "dai").Info("staked", "amount", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "staked", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, "dai", rec["pool"])
	assert.Equal(t, float64(7), rec["amount"])
	assert.False(t, logger.Enabled(t.Context(), slog.LevelDebug))
}
