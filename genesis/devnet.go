// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	_ "embed"
	"sync"

	"github.com/unfoldfi/unfold/unfold"
)

//go:embed devnet.yaml
var devnetYAML []byte

var devnet = sync.OnceValues(func() (*Genesis, error) {
	cfg, err := ParseConfig(devnetYAML)
	if err != nil {
		return nil, err
	}
	return New(cfg)
})

// DevnetConfig returns the raw devnet deployment.
func DevnetConfig() []byte {
	return devnetYAML
}

// NewDevnet create genesis for solo mode.
func NewDevnet() *Genesis {
	gen, err := devnet()
	if err != nil {
		panic(err)
	}
	return gen
}

// DevAccounts returns the accounts funded with pool tokens on devnet.
func DevAccounts() []unfold.Address {
	cfg := NewDevnet().Config()
	seen := make(map[string]bool)
	var accs []unfold.Address
	for _, a := range cfg.Accounts {
		if !seen[a.Address] {
			seen[a.Address] = true
			accs = append(accs, mustAddress(a.Address))
		}
	}
	return accs
}
