// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/unfoldfi/unfold/unfold"

// Info describes the running node. It's fixed at startup.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Solo    bool   `json:"solo"`
}

type Status struct {
	Info
	GenesisID unfold.Bytes32 `json:"genesisId"`
	Seq       uint64         `json:"seq"`
	Time      uint64         `json:"time"`
	Now       uint64         `json:"now"`
}

type Contract struct {
	Address unfold.Address `json:"address"`
	Kind    string         `json:"kind"`
	Name    string         `json:"name"`
}

type WarpRequest struct {
	Seconds uint64 `json:"seconds"`
}
