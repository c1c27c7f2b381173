// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage.
//
// Every contract owns a flat key space of 32-byte slots holding RLP encoded
// values. Changes are journaled in memory with revertible checkpoints and
// flushed to the underlying kv store in one batch by a Stage.
package state
