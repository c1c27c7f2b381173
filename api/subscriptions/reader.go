// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"

	"github.com/unfoldfi/unfold/ledger"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

// maxBatch caps the receipts returned by one Read.
const maxBatch = 64

// Filter selects events. Zero fields match anything.
type Filter struct {
	Contract *unfold.Address
	Name     string
}

func (f *Filter) empty() bool {
	return f == nil || (f.Contract == nil && f.Name == "")
}

func (f *Filter) match(ev *xenv.Event) bool {
	if f.Contract != nil && *f.Contract != ev.Address {
		return false
	}
	return f.Name == "" || f.Name == ev.Name
}

// Reader walks committed receipts after a position.
type Reader struct {
	svc    *ledger.Service
	pos    uint64
	filter *Filter
}

func NewReader(svc *ledger.Service, pos uint64, filter *Filter) *Reader {
	return &Reader{svc, pos, filter}
}

// Read returns the encoded receipts committed since the previous read.
// With a filter, receipts keep only the matching events and are skipped when none match.
func (r *Reader) Read() ([][]byte, error) {
	head, _ := r.svc.Head()
	var msgs [][]byte
	for r.pos < head && len(msgs) < maxBatch {
		data, err := r.svc.Receipt(r.pos + 1)
		if err != nil {
			return nil, err
		}
		r.pos++

		if r.filter.empty() {
			msgs = append(msgs, data)
			continue
		}
		var receipt ledger.Receipt
		if err := json.Unmarshal(data, &receipt); err != nil {
			return nil, err
		}
		events := receipt.Events[:0]
		for _, ev := range receipt.Events {
			if r.filter.match(ev) {
				events = append(events, ev)
			}
		}
		if len(events) == 0 {
			continue
		}
		receipt.Events = events
		filtered, err := json.Marshal(&receipt)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, filtered)
	}
	return msgs, nil
}
