// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Signal is a channel based broadcaster. Waiters obtained before a Broadcast
// are all woken by it, so they can select on it alongside other channels.
type Signal struct {
	l  sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all goroutines that are waiting on s.
func (s *Signal) Broadcast() {
	s.l.Lock()
	defer s.l.Unlock()

	close(s.current())
	s.ch = make(chan struct{})
}

// Waiter returns the channel closed by the next Broadcast.
func (s *Signal) Waiter() <-chan struct{} {
	s.l.Lock()
	defer s.l.Unlock()

	return s.current()
}
