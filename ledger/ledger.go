// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger serializes contract calls over the persistent state and
// publishes the committed receipts.
package ledger

import (
	"encoding/binary"
	"encoding/json"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/cache"
	"github.com/unfoldfi/unfold/co"
	"github.com/unfoldfi/unfold/genesis"
	"github.com/unfoldfi/unfold/kv"
	"github.com/unfoldfi/unfold/log"
	"github.com/unfoldfi/unfold/runtime"
	"github.com/unfoldfi/unfold/state"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

const (
	metaBucket    = kv.Bucket("m")
	receiptBucket = kv.Bucket("r")

	receiptCacheSize = 1024
)

var (
	logger = log.WithContext("pkg", "ledger")

	errNotFound = errors.New("not found")

	genesisIDKey = []byte("genesis-id")
	headKey      = []byte("head")
)

// Clock returns the current unix time in seconds.
type Clock func() uint64

// SystemClock reads the wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// Receipt records a committed call.
type Receipt struct {
	Seq    uint64        `json:"seq"`
	Time   uint64        `json:"time"`
	Method string        `json:"method"`
	Events []*xenv.Event `json:"events"`
}

// head is the position of the ledger, persisted in RLP with every commit.
type head struct {
	Seq  uint64
	Time uint64
}

// Service executes calls one at a time. Each call runs atomically and is
// committed in a single batch with its receipt.
//
// It's thread-safe.
type Service struct {
	mu     sync.RWMutex
	store  kv.Store
	stater *state.Stater
	clock  Clock
	offset uint64

	genesisID unfold.Bytes32
	head      head

	receipts *cache.LRU
	tick     co.Signal
}

// New opens the ledger in store, building the genesis on first use.
func New(store kv.Store, gen *genesis.Genesis, clock Clock) (*Service, error) {
	if clock == nil {
		clock = SystemClock
	}
	receipts, err := cache.NewLRU(receiptCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Service{
		store:     store,
		stater:    state.NewStater(store),
		clock:     clock,
		genesisID: gen.ID(),
		receipts:  receipts,
	}

	val, err := metaBucket.Get(store, genesisIDKey)
	if err != nil {
		if !store.IsNotFound(err) {
			return nil, errors.Wrap(err, "get genesis id")
		}
		s.head = head{Seq: 0, Time: gen.LaunchTime()}
		if _, err := gen.Build(s.stater, s.saveMeta); err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
		logger.Info("genesis built", "name", gen.Name(), "id", gen.ID())
		return s, nil
	}

	if unfold.BytesToBytes32(val) != gen.ID() {
		return nil, errors.New("genesis mismatch")
	}
	raw, err := metaBucket.Get(store, headKey)
	if err != nil {
		return nil, errors.Wrap(err, "get head")
	}
	if err := rlp.DecodeBytes(raw, &s.head); err != nil {
		return nil, errors.Wrap(err, "decode head")
	}
	logger.Info("ledger opened", "genesis", gen.ID(), "seq", s.head.Seq, "time", s.head.Time)
	return s, nil
}

func (s *Service) saveMeta(putter kv.Putter) error {
	if err := metaBucket.Put(putter, genesisIDKey, s.genesisID.Bytes()); err != nil {
		return err
	}
	data, err := rlp.EncodeToBytes(&s.head)
	if err != nil {
		return err
	}
	return metaBucket.Put(putter, headKey, data)
}

// GenesisID returns the id of the genesis the ledger was built from.
func (s *Service) GenesisID() unfold.Bytes32 {
	return s.genesisID
}

// Head returns the sequence and time of the latest commit.
func (s *Service) Head() (seq, ts uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.head.Seq, s.head.Time
}

// Now returns the time the next call executes at. It never goes backwards.
func (s *Service) Now() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

func (s *Service) now() uint64 {
	return max(s.clock()+s.offset, s.head.Time)
}

// Warp moves the ledger clock forward by secs.
func (s *Service) Warp(secs uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset += secs
	logger.Info("clock warped", "secs", secs, "offset", s.offset)
	return s.now()
}

// View runs fn against the committed state at the current time. Writes made by fn are discarded.
func (s *Service) View(fn func(c *builtin.Contracts) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rt := runtime.New(s.stater.NewState(), &xenv.BlockContext{
		Number: uint32(s.head.Seq),
		Time:   s.now(),
	})
	return fn(builtin.New(rt.Environment()))
}

// Execute runs fn as one atomic call and commits it. Nothing is written when fn fails.
func (s *Service) Execute(method string, fn func(c *builtin.Contracts) error) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		now = s.now()
		st  = s.stater.NewState()
		rt  = runtime.New(st, &xenv.BlockContext{Number: uint32(s.head.Seq + 1), Time: now})
	)
	out, err := rt.Call(method, func(env *xenv.Environment) error {
		return fn(builtin.New(env))
	})
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Seq:    s.head.Seq + 1,
		Time:   now,
		Method: method,
		Events: out.Events,
	}
	data, err := json.Marshal(receipt)
	if err != nil {
		return nil, errors.Wrap(err, "encode receipt")
	}

	prev := s.head
	s.head = head{Seq: receipt.Seq, Time: now}
	if _, err := s.stater.Commit(st, s.saveMeta, func(putter kv.Putter) error {
		return receiptBucket.Put(putter, seqKey(receipt.Seq), data)
	}); err != nil {
		s.head = prev
		return nil, err
	}
	s.receipts.Add(receipt.Seq, data)
	s.tick.Broadcast()

	metricCommitCount().Add(1)
	logger.Debug("call committed", "method", method, "seq", receipt.Seq, "events", len(receipt.Events))
	return receipt, nil
}

// Receipt returns the encoded receipt of the call with the given sequence.
func (s *Service) Receipt(seq uint64) ([]byte, error) {
	v, err := s.receipts.GetOrLoad(seq, func(any) (any, error) {
		data, err := receiptBucket.Get(s.store, seqKey(seq))
		if err != nil {
			if s.store.IsNotFound(err) {
				return nil, errNotFound
			}
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// IsNotFound returns whether the error is caused by a missing receipt.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// Ticker returns a channel closed by the next commit.
func (s *Service) Ticker() <-chan struct{} {
	return s.tick.Waiter()
}

func seqKey(seq uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, seq)
}
