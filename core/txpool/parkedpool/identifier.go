package parkedpool

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// SenderId is a dense integer handle for an account address. Handles are
// assigned in first-seen order by a SenderIdentifiers and are stable for the
// lifetime of the process; they exist so the pool's indexes never have to
// compare or hash a full 20-byte address on the hot path.
type SenderId uint64

// LowerBound returns the smallest TransactionId that can belong to sender s,
// i.e. the key a range scan over by_id should start from to enumerate every
// transaction of this sender.
func (s SenderId) LowerBound() TransactionId {
	return TransactionId{Sender: s, Nonce: 0}
}

// TransactionId uniquely identifies a transaction within the pool. Its
// ordering is lexicographic on (Sender, Nonce); this is load-bearing, since
// it's what makes every sender's transactions a contiguous ascending-nonce
// run inside by_id.
type TransactionId struct {
	Sender SenderId
	Nonce  uint64
}

// Less reports whether id sorts strictly before other under the
// (Sender, Nonce) lexicographic order.
func (id TransactionId) Less(other TransactionId) bool {
	if id.Sender != other.Sender {
		return id.Sender < other.Sender
	}
	return id.Nonce < other.Nonce
}

// SenderIdentifiers interns account addresses into dense SenderId handles.
// It is the upstream step the pool itself doesn't perform: by the time a
// transaction reaches Pool.AddTransaction its TransactionId already carries
// a resolved SenderId.
//
// Safe for concurrent use; the pool it feeds is not, but address resolution
// commonly happens earlier in the validation pipeline, on a different
// goroutine than the one serializing pool mutations.
type SenderIdentifiers struct {
	mu      sync.Mutex
	nextId  SenderId
	idOf    map[common.Address]SenderId
	addrOf  map[SenderId]common.Address
}

// NewSenderIdentifiers creates an empty address<->SenderId interner.
func NewSenderIdentifiers() *SenderIdentifiers {
	return &SenderIdentifiers{
		idOf:   make(map[common.Address]SenderId),
		addrOf: make(map[SenderId]common.Address),
	}
}

// SenderId returns the dense handle for addr, allocating a new one the first
// time addr is seen.
func (s *SenderIdentifiers) SenderId(addr common.Address) SenderId {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.idOf[addr]; ok {
		return id
	}
	id := s.nextId
	s.nextId++
	s.idOf[addr] = id
	s.addrOf[id] = addr
	return id
}

// SenderIdIfExists returns the handle already allocated for addr, if any,
// without allocating a new one.
func (s *SenderIdentifiers) SenderIdIfExists(addr common.Address) (SenderId, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.idOf[addr]
	return id, ok
}

// Address resolves a previously-issued SenderId back to its account address.
func (s *SenderIdentifiers) Address(id SenderId) (common.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr, ok := s.addrOf[id]
	return addr, ok
}
