package parkedpool

import (
	"fmt"
	"sort"

	"github.com/google/btree"
)

// btreeDegree controls the branching factor of the underlying B-trees. 32 is
// the degree google/btree's own benchmarks settle on for pointer-sized
// items; there's nothing pool-specific about the choice.
const btreeDegree = 32

// SubPoolLimit bounds a pool. TruncatePool enforces MaxTxs; MaxSize is kept
// for interface compatibility with the byte-size limit enforced elsewhere in
// the mempool, one layer up from this package (see spec's design notes on
// why the source doesn't trim by size here).
type SubPoolLimit struct {
	MaxTxs  int
	MaxSize uint64
}

// SubmissionSenderId pairs a sender with the newest submission_id it has
// contributed to the pool. It's the unit GetSendersBySubmissionId returns,
// ordered so the least-recently-active sender sorts first.
type SubmissionSenderId struct {
	Sender       SenderId
	SubmissionId uint64
}

// idRecord is the item type stored in a Pool's by_id index: a TransactionId
// paired with the Entry resident under it, so a single lookup by id yields
// both the key and everything needed to remove the matching entry from best.
type idRecord[O Order[O]] struct {
	id    TransactionId
	entry Entry[O]
}

// Pool is the parked transaction sub-pool, generic over the total order O
// used to rank its transactions. It maintains the bijection invariant
// between by_id (keyed on TransactionId, sender-major/nonce-ascending) and
// best (keyed on Entry[O]'s order): every AddTransaction and
// RemoveTransaction touches both in the same call.
//
// Pool is not safe for concurrent use. Callers are expected to serialize
// access the way the rest of the mempool does for its other sub-pools (a
// single exclusive lock around every mutating call).
type Pool[O Order[O]] struct {
	submissionId uint64
	byId         *btree.BTreeG[idRecord[O]]
	best         *btree.BTreeG[Entry[O]]
	sizeOf       uint64
}

// NewPool creates an empty pool ordered by O.
func NewPool[O Order[O]]() *Pool[O] {
	return &Pool[O]{
		byId: btree.NewG(btreeDegree, func(a, b idRecord[O]) bool { return a.id.Less(b.id) }),
		best: btree.NewG(btreeDegree, func(a, b Entry[O]) bool { return a.Compare(b) < 0 }),
	}
}

// AddTransaction inserts ord, stamping it with the next submission_id.
//
// It panics if ord's TransactionId is already resident: a caller re-adding a
// live id is a programmer error in the surrounding mempool, not a condition
// this pool can recover from safely, so it fails loudly rather than silently
// replacing the existing entry.
func (p *Pool[O]) AddTransaction(ord O) {
	id := ord.Tx().ID()
	if _, exists := p.byId.Get(idRecord[O]{id: id}); exists {
		panic(fmt.Sprintf("parkedpool: AddTransaction called with an id already in the pool: %+v", id))
	}

	submissionId := p.submissionId
	p.submissionId++ // wraps on overflow; see spec §7.

	entry := Entry[O]{submissionId: submissionId, ord: ord}
	p.byId.ReplaceOrInsert(idRecord[O]{id: id, entry: entry})
	p.best.ReplaceOrInsert(entry)
	p.sizeOf += ord.Tx().Size()
}

// RemoveTransaction removes the transaction identified by id, if resident,
// from both indexes and returns its handle. Removing an absent id is a
// no-op; ok reports whether anything was removed.
func (p *Pool[O]) RemoveTransaction(id TransactionId) (tx ValidTx, ok bool) {
	rec, found := p.byId.Get(idRecord[O]{id: id})
	if !found {
		return nil, false
	}
	p.byId.Delete(idRecord[O]{id: id})
	p.best.Delete(rec.entry)
	p.sizeOf -= rec.entry.Tx().Size()
	return rec.entry.Tx(), true
}

// Contains reports whether id is currently resident.
func (p *Pool[O]) Contains(id TransactionId) bool {
	return p.byId.Has(idRecord[O]{id: id})
}

// Len returns the number of resident transactions.
func (p *Pool[O]) Len() int { return p.byId.Len() }

// Size returns the aggregate byte cost of resident transactions.
func (p *Pool[O]) Size() uint64 { return p.sizeOf }

// All calls yield once per resident transaction in by_id order
// (sender-major, ascending nonce within a sender), stopping early if yield
// returns false.
func (p *Pool[O]) All(yield func(ValidTx) bool) {
	p.byId.Ascend(func(rec idRecord[O]) bool {
		return yield(rec.entry.Tx())
	})
}

// Best calls yield once per resident transaction in ascending Entry order,
// stopping early if yield returns false. Under BasefeeOrder this runs from
// the lowest fee cap to the highest, so the last transaction visited is the
// most promotable; QueuedOrder sorts higher fee caps first, so a QueuedPool
// visits its highest-fee transaction first.
func (p *Pool[O]) Best(yield func(ValidTx) bool) {
	p.best.Ascend(func(e Entry[O]) bool {
		return yield(e.Tx())
	})
}

// GetTxsBySender returns sender's resident transaction ids in ascending
// nonce order, obtained by range-scanning by_id from the sender's lower
// bound and taking while the sender matches.
func (p *Pool[O]) GetTxsBySender(sender SenderId) []TransactionId {
	var ids []TransactionId
	p.byId.AscendGreaterOrEqual(idRecord[O]{id: sender.LowerBound()}, func(rec idRecord[O]) bool {
		if rec.id.Sender != sender {
			return false
		}
		ids = append(ids, rec.id)
		return true
	})
	return ids
}

// GetSendersBySubmissionId returns one record per distinct resident sender,
// each carrying that sender's highest submission_id, sorted ascending by
// that value: the least-recently-active sender (the oldest "newest
// submission") comes first.
func (p *Pool[O]) GetSendersBySubmissionId() []SubmissionSenderId {
	var out []SubmissionSenderId
	p.byId.Ascend(func(rec idRecord[O]) bool {
		if n := len(out); n > 0 && out[n-1].Sender == rec.id.Sender {
			if sub := rec.entry.SubmissionId(); sub > out[n-1].SubmissionId {
				out[n-1].SubmissionId = sub
			}
			return true
		}
		out = append(out, SubmissionSenderId{Sender: rec.id.Sender, SubmissionId: rec.entry.SubmissionId()})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionId < out[j].SubmissionId })
	return out
}

// TruncatePool trims the pool to at most limit.MaxTxs transactions by
// evicting whole sender trailers, popping the most-recently-active sender
// first from the list produced by GetSendersBySubmissionId. A sender whose
// entire backlog fits within the remaining drop count is removed wholesale;
// otherwise only its high-nonce tail is dropped, preserving the
// executability of its lower nonces. Returns every removed transaction in
// removal order.
func (p *Pool[O]) TruncatePool(limit SubPoolLimit) []ValidTx {
	if p.Len() <= limit.MaxTxs {
		return nil
	}
	drop := p.Len() - limit.MaxTxs

	senders := p.GetSendersBySubmissionId()
	var removed []ValidTx

	for drop > 0 && len(senders) > 0 {
		sender := senders[len(senders)-1].Sender
		senders = senders[:len(senders)-1]

		ids := p.GetTxsBySender(sender)
		if len(ids) <= drop {
			for _, id := range ids {
				if tx, ok := p.RemoveTransaction(id); ok {
					removed = append(removed, tx)
				}
			}
			drop -= len(ids)
			continue
		}

		tail := ids[len(ids)-drop:]
		for _, id := range tail {
			if tx, ok := p.RemoveTransaction(id); ok {
				removed = append(removed, tx)
			}
		}
		drop = 0
	}
	return removed
}
