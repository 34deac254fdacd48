package parkedpool

import "github.com/holiman/uint256"

// BasefeePool is the parked-by-basefee sub-pool: a Pool ordered by
// BasefeeOrder, with the additional ability to sweep itself against a
// moving base fee while honoring nonce dependency.
type BasefeePool struct {
	*Pool[BasefeeOrder]
}

// NewBasefeePool creates an empty basefee-ordered parked pool.
func NewBasefeePool() *BasefeePool {
	return &BasefeePool{Pool: NewPool[BasefeeOrder]()}
}

// AddTransaction wraps tx in a BasefeeOrder and inserts it. Panics on a
// duplicate id; see Pool.AddTransaction.
func (p *BasefeePool) AddTransaction(tx ValidTx) {
	p.Pool.AddTransaction(NewBasefeeOrder(tx))
	basefeeGauge.Update(int64(p.Len()))
	basefeeSizeGauge.Update(int64(p.Size()))
}

// RemoveTransaction delegates to Pool.RemoveTransaction and refreshes the
// depth/size gauges.
func (p *BasefeePool) RemoveTransaction(id TransactionId) (ValidTx, bool) {
	tx, ok := p.Pool.RemoveTransaction(id)
	if ok {
		basefeeGauge.Update(int64(p.Len()))
		basefeeSizeGauge.Update(int64(p.Size()))
	}
	return tx, ok
}

// TruncatePool delegates to Pool.TruncatePool and accounts the eviction.
func (p *BasefeePool) TruncatePool(limit SubPoolLimit) []ValidTx {
	removed := p.Pool.TruncatePool(limit)
	if len(removed) > 0 {
		basefeeGauge.Update(int64(p.Len()))
		basefeeSizeGauge.Update(int64(p.Size()))
		basefeeEvictedMeter.Mark(int64(len(removed)))
	}
	return removed
}

// SatisfyBaseFeeIds returns the ids of resident transactions that qualify
// for promotion given basefee: tx.MaxFeePerGas() >= basefee, widened to
// uint256 for the comparison since MaxFeePerGas can exceed a u64.
//
// Nonce dependency: by_id is walked sender-major, nonce-ascending. The first
// transaction from a sender that fails to satisfy basefee causes every
// later transaction from that same sender to be skipped for the rest of
// this sweep, even if its own fee would otherwise clear basefee -- a
// descendant can't execute while its ancestor nonce is still parked.
func (p *BasefeePool) SatisfyBaseFeeIds(basefee uint64) []TransactionId {
	limit := uint256.NewInt(basefee)

	var (
		ids         []TransactionId
		skipSender  SenderId
		skipping    bool
	)
	p.byId.Ascend(func(rec idRecord[BasefeeOrder]) bool {
		if skipping && rec.id.Sender == skipSender {
			return true
		}
		skipping = false

		if rec.entry.Tx().MaxFeePerGas().Lt(limit) {
			skipSender = rec.id.Sender
			skipping = true
			return true
		}
		ids = append(ids, rec.id)
		return true
	})
	return ids
}

// SatisfyBaseFeeTransactions is the non-destructive counterpart to
// EnforceBaseFee: it returns handles for the satisfying set without
// removing anything from the pool.
func (p *BasefeePool) SatisfyBaseFeeTransactions(basefee uint64) []ValidTx {
	ids := p.SatisfyBaseFeeIds(basefee)
	txs := make([]ValidTx, 0, len(ids))
	for _, id := range ids {
		if rec, ok := p.byId.Get(idRecord[BasefeeOrder]{id: id}); ok {
			txs = append(txs, rec.entry.Tx())
		}
	}
	return txs
}

// EnforceBaseFee removes every transaction that satisfies basefee (i.e. that
// should leave the parked pool and be promoted to pending) and returns the
// removed handles. Despite the name, this removes the transactions that now
// clear the fee bar, not the ones that still violate it -- the violators are
// exactly what's left behind. Order of the returned slice is not meaningful.
func (p *BasefeePool) EnforceBaseFee(basefee uint64) []ValidTx {
	ids := p.SatisfyBaseFeeIds(basefee)
	removed := make([]ValidTx, 0, len(ids))
	for _, id := range ids {
		if tx, ok := p.RemoveTransaction(id); ok {
			removed = append(removed, tx)
		}
	}
	return removed
}
