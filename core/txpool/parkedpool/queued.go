package parkedpool

// QueuedPool is the queued-by-cost sub-pool: a Pool ordered by QueuedOrder
// instead of BasefeeOrder. It completes the generalization the parked-pool
// design calls for -- the same bijection, submission tie-break and
// sender-trailer eviction apply unchanged, just ranked by a different total
// order. Unlike BasefeePool it has no fee sweep of its own: queued
// transactions leave on nonce-gap resolution or balance top-up, decisions
// made upstream of this package.
type QueuedPool struct {
	*Pool[QueuedOrder]
}

// NewQueuedPool creates an empty cost-ordered queued pool.
func NewQueuedPool() *QueuedPool {
	return &QueuedPool{Pool: NewPool[QueuedOrder]()}
}

// AddTransaction wraps tx in a QueuedOrder and inserts it. Panics on a
// duplicate id; see Pool.AddTransaction.
func (p *QueuedPool) AddTransaction(tx ValidTx) {
	p.Pool.AddTransaction(NewQueuedOrder(tx))
	queuedGauge.Update(int64(p.Len()))
	queuedSizeGauge.Update(int64(p.Size()))
}

// RemoveTransaction delegates to Pool.RemoveTransaction and refreshes the
// depth/size gauges.
func (p *QueuedPool) RemoveTransaction(id TransactionId) (ValidTx, bool) {
	tx, ok := p.Pool.RemoveTransaction(id)
	if ok {
		queuedGauge.Update(int64(p.Len()))
		queuedSizeGauge.Update(int64(p.Size()))
	}
	return tx, ok
}

// TruncatePool delegates to Pool.TruncatePool and refreshes the gauges.
func (p *QueuedPool) TruncatePool(limit SubPoolLimit) []ValidTx {
	removed := p.Pool.TruncatePool(limit)
	if len(removed) > 0 {
		queuedGauge.Update(int64(p.Len()))
		queuedSizeGauge.Update(int64(p.Size()))
	}
	return removed
}
