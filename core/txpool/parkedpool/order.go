package parkedpool

// Order is a total order over a ValidTx wrapper. It must be consistent with
// itself (antisymmetric, transitive) but need not be strict: ties are
// expected, and the pool breaks them using submission order (see Entry).
//
// Implementations are value types that wrap a ValidTx; Compare is expected
// to be cheap enough to sit on the insertion/removal hot path, since it runs
// on every Entry comparison inside the pool's best index.
type Order[T any] interface {
	// Compare returns a negative number if the receiver sorts before other,
	// zero if they're tied under this order, and a positive number if it
	// sorts after.
	Compare(other T) int
	// Tx returns the wrapped transaction handle.
	Tx() ValidTx
}

// BasefeeOrder orders transactions by max fee per gas, ascending: the worse
// (cheaper) a transaction's fee cap, the earlier it sorts. Combined with
// Entry's submission tie-break, the back of a BTreeG ordered by Entry.Compare
// is always the most promotable transaction in a BasefeePool.
type BasefeeOrder struct {
	tx ValidTx
}

// NewBasefeeOrder wraps tx for insertion into a BasefeePool.
func NewBasefeeOrder(tx ValidTx) BasefeeOrder { return BasefeeOrder{tx: tx} }

// Tx implements Order.
func (o BasefeeOrder) Tx() ValidTx { return o.tx }

// Compare implements Order.
func (o BasefeeOrder) Compare(other BasefeeOrder) int {
	return o.tx.MaxFeePerGas().Cmp(other.tx.MaxFeePerGas())
}

// QueuedOrder orders transactions by max fee per gas descending, then by
// submission timestamp ascending as a secondary key. It's the order a
// queued-by-cost sub-pool would use instead of BasefeeOrder; the parked pool
// spec only requires it to exist, not that it drive any operation beyond
// ordinary insertion and removal.
type QueuedOrder struct {
	tx ValidTx
}

// NewQueuedOrder wraps tx for insertion into a QueuedPool.
func NewQueuedOrder(tx ValidTx) QueuedOrder { return QueuedOrder{tx: tx} }

// Tx implements Order.
func (o QueuedOrder) Tx() ValidTx { return o.tx }

// Compare implements Order.
func (o QueuedOrder) Compare(other QueuedOrder) int {
	if c := other.tx.MaxFeePerGas().Cmp(o.tx.MaxFeePerGas()); c != 0 {
		return c
	}
	ot, oo := o.tx.Timestamp(), other.tx.Timestamp()
	switch {
	case ot.Before(oo):
		return -1
	case ot.After(oo):
		return 1
	default:
		return 0
	}
}

// Entry is the unit of storage in a Pool's best index: a submission-stamped
// ordered transaction. Its Compare composes the wrapper's order with a
// submission-id tie-break, so that two transactions tied under O never
// compare equal overall and ties resolve in favor of the older submission.
type Entry[O Order[O]] struct {
	submissionId uint64
	ord          O
}

// Tx returns the wrapped transaction handle.
func (e Entry[O]) Tx() ValidTx { return e.ord.Tx() }

// SubmissionId returns the submission_id this entry was stamped with.
func (e Entry[O]) SubmissionId() uint64 { return e.submissionId }

// Compare implements the pool's entry order: the wrapper's order first, then
// submission_id descending on ties, i.e. other.submissionId.cmp(self) — the
// older entry (lower submission_id) compares as Greater, so it sits at the
// back of an ascending index alongside the best of its fee-tied peers.
func (e Entry[O]) Compare(other Entry[O]) int {
	if c := e.ord.Compare(other.ord); c != 0 {
		return c
	}
	switch {
	case other.submissionId < e.submissionId:
		return -1
	case other.submissionId > e.submissionId:
		return 1
	default:
		return 0
	}
}
