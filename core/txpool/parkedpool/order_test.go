package parkedpool

import (
	"testing"
	"time"
)

func TestBasefeeOrderAscending(t *testing.T) {
	cheap := NewBasefeeOrder(newFakeTx(1, 0, 10))
	rich := NewBasefeeOrder(newFakeTx(1, 1, 20))

	if cheap.Compare(rich) >= 0 {
		t.Fatalf("cheaper fee should compare before richer fee")
	}
	if rich.Compare(cheap) <= 0 {
		t.Fatalf("richer fee should compare after cheaper fee")
	}
	if cheap.Compare(cheap) != 0 {
		t.Fatalf("equal fees should compare equal")
	}
}

func TestQueuedOrderDescendingFeeThenAscendingAge(t *testing.T) {
	older := NewQueuedOrder(newFakeTx(1, 0, 10).withTimestamp(time.Unix(100, 0)))
	younger := NewQueuedOrder(newFakeTx(1, 1, 10).withTimestamp(time.Unix(200, 0)))

	if older.Compare(younger) >= 0 {
		t.Fatalf("at equal fee, the older (earlier timestamp) entry should sort before the younger one")
	}

	cheaper := NewQueuedOrder(newFakeTx(1, 2, 5))
	pricier := NewQueuedOrder(newFakeTx(1, 3, 50))

	if pricier.Compare(cheaper) >= 0 {
		t.Fatalf("primary order is descending by fee: a pricier transaction must sort before a cheaper one")
	}
}

func TestEntryCompareOlderWinsTies(t *testing.T) {
	tx1 := newFakeTx(1, 0, 10)
	tx2 := newFakeTx(1, 1, 10)

	older := Entry[BasefeeOrder]{submissionId: 5, ord: NewBasefeeOrder(tx1)}
	newer := Entry[BasefeeOrder]{submissionId: 6, ord: NewBasefeeOrder(tx2)}

	if older.Compare(newer) <= 0 {
		t.Fatalf("on a fee tie, the entry with the lower submission_id (older) must compare Greater, not %d", older.Compare(newer))
	}
	if newer.Compare(older) >= 0 {
		t.Fatalf("the newer entry must compare Less than the older one on a fee tie")
	}
}

func TestEntryCompareOrderTakesPrecedenceOverSubmission(t *testing.T) {
	worseButNewer := Entry[BasefeeOrder]{submissionId: 100, ord: NewBasefeeOrder(newFakeTx(1, 0, 1))}
	betterButOlder := Entry[BasefeeOrder]{submissionId: 1, ord: NewBasefeeOrder(newFakeTx(1, 1, 1000))}

	if worseButNewer.Compare(betterButOlder) >= 0 {
		t.Fatalf("the order's primary key must dominate the submission tie-break")
	}
}
