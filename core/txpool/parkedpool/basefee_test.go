package parkedpool

import (
	"math"
	"testing"
)

func TestEnforceBaseFeeSingleTransaction(t *testing.T) {
	p := NewBasefeePool()
	tx := newFakeTx(1, 0, 100)
	p.AddTransaction(tx)

	removed := p.EnforceBaseFee(50)
	if len(removed) != 1 || removed[0].ID() != tx.ID() {
		t.Fatalf("EnforceBaseFee(50) should have promoted the single tx, got %v", removed)
	}
	if p.Len() != 0 {
		t.Fatalf("pool should be empty after promoting its only transaction, has %d", p.Len())
	}
}

func TestEnforceBaseFeeLeavesUnderpricedSingleTransaction(t *testing.T) {
	p := NewBasefeePool()
	tx := newFakeTx(1, 0, 10)
	p.AddTransaction(tx)

	removed := p.EnforceBaseFee(50)
	if len(removed) != 0 {
		t.Fatalf("an underpriced lone transaction should not be promoted, got %v", removed)
	}
	if !p.Contains(tx.ID()) {
		t.Fatal("the underpriced transaction should remain parked")
	}
}

// TestEnforceBaseFeeSkipsDescendants exercises the nonce-dependency rule: a
// sender's nonce 0 priced below basefee blocks nonce 1 from promotion even
// though nonce 1's own fee clears the bar on its own.
func TestEnforceBaseFeeSkipsDescendants(t *testing.T) {
	p := NewBasefeePool()

	ancestor := newFakeTx(1, 0, 20)   // 20 < basefee 25: fails on its own
	descendant := newFakeTx(1, 1, 30) // 30 >= basefee 25: would pass alone

	p.AddTransaction(ancestor)
	p.AddTransaction(descendant)

	removed := p.EnforceBaseFee(25)
	if len(removed) != 0 {
		t.Fatalf("descendant must be skipped while its ancestor nonce is underpriced, but got %v", removed)
	}
	if !p.Contains(ancestor.ID()) || !p.Contains(descendant.ID()) {
		t.Fatal("both ancestor and descendant should remain parked")
	}
}

func TestEnforceBaseFeePromotesAncestorThenLeavesDescendantForNextSweep(t *testing.T) {
	p := NewBasefeePool()

	ancestor := newFakeTx(1, 0, 50)
	descendant := newFakeTx(1, 1, 5)
	p.AddTransaction(ancestor)
	p.AddTransaction(descendant)

	removed := p.EnforceBaseFee(25)
	if len(removed) != 1 || removed[0].ID() != ancestor.ID() {
		t.Fatalf("only the ancestor should be promoted, got %v", removed)
	}
	if !p.Contains(descendant.ID()) {
		t.Fatal("the underpriced descendant should remain parked once its ancestor is gone")
	}
}

func TestEnforceBaseFeeMaxUint64IsANoOpWhenNoneQualify(t *testing.T) {
	p := NewBasefeePool()
	p.AddTransaction(newFakeTx(1, 0, 1000))
	p.AddTransaction(newFakeTx(2, 0, math.MaxUint64-1))

	removed := p.EnforceBaseFee(math.MaxUint64)
	if len(removed) != 0 {
		t.Fatalf("basefee == MaxUint64 should admit nothing short of a MaxUint64 fee, got %v", removed)
	}
}

func TestEnforceBaseFeeIsIdempotentOnRepeatedCalls(t *testing.T) {
	p := NewBasefeePool()
	p.AddTransaction(newFakeTx(1, 0, 100))
	p.AddTransaction(newFakeTx(2, 0, 10))

	first := p.EnforceBaseFee(50)
	second := p.EnforceBaseFee(50)

	if len(first) != 1 {
		t.Fatalf("first sweep should promote exactly one transaction, got %d", len(first))
	}
	if len(second) != 0 {
		t.Fatalf("a repeated sweep at the same basefee must promote nothing new, got %v", second)
	}
}

func TestSatisfyBaseFeeTransactionsDoesNotMutatePool(t *testing.T) {
	p := NewBasefeePool()
	tx := newFakeTx(1, 0, 100)
	p.AddTransaction(tx)

	satisfied := p.SatisfyBaseFeeTransactions(50)
	if len(satisfied) != 1 {
		t.Fatalf("expected one satisfying transaction, got %d", len(satisfied))
	}
	if !p.Contains(tx.ID()) {
		t.Fatal("SatisfyBaseFeeTransactions must not remove anything from the pool")
	}
}
