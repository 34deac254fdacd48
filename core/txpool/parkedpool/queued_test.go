package parkedpool

import "testing"

func TestQueuedPoolBestPrefersHighestFee(t *testing.T) {
	p := NewQueuedPool()
	p.AddTransaction(newFakeTx(1, 0, 10))
	p.AddTransaction(newFakeTx(2, 0, 50))
	p.AddTransaction(newFakeTx(3, 0, 30))

	// QueuedOrder sorts higher fees first, so Best visits the highest-fee
	// transaction first.
	var first ValidTx
	p.Best(func(tx ValidTx) bool {
		first = tx
		return false
	})
	if first == nil || first.MaxFeePerGas().Uint64() != 50 {
		t.Fatalf("best transaction should be the highest-fee one, got %+v", first)
	}
}

func TestQueuedPoolHasNoBaseFeeSweep(t *testing.T) {
	p := NewQueuedPool()
	p.AddTransaction(newFakeTx(1, 0, 10))

	// QueuedPool intentionally exposes no EnforceBaseFee/SatisfyBaseFeeIds:
	// queued transactions leave the pool on nonce-gap resolution or balance
	// top-up decided upstream, not on a fee sweep. This test checks that the
	// sweep method is absent and that the pool's own truncation primitive
	// still works the same way BasefeePool's does.
	if _, ok := any(p).(interface{ EnforceBaseFee(uint64) []ValidTx }); ok {
		t.Fatal("QueuedPool should not expose EnforceBaseFee")
	}
	removed := p.TruncatePool(SubPoolLimit{MaxTxs: 0})
	if len(removed) != 1 {
		t.Fatalf("TruncatePool should still evict down to the limit, removed %d", len(removed))
	}
}

func TestQueuedPoolDuplicateIdPanics(t *testing.T) {
	p := NewQueuedPool()
	p.AddTransaction(newFakeTx(1, 0, 10))

	defer func() {
		if recover() == nil {
			t.Fatal("expected AddTransaction to panic on a duplicate id")
		}
	}()
	p.AddTransaction(newFakeTx(1, 0, 20))
}
