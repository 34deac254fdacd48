package parkedpool

import (
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// ValidTx is the upstream contract the pool consumes: a transaction that has
// already cleared signature recovery, basic validation and nonce/balance
// checks elsewhere in the node, and is only waiting on external conditions.
// Handles are shared: the same ValidTx is referenced from both by_id and
// best, and callers may keep further references of their own. There's no
// manual refcounting on the Go side — the garbage collector frees a ValidTx
// once the pool and every caller have dropped their reference to it.
type ValidTx interface {
	// ID is the transaction's (SenderId, nonce) identifier. Stable for the
	// lifetime of the handle.
	ID() TransactionId
	// SenderId is consistent with ID().Sender.
	SenderId() SenderId
	// MaxFeePerGas is the fee cap the transaction's sender is willing to pay.
	MaxFeePerGas() *uint256.Int
	// Size is the byte cost charged against the pool's size tracker. Must be
	// stable for the life of the handle; a caller that mutates it after
	// insertion corrupts the pool's size accounting.
	Size() uint64
	// Timestamp is when the transaction was first accepted, used by
	// QueuedOrder to break fee ties in favor of the older transaction.
	Timestamp() time.Time
}

// PooledTx is the concrete ValidTx this repository hands to the pool: a
// go-ethereum transaction plus the sender handle and submission time
// resolved for it upstream.
type PooledTx struct {
	tx        *types.Transaction
	sender    SenderId
	timestamp time.Time
}

// NewPooledTx wraps tx for insertion into a Pool. sender must already be
// resolved (see SenderIdentifiers) and consistent with tx's signer.
func NewPooledTx(tx *types.Transaction, sender SenderId, timestamp time.Time) *PooledTx {
	return &PooledTx{tx: tx, sender: sender, timestamp: timestamp}
}

// ID implements ValidTx.
func (p *PooledTx) ID() TransactionId {
	return TransactionId{Sender: p.sender, Nonce: p.tx.Nonce()}
}

// SenderId implements ValidTx.
func (p *PooledTx) SenderId() SenderId { return p.sender }

// MaxFeePerGas implements ValidTx.
func (p *PooledTx) MaxFeePerGas() *uint256.Int {
	fee, overflow := uint256.FromBig(p.tx.GasFeeCap())
	if overflow {
		return uint256.NewInt(0).SetAllOne()
	}
	return fee
}

// Size implements ValidTx.
func (p *PooledTx) Size() uint64 { return p.tx.Size() }

// Timestamp implements ValidTx.
func (p *PooledTx) Timestamp() time.Time { return p.timestamp }

// Transaction returns the underlying go-ethereum transaction, for callers
// that need more than the ValidTx surface (e.g. to re-broadcast a promoted
// transaction).
func (p *PooledTx) Transaction() *types.Transaction { return p.tx }
