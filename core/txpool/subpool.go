// Package txpool defines the contract a specialized transaction sub-pool
// must satisfy to plug into the aggregate pool that fronts block production:
// a common Filter/Init/Reset/Add/Pending surface so the aggregate can run an
// arbitrary number of independently-implemented pools in lockstep and
// present one coherent view to the miner.
package txpool

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// TxStatus is the current status of a transaction as seen by the pool.
type TxStatus uint

const (
	TxStatusUnknown TxStatus = iota
	TxStatusQueued
	TxStatusPending
)

// AddressReserver is passed by the aggregate pool to each subpool at Init
// time. A subpool calls it before accepting the first transaction from a
// sender and after evicting the last one, so that at most one subpool ever
// claims a given address at a time.
type AddressReserver func(addr common.Address, reserve bool) error

// BlockChain defines the minimal set of methods a subpool needs to back
// itself with chain state. Exists to allow mocking the live chain out of
// tests.
type BlockChain interface {
	// CurrentBlock returns the current head of the chain.
	CurrentBlock() *types.Header

	// StateAt returns a state database for a given root hash.
	StateAt(root common.Hash) (*state.StateDB, error)

	// GetBlock retrieves a block from the database by hash and number.
	GetBlock(hash common.Hash, number uint64) *types.Block

	// Config returns the chain's configuration.
	Config() *params.ChainConfig

	// SubscribeChainHeadEvent subscribes to new blocks being added to the chain.
	SubscribeChainHeadEvent(ch chan<- core.ChainHeadEvent) event.Subscription
}

// PendingFilter is a collection of filter rules applicable to the pending
// transaction query, used by the aggregate pool to avoid handing out
// transaction types the caller has already said it cannot use.
type PendingFilter struct {
	MinTip      *uint256.Int // Minimum miner tip required to include a transaction
	BaseFee     *uint256.Int // Minimum 1559 basefee needed to include a transaction
	BlobFee     *uint256.Int // Minimum 4844 blobfee needed to include a transaction
	OnlyPlainTxs bool        // Return only plain EVM transactions (peer-to-peer)
	OnlyBlobTxs  bool        // Return only blob transactions (block producers)
}

// LazyTransaction contains a small subset of the transaction properties that
// is enough for the aggregate pool to look up and sort, without needing the
// full transaction resolved (at a resolve cost the caller may not need to
// pay, e.g. when the transaction gets dropped by a later, better one).
type LazyTransaction struct {
	Pool LazyResolver       // Transaction resolver to pull the real transaction up
	Hash common.Hash        // Transaction hash to pull up if needed
	Time time.Time          // Time when the transaction was first seen

	GasFeeCap *uint256.Int // Maximum fee per gas the transaction may consume
	GasTipCap *uint256.Int // Maximum miner tip per gas the transaction can pay

	Gas     uint64 // Amount of gas required by the transaction
	BlobGas uint64 // Amount of blob gas required by the transaction
}

// Resolve pulls up the full transaction this lazy handle refers to, or nil
// if it's gone from the backing pool in the meantime.
func (ltx *LazyTransaction) Resolve() *types.Transaction {
	return ltx.Pool.Get(ltx.Hash)
}

// LazyResolver is the subset of a subpool's API a LazyTransaction needs to
// resolve itself.
type LazyResolver interface {
	Get(hash common.Hash) *types.Transaction
}

// SubPool represents a specialized transaction pool that lives on its own
// (e.g. a blob pool, a parked-by-basefee pool). Since independent of how
// many specialized pools exist, they need to be updated in lockstep and
// assemble into one coherent view for block production, this interface
// defines the common methods that let the aggregate transaction pool manage
// its subpools.
type SubPool interface {
	// Filter is a selector used to decide whether a transaction would be
	// added to this particular subpool.
	Filter(tx *types.Transaction) bool

	// Init sets the base parameters of the subpool, allowing it to load any
	// saved transactions from disk and also permitting internal maintenance
	// routines to start up.
	//
	// These should not be passed as a constructor argument - nor should the
	// pools start by themselves - in order to keep multiple subpools in
	// lockstep with one another.
	Init(gasTip uint64, head *types.Header, reserve AddressReserver) error

	// Close terminates any background processing threads and releases any
	// held resources.
	Close() error

	// Reset retrieves the current state of the blockchain and ensures the
	// content of the transaction pool is valid with regard to the chain
	// state.
	Reset(oldHead, newHead *types.Header)

	// SetGasTip updates the minimum price required by the subpool for a new
	// transaction, and drops all transactions below this threshold.
	SetGasTip(tip *big.Int)

	// Has returns an indicator whether the subpool has a transaction cached
	// with the given hash.
	Has(hash common.Hash) bool

	// Get returns a transaction if it is contained in the pool, or nil
	// otherwise.
	Get(hash common.Hash) *types.Transaction

	// Add enqueues a batch of transactions into the pool if they are valid.
	// Due to the large transaction churn, add may postpone fully integrating
	// the tx to a later point to batch multiple ones together.
	Add(txs []*types.Transaction, local bool, sync bool) []error

	// Pending retrieves all currently processable transactions, grouped by
	// origin account and sorted by nonce.
	Pending(filter PendingFilter) map[common.Address][]*LazyTransaction

	// SubscribeTransactions subscribes to new transaction events. The
	// subscriber can decide whether to receive notifications only for newly
	// seen transactions or also for reorged out ones.
	SubscribeTransactions(ch chan<- core.NewTxsEvent, reorgs bool) event.Subscription

	// Nonce returns the next nonce of an account, with all transactions
	// executable by the pool already applied on top.
	Nonce(addr common.Address) uint64

	// Stats retrieves the current pool stats, namely the number of pending
	// and the number of queued (non-executable) transactions.
	Stats() (int, int)

	// Content retrieves the data content of the transaction pool, returning
	// all the pending as well as queued transactions, grouped by account and
	// sorted by nonce.
	Content() (map[common.Address][]*types.Transaction, map[common.Address][]*types.Transaction)

	// ContentFrom retrieves the data content of the transaction pool,
	// returning the pending as well as queued transactions of this address,
	// grouped by nonce.
	ContentFrom(addr common.Address) ([]*types.Transaction, []*types.Transaction)

	// Locals retrieves the accounts currently considered local by the pool.
	Locals() []common.Address

	// Status returns the known status (unknown/pending/queued) of a
	// transaction identified by its hash.
	Status(hash common.Hash) TxStatus
}
