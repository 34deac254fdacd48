// NOTE: this is a reference subpool; it backs the parked/queued split with
// the parkedpool package instead of a flat per-account map. It recovers each
// sender only to key its indexes; validation and balance accounting still
// happen upstream.

package txpool

import (
	"math/big"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/txpoollabs/parkedpool/core/txpool/parkedpool"
)

// ParkedSubPool splits its transactions by nonce readiness: a transaction
// whose nonce is next in line for its sender is parked (ranked by
// BasefeePool), any other is queued behind its nonce gap (ranked by
// QueuedPool). Fee caps are not compared against a base fee and balances
// are not checked when a transaction is added. It implements SubPool so the
// aggregate pool can run it alongside other specialized pools in lockstep.
type ParkedSubPool struct {
	lock sync.RWMutex

	reserve AddressReserver // Address reserver to ensure exclusivity across subpools

	senders *parkedpool.SenderIdentifiers
	parked  *parkedpool.BasefeePool // nonce-ready
	queued  *parkedpool.QueuedPool  // nonce-gapped

	byHash map[common.Hash]*parkedpool.PooledTx // for O(1) Has/Get by hash
	locals mapset.Set[common.Address]           // senders whose transactions were submitted locally

	gasTip uint64 // current minimum tip; see SetGasTip

	chain  BlockChain    // Chain object to access the state through
	signer types.Signer  // Transaction signer to use for sender recovery

	head  *types.Header  // Current head of the chain
	state *state.StateDB // Current state at the head of the chain

	discoverFeed event.Feed // Event feed to send out new tx events on pool discovery (reorg excluded)
	insertFeed   event.Feed // Event feed to send out new tx events on pool inclusion (reorg included)
}

// NewParkedSubPool creates an empty parked/queued subpool backed by chain.
func NewParkedSubPool(chain BlockChain) *ParkedSubPool {
	return &ParkedSubPool{
		chain:   chain,
		signer:  types.LatestSigner(chain.Config()),
		senders: parkedpool.NewSenderIdentifiers(),
		parked:  parkedpool.NewBasefeePool(),
		queued:  parkedpool.NewQueuedPool(),
		byHash:  make(map[common.Hash]*parkedpool.PooledTx),
		locals:  mapset.NewSet[common.Address](),
	}
}

// Filter is a selector used to decide whether a transaction would be added
// to ParkedSubPool. Every transaction type can end up parked or queued, so
// this subpool accepts anything the aggregate pool hands it that isn't
// claimed by a more specialized pool first.
func (pool *ParkedSubPool) Filter(tx *types.Transaction) bool {
	return true
}

// Init sets the base parameters of the subpool, allowing it to load any saved
// transactions from disk and also permitting internal maintenance routines to
// start up.
//
// These should not be passed as a constructor argument - nor should the pools
// start by themselves - in order to keep multiple subpools in lockstep with
// one another.
func (pool *ParkedSubPool) Init(gasTip uint64, head *types.Header, reserve AddressReserver) error {
	state, err := pool.chain.StateAt(head.Root)
	if err != nil {
		state, err = pool.chain.StateAt(types.EmptyRootHash)
	}
	if err != nil {
		return err
	}
	pool.head, pool.state = head, state
	pool.reserve = reserve
	pool.gasTip = gasTip

	return nil
}

// Close terminates any background processing threads and releases any held
// resources.
func (pool *ParkedSubPool) Close() error {
	return nil
}

// Reset retrieves the current state of the blockchain and ensures the content
// of the transaction pool is valid with regard to the chain state: every
// transaction included in the new head leaves both the parked and the queued
// pool, and any queued transaction whose nonce gap just closed is promoted
// into the parked pool for a future base-fee sweep.
func (pool *ParkedSubPool) Reset(oldHead, newHead *types.Header) {
	statedb, err := pool.chain.StateAt(newHead.Root)
	if err != nil {
		log.Error("Failed to reset parked tx pool state", "err", err)
		return
	}

	pool.lock.Lock()
	defer pool.lock.Unlock()

	pool.head, pool.state = newHead, statedb

	latestBlock := pool.chain.GetBlock(newHead.Hash(), newHead.Number.Uint64())
	if latestBlock == nil {
		return
	}

	for _, tx := range latestBlock.Transactions() {
		from, err := types.Sender(pool.signer, tx)
		if err != nil {
			continue
		}
		senderId, ok := pool.senders.SenderIdIfExists(from)
		if !ok {
			continue
		}
		id := parkedpool.TransactionId{Sender: senderId, Nonce: tx.Nonce()}
		if _, ok := pool.parked.RemoveTransaction(id); ok {
			delete(pool.byHash, tx.Hash())
		}
		if _, ok := pool.queued.RemoveTransaction(id); ok {
			delete(pool.byHash, tx.Hash())
		}
	}

	pool.promoteExecutable()
}

// promoteExecutable moves every queued transaction whose nonce now matches
// the account's on-chain nonce into the parked pool, where it becomes
// eligible for the next base-fee sweep. Caller must hold pool.lock.
func (pool *ParkedSubPool) promoteExecutable() {
	for _, rec := range pool.queued.GetSendersBySubmissionId() {
		addr, ok := pool.senders.Address(rec.Sender)
		if !ok {
			continue
		}
		want := pool.state.GetNonce(addr)
		for _, id := range pool.queued.GetTxsBySender(rec.Sender) {
			if id.Nonce != want {
				break
			}
			tx, ok := pool.queued.RemoveTransaction(id)
			if !ok {
				break
			}
			pool.parked.AddTransaction(tx)
			want++
		}
	}
}

// SetGasTip updates the minimum tip required by the subpool for a new
// transaction, and drops all resident transactions below this threshold.
func (pool *ParkedSubPool) SetGasTip(tip *big.Int) {
	pool.lock.Lock()
	defer pool.lock.Unlock()

	if tip == nil {
		return
	}
	pool.gasTip = tip.Uint64()

	floor := uint256.NewInt(pool.gasTip)
	var drop []parkedpool.TransactionId
	pool.parked.All(func(tx parkedpool.ValidTx) bool {
		if tx.MaxFeePerGas().Lt(floor) {
			drop = append(drop, tx.ID())
		}
		return true
	})
	for _, id := range drop {
		if tx, ok := pool.parked.RemoveTransaction(id); ok {
			delete(pool.byHash, tx.(*parkedpool.PooledTx).Transaction().Hash())
		}
	}
	drop = drop[:0]
	pool.queued.All(func(tx parkedpool.ValidTx) bool {
		if tx.MaxFeePerGas().Lt(floor) {
			drop = append(drop, tx.ID())
		}
		return true
	})
	for _, id := range drop {
		if tx, ok := pool.queued.RemoveTransaction(id); ok {
			delete(pool.byHash, tx.(*parkedpool.PooledTx).Transaction().Hash())
		}
	}
}

// Has returns an indicator whether subpool has a transaction cached with the
// given hash.
func (pool *ParkedSubPool) Has(hash common.Hash) bool {
	pool.lock.RLock()
	defer pool.lock.RUnlock()

	_, has := pool.byHash[hash]
	return has
}

// Get returns a transaction if it is contained in the pool, or nil otherwise.
func (pool *ParkedSubPool) Get(hash common.Hash) *types.Transaction {
	pool.lock.RLock()
	defer pool.lock.RUnlock()

	tx, ok := pool.byHash[hash]
	if !ok {
		return nil
	}
	return tx.Transaction()
}

// Add enqueues a batch of transactions into the pool if they are valid. Each
// transaction lands in the parked pool when its nonce is next-executable for
// its sender (the on-chain nonce with the sender's parked transactions
// applied on top), or the queued pool otherwise. It returns nil when no
// transaction failed; otherwise the returned slice holds one error slot per
// input transaction.
func (pool *ParkedSubPool) Add(txs []*types.Transaction, local bool, sync bool) []error {
	if len(txs) == 0 {
		return nil
	}

	pool.lock.Lock()
	defer pool.lock.Unlock()

	errs := make([]error, len(txs))
	adds := make(types.Transactions, 0, len(txs))

	for i, tx := range txs {
		if _, alreadyInThePool := pool.byHash[tx.Hash()]; alreadyInThePool {
			continue
		}

		from, err := types.Sender(pool.signer, tx)
		if err != nil {
			errs[i] = err
			continue
		}

		senderId := pool.senders.SenderId(from)
		pooled := parkedpool.NewPooledTx(tx, senderId, time.Now())

		next := pool.state.GetNonce(from)
		for _, id := range pool.parked.GetTxsBySender(senderId) {
			if id.Nonce != next {
				break
			}
			next++
		}
		if tx.Nonce() == next {
			pool.parked.AddTransaction(pooled)
		} else {
			pool.queued.AddTransaction(pooled)
		}
		pool.byHash[tx.Hash()] = pooled
		if local {
			pool.locals.Add(from)
		}

		adds = append(adds, tx)
		log.Trace("Pooled new parked transaction", "hash", tx.Hash(), "from", from, "to", tx.To())
	}

	if len(adds) > 0 {
		pool.insertFeed.Send(core.NewTxsEvent{Txs: adds})
		pool.discoverFeed.Send(core.NewTxsEvent{Txs: adds})
	}

	for _, err := range errs {
		if err != nil {
			return errs
		}
	}
	return nil
}

// Pending retrieves all currently processable transactions, i.e. everything
// resident in the parked pool (queued transactions are by definition not yet
// executable), grouped by origin account and sorted by nonce.
func (pool *ParkedSubPool) Pending(filter PendingFilter) map[common.Address][]*LazyTransaction {
	if filter.OnlyBlobTxs {
		return nil
	}

	pool.lock.RLock()
	defer pool.lock.RUnlock()

	result := make(map[common.Address][]*LazyTransaction)

	pool.parked.All(func(tx parkedpool.ValidTx) bool {
		pooled := tx.(*parkedpool.PooledTx)
		addr, ok := pool.senders.Address(pooled.SenderId())
		if !ok {
			return true
		}
		lazyTx := &LazyTransaction{
			Pool:      pool,
			Hash:      pooled.Transaction().Hash(),
			Time:      pooled.Timestamp(),
			GasFeeCap: uint256.MustFromBig(pooled.Transaction().GasFeeCap()),
			GasTipCap: uint256.MustFromBig(pooled.Transaction().GasTipCap()),
			Gas:       pooled.Transaction().Gas(),
			BlobGas:   pooled.Transaction().BlobGas(),
		}
		result[addr] = append(result[addr], lazyTx)
		return true
	})

	return result
}

// SubscribeTransactions subscribes to new transaction events. The subscriber
// can decide whether to receive notifications only for newly seen transactions
// or also for reorged out ones.
func (pool *ParkedSubPool) SubscribeTransactions(ch chan<- core.NewTxsEvent, reorgs bool) event.Subscription {
	if reorgs {
		return pool.insertFeed.Subscribe(ch)
	}
	return pool.discoverFeed.Subscribe(ch)
}

// Nonce returns the next nonce of an account, with all transactions executable
// by the pool already applied on top.
func (pool *ParkedSubPool) Nonce(addr common.Address) uint64 {
	pool.lock.RLock()
	defer pool.lock.RUnlock()

	senderId, ok := pool.senders.SenderIdIfExists(addr)
	if !ok {
		return pool.state.GetNonce(addr)
	}

	next := pool.state.GetNonce(addr)
	for _, id := range pool.parked.GetTxsBySender(senderId) {
		if id.Nonce != next {
			break
		}
		next++
	}
	return next
}

// Stats retrieves the current pool stats, namely the number of pending
// (parked) and the number of queued (non-executable) transactions.
func (pool *ParkedSubPool) Stats() (int, int) {
	pool.lock.RLock()
	defer pool.lock.RUnlock()

	return pool.parked.Len(), pool.queued.Len()
}

// Content retrieves the data content of the transaction pool, returning all the
// pending as well as queued transactions, grouped by account and sorted by nonce.
func (pool *ParkedSubPool) Content() (map[common.Address][]*types.Transaction, map[common.Address][]*types.Transaction) {
	pool.lock.RLock()
	defer pool.lock.RUnlock()

	pending := make(map[common.Address][]*types.Transaction)
	queued := make(map[common.Address][]*types.Transaction)

	pool.parked.All(func(tx parkedpool.ValidTx) bool {
		pooled := tx.(*parkedpool.PooledTx)
		if addr, ok := pool.senders.Address(pooled.SenderId()); ok {
			pending[addr] = append(pending[addr], pooled.Transaction())
		}
		return true
	})
	pool.queued.All(func(tx parkedpool.ValidTx) bool {
		pooled := tx.(*parkedpool.PooledTx)
		if addr, ok := pool.senders.Address(pooled.SenderId()); ok {
			queued[addr] = append(queued[addr], pooled.Transaction())
		}
		return true
	})

	return pending, queued
}

// ContentFrom retrieves the data content of the transaction pool, returning the
// pending as well as queued transactions of this address, grouped by nonce.
func (pool *ParkedSubPool) ContentFrom(addr common.Address) ([]*types.Transaction, []*types.Transaction) {
	pool.lock.RLock()
	defer pool.lock.RUnlock()

	senderId, ok := pool.senders.SenderIdIfExists(addr)
	if !ok {
		return nil, nil
	}

	var pending, queued []*types.Transaction
	for _, id := range pool.parked.GetTxsBySender(senderId) {
		if rec, ok := pool.byHash[pool.hashOf(id)]; ok {
			pending = append(pending, rec.Transaction())
		}
	}
	for _, id := range pool.queued.GetTxsBySender(senderId) {
		if rec, ok := pool.byHash[pool.hashOf(id)]; ok {
			queued = append(queued, rec.Transaction())
		}
	}
	return pending, queued
}

// hashOf is a linear fallback used by ContentFrom to map a TransactionId
// back to the hash byHash is keyed on. The pool's two sub-indexes are keyed
// on (sender, nonce), not hash, so this is the price of supporting both
// lookup directions without a third index.
func (pool *ParkedSubPool) hashOf(id parkedpool.TransactionId) common.Hash {
	for hash, tx := range pool.byHash {
		if tx.ID() == id {
			return hash
		}
	}
	return common.Hash{}
}

// Locals retrieves the accounts currently considered local by the pool: the
// senders of every transaction Add was called with local=true for.
func (pool *ParkedSubPool) Locals() []common.Address {
	pool.lock.RLock()
	defer pool.lock.RUnlock()

	return pool.locals.ToSlice()
}

// Status returns the known status (unknown/pending/queued) of a transaction
// identified by its hash.
func (pool *ParkedSubPool) Status(hash common.Hash) TxStatus {
	pool.lock.RLock()
	defer pool.lock.RUnlock()

	tx, ok := pool.byHash[hash]
	if !ok {
		return TxStatusUnknown
	}
	if pool.parked.Contains(tx.ID()) {
		return TxStatusPending
	}
	return TxStatusQueued
}
