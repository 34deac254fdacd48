// Package parkedpool implements the parked transaction sub-pool of the
// mempool: the holding area for validated transactions that cannot yet be
// promoted to pending, because the base fee hasn't dropped far enough, an
// ancestor nonce is still stuck, or the sender's balance is short.
//
// The pool is a bijection between two indexes, by_id and best, that are kept
// in lockstep on every insert and removal. by_id orders transactions the way
// a BTreeMap over (SenderId, nonce) would: all of one sender's transactions
// sit in a contiguous ascending-nonce run. best orders the same transactions
// by whichever Order is plugged in (fee, or fee-then-age), broken by
// submission order. Pool[O] is generic over that order so the same data
// structure serves both the basefee-parked pool (BasefeePool) and the
// queued-by-cost pool (QueuedPool).
package parkedpool
