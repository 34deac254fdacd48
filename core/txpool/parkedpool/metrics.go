package parkedpool

import "github.com/ethereum/go-ethereum/metrics"

// Pool-depth and churn metrics, registered the way
// other_examples' parallelpool.go registers its pending/queued gauges: one
// gauge per pool per dimension (count, bytes), plus a meter for eviction
// churn so a sustained truncation storm is visible without scraping logs.
var (
	basefeeGauge         = metrics.NewRegisteredGauge("txpool/parked/basefee/count", nil)
	basefeeSizeGauge     = metrics.NewRegisteredGauge("txpool/parked/basefee/bytes", nil)
	basefeeEvictedMeter  = metrics.NewRegisteredMeter("txpool/parked/basefee/evicted", nil)

	queuedGauge     = metrics.NewRegisteredGauge("txpool/parked/queued/count", nil)
	queuedSizeGauge = metrics.NewRegisteredGauge("txpool/parked/queued/bytes", nil)
)
