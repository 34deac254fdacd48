// parkedpoolctl is a standalone harness for exercising the parked
// transaction sub-pool outside of a running node: load a synthetic batch of
// transactions, run a base-fee sweep, truncate to a sender-fair size limit,
// and print what happened.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"github.com/txpoollabs/parkedpool/core/txpool/parkedpool"
)

const clientIdentifier = "parkedpoolctl"

var app = &cli.App{
	Name:    clientIdentifier,
	Usage:   "inspect and drive the parked transaction sub-pool against a synthetic workload",
	Version: "0.1.0",
}

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML workload config (see workloadConfig)",
	}
	basefeeFlag = &cli.Uint64Flag{
		Name:  "basefee",
		Usage: "base fee (wei) to sweep the parked pool against",
		Value: 10,
	}
	maxTxsFlag = &cli.IntFlag{
		Name:  "max-txs",
		Usage: "transaction count to truncate the pool down to before reporting (0 skips truncation)",
		Value: 0,
	}
)

func init() {
	app.Commands = []*cli.Command{
		runCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelInfo, true)))
		return nil
	}
}

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "load a workload, sweep it against a base fee, optionally truncate, and print stats",
	Flags:  []cli.Flag{configFlag, basefeeFlag, maxTxsFlag},
	Action: runWorkload,
}

// workloadTx is one synthetic transaction in a config file.
type workloadTx struct {
	Sender uint64
	Nonce  uint64
	Fee    uint64
	Size   uint64
}

// workloadConfig is the TOML shape accepted by --config.
type workloadConfig struct {
	Transactions []workloadTx `toml:"transactions"`
}

func runWorkload(ctx *cli.Context) error {
	workload, err := loadWorkload(ctx.String(configFlag.Name))
	if err != nil {
		return fmt.Errorf("loading workload: %w", err)
	}

	pool := parkedpool.NewBasefeePool()
	now := time.Now()
	for _, wtx := range workload.Transactions {
		tx := syntheticTx{
			id:   parkedpool.TransactionId{Sender: parkedpool.SenderId(wtx.Sender), Nonce: wtx.Nonce},
			fee:  wtx.Fee,
			size: wtx.Size,
			ts:   now,
		}
		pool.AddTransaction(&tx)
	}
	log.Info("loaded workload", "transactions", pool.Len(), "bytes", pool.Size())

	basefee := ctx.Uint64(basefeeFlag.Name)
	promoted := pool.EnforceBaseFee(basefee)
	log.Info("swept against base fee", "basefee", basefee, "promoted", len(promoted), "remaining", pool.Len())

	if max := ctx.Int(maxTxsFlag.Name); max > 0 {
		evicted := pool.TruncatePool(parkedpool.SubPoolLimit{MaxTxs: max})
		log.Info("truncated pool", "max_txs", max, "evicted", len(evicted), "remaining", pool.Len())
	}

	fmt.Printf("final pool: %d transactions, %d bytes\n", pool.Len(), pool.Size())
	return nil
}

func loadWorkload(path string) (workloadConfig, error) {
	var cfg workloadConfig
	if path == "" {
		return defaultWorkload(), nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// defaultWorkload gives `run` something to chew on when invoked without
// --config: four senders contributing four, three, three and one
// transaction respectively, at staggered fees.
func defaultWorkload() workloadConfig {
	var cfg workloadConfig
	for sender, count := range map[uint64]int{0: 4, 1: 3, 2: 3, 3: 1} {
		for nonce := 0; nonce < count; nonce++ {
			cfg.Transactions = append(cfg.Transactions, workloadTx{
				Sender: sender,
				Nonce:  uint64(nonce),
				Fee:    5 + uint64(nonce),
				Size:   128,
			})
		}
	}
	return cfg
}

// syntheticTx is a parkedpool.ValidTx that doesn't require a real signed
// go-ethereum transaction, so this harness can run against arbitrary
// workload files without a key or a chain behind it.
type syntheticTx struct {
	id   parkedpool.TransactionId
	fee  uint64
	size uint64
	ts   time.Time
}

func (s *syntheticTx) ID() parkedpool.TransactionId  { return s.id }
func (s *syntheticTx) SenderId() parkedpool.SenderId { return s.id.Sender }
func (s *syntheticTx) Size() uint64                  { return s.size }
func (s *syntheticTx) Timestamp() time.Time          { return s.ts }
func (s *syntheticTx) MaxFeePerGas() *uint256.Int    { return uint256.NewInt(s.fee) }

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
