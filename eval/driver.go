// Package eval partitions a fault-injection enumeration across worker
// goroutines, runs the per-iteration construct/inject/check-and-correct
// protocol on each worker's private ECC scheme instance, and aggregates the
// resulting counters.
package eval

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/nathanhack/eccfault/ecc"
	"github.com/nathanhack/eccfault/noise"
	"github.com/nathanhack/eccfault/unrank"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

// Config describes one evaluation run.
type Config struct {
	// Threads is the requested worker count; 0 or a value above the host's
	// hardware parallelism is clamped to it, matching the CLI contract.
	Threads int

	FailMode  FailMode
	FailCount int

	// FullRun requests exhaustive enumeration (TestCount is computed from
	// FailMode/FailCount/the scheme's word width); otherwise TestCount is
	// used directly.
	FullRun   bool
	TestCount uint64

	// Seed is the master seed; each worker derives its own seed from it
	// (noise.Squirrel5U64 keyed by worker index) so worker RNG sequences
	// never collide.
	Seed uint64

	// NewScheme builds a fresh ecc.Scheme for one worker. For schemes with
	// shareable read-only state (Hsiao's generated matrix) the closure may
	// close over and reuse that state across calls; for schemes whose
	// internal collaborator is not proven safe to share (BCH) it must
	// construct a wholly independent instance each call.
	NewScheme func() ecc.Scheme

	ShowProgress bool
	Debug        bool

	// ChartPath, if non-empty, renders the per-bit vectors to this path as
	// a go-echarts bar chart after the run completes.
	ChartPath string
}

// Result is everything a caller needs to produce the final report.
type Result struct {
	DataWidth, ECCWidth int
	TestCount           uint64
	FailCount           int
	Counters            Counters
	Throughput          avgstd.AvgStd // iterations/sec, one sample per worker
}

// Run executes the configured evaluation to completion and returns the
// aggregated result. It blocks until every worker finishes or ctx is
// cancelled.
func Run(ctx context.Context, cfg Config) (Result, error) {
	probe := cfg.NewScheme()
	d, k := probe.DataWidth(), probe.ECCWidth()
	n := d + k

	testCount := cfg.TestCount
	if cfg.FullRun {
		testCount = exhaustiveTestCount(n, cfg.FailMode, cfg.FailCount)
	}

	threads := clampThreads(cfg.Threads)
	if testCount == 0 {
		return Result{DataWidth: d, ECCWidth: k, TestCount: 0, Counters: NewCounters(n)}, nil
	}
	if uint64(threads) > testCount {
		threads = int(testCount)
	}

	workers := buildWorkers(cfg, probe, threads, testCount, n)

	var bar *pb.ProgressBar
	if cfg.ShowProgress {
		bar = pb.New64(int64(testCount))
		bar.Start()
	}

	stopPolling := make(chan struct{})
	pollDone := make(chan struct{})
	if bar != nil {
		go func() {
			defer close(pollDone)
			ticker := time.NewTicker(150 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					bar.SetCurrent(sumProgress(workers))
				case <-stopPolling:
					return
				}
			}
		}()
	}

	results := make([]Counters, len(workers))
	var throughputMux sync.Mutex
	var throughput avgstd.AvgStd

	pool := threadpool.NewFixedSize(ctx, len(workers), len(workers))
	for i, w := range workers {
		i, w := i, w
		pool.Add(func() {
			start := time.Now()
			results[i] = w.run()
			elapsed := time.Since(start).Seconds()
			if elapsed > 0 {
				rate := float64(w.workMax-w.workOffset) / elapsed
				throughputMux.Lock()
				throughput.Update(rate)
				throughputMux.Unlock()
			}
			if cfg.Debug {
				logrus.WithField("worker", w.id).Debug("worker finished")
			}
		})
	}
	pool.Wait()

	if bar != nil {
		close(stopPolling)
		<-pollDone
		bar.SetCurrent(int64(testCount))
		bar.Finish()
	}

	total := NewCounters(n)
	for _, r := range results {
		total.Add(r)
	}

	result := Result{
		DataWidth:  d,
		ECCWidth:   k,
		TestCount:  testCount,
		FailCount:  cfg.FailCount,
		Counters:   total,
		Throughput: throughput,
	}

	if cfg.ChartPath != "" {
		if err := renderChart(cfg.ChartPath, result); err != nil {
			return result, err
		}
	}

	return result, nil
}

// exhaustiveTestCount computes the full-run test count for a word width n:
// C(n, r) for RANDOM, n-r+1 for RANDOM_BURST.
func exhaustiveTestCount(n int, mode FailMode, r int) uint64 {
	if mode == FailRandomBurst {
		return uint64(n - r + 1)
	}
	return unrank.Count(n, r)
}

// clampThreads applies the CLI contract: 0 (or less), or anything above the
// host's hardware parallelism, is clamped to that parallelism.
func clampThreads(requested int) int {
	if max := hardwareParallelism(); requested <= 0 || requested > max {
		return max
	}
	return requested
}

func buildWorkers(cfg Config, probe ecc.Scheme, threads int, testCount uint64, n int) []*worker {
	workPerThread := testCount / uint64(threads)
	rest := testCount % uint64(threads)

	workers := make([]*worker, threads)
	for tid := 0; tid < threads; tid++ {
		offset := uint64(tid) * workPerThread
		max := uint64(tid+1) * workPerThread
		if tid == threads-1 {
			max += rest
		}

		scheme := probe
		if tid > 0 {
			scheme = cfg.NewScheme()
		}

		seed := noise.Squirrel5U64(uint64(tid), cfg.Seed)
		workers[tid] = newWorker(tid, seed, cfg.FullRun, cfg.FailMode, cfg.FailCount, offset, max, scheme, cfg.Debug)
	}
	return workers
}

func hardwareParallelism() int {
	return runtime.NumCPU()
}

func sumProgress(workers []*worker) int64 {
	var total int64
	for _, w := range workers {
		total += w.progress.Load()
	}
	return total
}
