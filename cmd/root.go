// Package cmd wires the eccfault CLI: positional-argument parsing for
// threads/fail-mode/fail-count/test-count/ecc-method/ecc-conf/[seed], a
// handful of flags for ambient concerns (progress bar, chart export, debug
// tracing), and the final stdout report.
package cmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/nathanhack/eccfault/ecc"
	"github.com/nathanhack/eccfault/ecc/bch"
	"github.com/nathanhack/eccfault/ecc/hamming"
	"github.com/nathanhack/eccfault/ecc/hsiao"
	"github.com/nathanhack/eccfault/eval"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrConfig wraps every CLI argument/configuration problem detected before
// a run starts (unknown mode or method, unparsable numbers, insufficient
// parity width), so callers can distinguish it from a run-time failure.
var ErrConfig = errors.New("cmd: invalid configuration")

var (
	chartPath    string
	showProgress bool
	debugTrace   bool
)

var rootCmd = &cobra.Command{
	Use:   "eccfault THREADS FAIL_MODE FAIL_COUNT TEST_COUNT ECC_METHOD ECC_CONF [SEED] [DEBUG]",
	Short: "Fault-injection harness and correctness evaluator for block-level ECC",
	Long: `eccfault injects bit faults into Hamming, Hsiao, or BCH codewords and reports
how often the codec detects, corrects, miscorrects, or silently misses them.

  THREADS     non-negative integer; 0 or >hardware concurrency is clamped.
  FAIL_MODE   N (none), R (random r-subset), or RB (random burst).
  FAIL_COUNT  r, in [0, 8].
  TEST_COUNT  a non-negative integer, or "F" for an exhaustive run.
  ECC_METHOD  hamming, hsiao, or bch.
  ECC_CONF    "d/k": ignored for hamming; for hsiao, d is the data width and
              k the requested parity width; for bch, d is the data width and
              k is the correction capability t.
  SEED        optional u64; a time-seeded value is used when absent.
  DEBUG       any 8th argument at all enables debug tracing; iterations are
              traced only for workers whose share is at most 10 tests.`,
	Args: cobra.RangeArgs(6, 8),
	RunE: runEval,
}

func init() {
	rootCmd.Flags().StringVar(&chartPath, "chart", "", "render the per-bit results as a go-echarts bar chart at this path")
	rootCmd.Flags().BoolVar(&showProgress, "progress", true, "show a progress bar while the run is in flight")
	rootCmd.Flags().BoolVar(&debugTrace, "debug", false, "enable debug tracing (iterations are traced only for workers whose share is at most 10 tests); equivalent to supplying an 8th positional argument")
}

// Execute runs the root command, exiting the process non-zero on any
// configuration or invariant failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}

func runEval(cmd *cobra.Command, args []string) error {
	threads, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: threads: %v", ErrConfig, err)
	}

	failMode, err := eval.ParseFailMode(args[1])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	failCount, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%w: fail_count: %v", ErrConfig, err)
	}
	if failCount < 0 || failCount > 8 {
		return fmt.Errorf("%w: fail_count must be in [0, 8], got %d", ErrConfig, failCount)
	}

	d, k, err := parseECCConf(args[5])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	newScheme, err := buildSchemeFactory(args[4], d, k)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	fullRun := args[3] == "F"
	var testCount uint64
	if !fullRun {
		testCount, err = strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: test_count: %v", ErrConfig, err)
		}
	}

	seed := uint64(time.Now().UnixNano())
	if len(args) > 6 {
		seed, err = strconv.ParseUint(args[6], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: seed: %v", ErrConfig, err)
		}
	}

	// A bare 8th positional argument enables debug tracing regardless of
	// its content, matching the original program's "argc > 8" check; the
	// --debug flag is an equivalent, more discoverable spelling of the
	// same switch.
	if len(args) > 7 {
		debugTrace = true
	}
	if debugTrace {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := eval.Config{
		Threads:      threads,
		FailMode:     failMode,
		FailCount:    failCount,
		FullRun:      fullRun,
		TestCount:    testCount,
		Seed:         seed,
		NewScheme:    newScheme,
		ShowProgress: showProgress,
		Debug:        debugTrace,
		ChartPath:    chartPath,
	}

	result, err := eval.Run(cmd.Context(), cfg)
	if err != nil {
		logrus.Fatalf("run failed: %v", err)
	}

	printReport(result, fullRun)
	return nil
}

// parseECCConf parses the "d/k" configuration pair.
func parseECCConf(s string) (d, k int, err error) {
	n, err := fmt.Sscanf(s, "%d/%d", &d, &k)
	if err != nil || n != 2 {
		return 0, 0, fmt.Errorf("ecc_conf: expected \"d/k\", got %q", s)
	}
	return d, k, nil
}

// buildSchemeFactory returns a closure that builds one fresh ecc.Scheme per
// worker. Hsiao's parity-check matrix is built once and shared read-only
// across every worker's Scheme (cheap, since it is immutable); BCH's
// internal codec is rebuilt per call, since its field tables are not proven
// safe to share.
func buildSchemeFactory(method string, d, k int) (func() ecc.Scheme, error) {
	switch method {
	case "hamming":
		return func() ecc.Scheme { return hamming.New() }, nil
	case "hsiao":
		if min := hsiao.MinECCWidth(d); k < min {
			return nil, fmt.Errorf("hsiao: parity width %d is insufficient for data width %d (need k >= %d)", k, d, min)
		}
		matrix := hsiao.Build(d, k)
		return func() ecc.Scheme { return hsiao.New(matrix) }, nil
	case "bch":
		if _, err := bch.New(d, k); err != nil {
			return nil, fmt.Errorf("bch: %w", err)
		}
		return func() ecc.Scheme {
			scheme, err := bch.New(d, k)
			if err != nil {
				logrus.Fatalf("bch: %v", err)
			}
			return scheme
		}, nil
	default:
		return nil, fmt.Errorf("unknown ecc_method %q (want hamming, hsiao, or bch)", method)
	}
}

func printReport(result eval.Result, fullRun bool) {
	fmt.Printf("datawidth: %d ; eccwidth: %d\n", result.DataWidth, result.ECCWidth)
	if fullRun {
		fmt.Printf("full run: %d tests\n", result.TestCount)
	}

	fmt.Println("stats:")
	sdcSuffix := ""
	if result.FailCount != 0 {
		sdcSuffix = " (sdcs)"
	}
	fmt.Printf("detection ok%s: %d\n", sdcSuffix, result.Counters.OK)
	fmt.Printf("detection corrected (false corrections therein): %d (%d)\n", result.Counters.Corrected, result.Counters.FalseCorrections)
	fmt.Printf("detection uncorrectable: %d\n", result.Counters.Uncorrectable)

	fmt.Println()
	fmt.Println("post fault flip occurences:")
	printUint64Vector(result.Counters.FlipOccurrences)

	fmt.Println()
	fmt.Println("flip occurence avg flip distance:")
	printInt64Vector(result.Counters.NormalizedFlipDistances(result.FailCount))

	fmt.Println()
	fmt.Printf("throughput: %.1f (+/-%.1f) iterations/sec\n", result.Throughput.Mean, math.Sqrt(result.Throughput.SampledVariance()))

	fmt.Println()
	fmt.Println("done")
}

func printUint64Vector(values []uint64) {
	for _, v := range values {
		fmt.Printf(" %d", v)
	}
	fmt.Println()
}

func printInt64Vector(values []int64) {
	for _, v := range values {
		fmt.Printf(" %d", v)
	}
	fmt.Println()
}
