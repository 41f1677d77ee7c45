package eval

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nathanhack/eccfault/ecc"
	"github.com/nathanhack/eccfault/ecc/hamming"
)

func hammingScheme() ecc.Scheme { return hamming.New() }

func TestRunAggregationMatchesAcrossThreadCounts(t *testing.T) {
	base := Config{
		FailMode:  FailRandom,
		FailCount: 1,
		FullRun:   true,
		Seed:      42,
		NewScheme: hammingScheme,
	}

	single := base
	single.Threads = 1
	resultSingle, err := Run(context.Background(), single)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	multi := base
	multi.Threads = 4
	resultMulti, err := Run(context.Background(), multi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resultSingle.Counters.OK != resultMulti.Counters.OK ||
		resultSingle.Counters.Corrected != resultMulti.Counters.Corrected ||
		resultSingle.Counters.Uncorrectable != resultMulti.Counters.Uncorrectable {
		t.Fatalf("aggregated counters differ across thread counts: 1-thread=%+v 4-thread=%+v",
			resultSingle.Counters, resultMulti.Counters)
	}
	if resultSingle.TestCount != resultMulti.TestCount {
		t.Fatalf("test counts differ: %d vs %d", resultSingle.TestCount, resultMulti.TestCount)
	}
}

func TestRunNoneModeExplicitTestCount(t *testing.T) {
	cfg := Config{
		FailMode:  FailNone,
		FailCount: 0,
		TestCount: 1000,
		Seed:      42,
		Threads:   2,
		NewScheme: hammingScheme,
	}
	result, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Counters.OK != 1000 {
		t.Fatalf("expected 1000 OK classifications, got %d", result.Counters.OK)
	}
}

func TestChartRenderingDoesNotAlterCounters(t *testing.T) {
	cfg := Config{
		FailMode:  FailRandom,
		FailCount: 1,
		FullRun:   true,
		Seed:      1,
		Threads:   1,
		NewScheme: hammingScheme,
	}

	without, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	withChart := cfg
	withChart.ChartPath = filepath.Join(t.TempDir(), "result.html")
	with, err := Run(context.Background(), withChart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if with.Counters.OK != without.Counters.OK ||
		with.Counters.Corrected != without.Counters.Corrected ||
		with.Counters.Uncorrectable != without.Counters.Uncorrectable {
		t.Fatalf("requesting a chart changed the aggregated counters: with=%+v without=%+v", with.Counters, without.Counters)
	}

	if _, err := os.Stat(withChart.ChartPath); err != nil {
		t.Fatalf("expected chart file to be written: %v", err)
	}
}
