package str

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/strandkv/strand/cmd/util"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for strand servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix  = "__test"
	perfNumThreads = 10
	perfKeySpread  = 100
	perfDuration   = 10 * time.Second
	perfValueSize  = 64
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "duration"
	perfTestCmd.Flags().Duration(key, 10*time.Second, util.WrapString("How long each benchmark should run (e.g. 10s, 1m)"))
	key = "value-size"
	perfTestCmd.Flags().Int(key, 64, util.WrapString("The size of the values used for write tests (in bytes)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfKeySpread = viper.GetInt("keys")
	perfDuration = viper.GetDuration("duration")
	perfValueSize = viper.GetInt("value-size")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for strand servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Duration per test: %s\n", perfDuration)
	fmt.Println()

	fmt.Println("starting tests...")

	registry := metrics.NewRegistry()
	value := make([]byte, perfValueSize)

	// Each benchmark hammers the server from perfNumThreads goroutines for
	// perfDuration and records per-op latency in a go-metrics timer.
	runBench(registry, "set", func(counter int) error {
		return stringsClient.Set(testKey("set", counter), value)
	})

	// prepare keys for the read tests
	for i := 0; i < perfKeySpread; i++ {
		if err := stringsClient.Set(testKey("get", i), value); err != nil {
			log.Printf("(get) - error preparing key: %v\n", err)
		}
	}

	runBench(registry, "get", func(counter int) error {
		_, _, err := stringsClient.Get(testKey("get", counter))
		return err
	})

	runBench(registry, "strlen", func(counter int) error {
		_, err := stringsClient.StrLen(testKey("get", counter))
		return err
	})

	runBench(registry, "getrange", func(counter int) error {
		_, err := stringsClient.GetRange(testKey("get", counter), 0, 15)
		return err
	})

	runBench(registry, "incr", func(counter int) error {
		_, err := stringsClient.Incr(testKey("incr", counter))
		return err
	})

	runBench(registry, "append", func(counter int) error {
		_, err := stringsClient.Append(testKey("append", counter%8), []byte("x"))
		return err
	})

	runBench(registry, "mixed", func(counter int) error {
		key := testKey("mixed", counter)
		switch counter % 4 {
		case 0:
			return stringsClient.Set(key, value)
		case 1:
			_, _, err := stringsClient.Get(key)
			return err
		case 2:
			_, err := stringsClient.Append(key, []byte("x"))
			return err
		default:
			_, err := stringsClient.StrLen(key)
			return err
		}
	})

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, registry); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// testKey returns one of perfKeySpread keys for the given test
func testKey(test string, i int) string {
	return fmt.Sprintf("%s-%s-%d", perfKeyPrefix, test, i%perfKeySpread)
}

// runBench runs op from perfNumThreads goroutines for perfDuration and
// records every call in a timer registered under the test name.
func runBench(registry metrics.Registry, test string, op func(counter int) error) {
	if shouldSkip(test) {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	timer := metrics.NewRegisteredTimer(test, registry)
	deadline := time.Now().Add(perfDuration)

	var wg sync.WaitGroup
	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			counter := offset
			for time.Now().Before(deadline) {
				start := time.Now()
				if err := op(counter); err != nil {
					log.Printf("(%s) - error: %v\n", test, err)
				}
				timer.UpdateSince(start)
				counter += perfNumThreads
			}
		}(t)
	}
	wg.Wait()

	printResult(test, timer)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer metrics.Timer) {
	ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})
	fmt.Printf("%-20s%d ops\t%.0f ops/sec\tp50=%s p95=%s p99=%s\n",
		test,
		timer.Count(),
		timer.RateMean(),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		time.Duration(ps[2]),
	)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, registry metrics.Registry) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	config := util.GetClientConfig()

	// Write header
	header := []string{
		"Test", "Count", "OpsPerSec", "MeanNs", "P50Ns", "P95Ns", "P99Ns",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"DatabaseID", "Serializer", "Transport",
		"Threads", "ValueSize", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	var writeErr error
	registry.Each(func(test string, metric interface{}) {
		timer, ok := metric.(metrics.Timer)
		if !ok || writeErr != nil {
			return
		}
		ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})

		row := []string{
			test,
			strconv.FormatInt(timer.Count(), 10),
			fmt.Sprintf("%.0f", timer.RateMean()),
			fmt.Sprintf("%.0f", timer.Mean()),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			strconv.FormatUint(util.GetDatabaseID(), 10),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfValueSize),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			writeErr = fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	})

	return writeErr
}
