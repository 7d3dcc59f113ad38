// FILE: loguru/cmd/stress/main.go
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/j-raghavan/loguru"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 2000
	numWorkers     = 50
	asyncBuffer    = 8192
)

const logsDir = "./stress_logs"

var levels = []loguru.Level{
	loguru.LevelDebug,
	loguru.LevelInfo,
	loguru.LevelWarning,
	loguru.LevelError,
}

var async *loguru.AsyncLogger

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	stack := loguru.NewContextStack()
	stack.Push(loguru.Fields{"bst": burstID, "wkr": burstID % numWorkers})

	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msg := generateRandomMessage(rand.Intn(maxMessageSize) + 10)
		rec := loguru.NewRecord(level, msg).
			WithMetadata("seq", fmt.Sprintf("%d", i))
		async.LogWith(rec, stack)
	}
}

// worker goroutine function
func worker(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	fmt.Println("--- Logger Stress Test ---")

	_ = os.RemoveAll(logsDir) // Clean previous run before starting
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	// Small rotation threshold forces frequent rotation under load
	logger, err := loguru.NewBuilder().
		Level(loguru.LevelDebug).
		EnableConsole(false).
		File(logsDir + "/stress.log").
		RotationSizeKB(1024).
		RetentionCount(10).
		BufferSizeKB(256).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Logger initialized. Logs will be written to: %s\n", logsDir)

	async, err = loguru.NewAsyncLogger(logger, asyncBuffer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create async logger: %v\n", err)
		os.Exit(1)
	}
	if err := async.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start async logger: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	burstChan := make(chan int, totalBursts)
	var wg sync.WaitGroup
	var completedBursts atomic.Int64

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(burstChan, &wg, &completedBursts)
	}
	for b := 0; b < totalBursts; b++ {
		burstChan <- b
	}
	close(burstChan)
	wg.Wait()
	fmt.Println()

	if err := async.Flush(5 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Flush error: %v\n", err)
	}

	fmt.Printf("Completed %d records in %v (dropped: %d)\n",
		totalBursts*logsPerBurst, time.Since(start), async.Dropped())

	if err := async.Shutdown(5 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	}
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger close error: %v\n", err)
	}

	fmt.Println("--- Stress Test Finished ---")
}
