// FILE: loguru/cmd/simple/main.go
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/j-raghavan/loguru"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[log]
  level = "debug"
  capture_source = true
  use_colors = true
  enable_console = true
  enable_file = true
  file_path = "./simple_logs/app.log"
  rotation_size_kb = 64
  retention_count = 3
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// Create dummy config file
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}
	if err := os.MkdirAll("./simple_logs", 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	// File settings first, LOGURU_* environment overrides second
	logger, err := loguru.NewBuilder().
		FromFile(configFile).
		FromEnv().
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	loguru.SetGlobal(logger)
	fmt.Println("Logger initialized.")

	// --- Logging ---
	loguru.Debug("This is a debug message.", "user_id", 123)
	loguru.Info("Application starting...")
	loguru.Success("Startup checks passed.")
	loguru.Warning("Potential issue detected.", "threshold", 0.95)
	loguru.Error("An error occurred!", "code", 500)

	// Contextual logging with a per-goroutine stack
	stack := loguru.NewContextStack()
	stack.Push(loguru.Fields{"request_id": "req-1042"})
	logger.EmitWith(stack, loguru.LevelInfo, "Handling request")

	// Logging from goroutines, context handed over via snapshot
	snap := stack.Snapshot()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			child := loguru.Adopt(snap)
			child.Push(loguru.Fields{"worker": id})
			logger.EmitWith(child, loguru.LevelInfo, "Goroutine started")
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			logger.EmitWith(child, loguru.LevelInfo, "Goroutine finished")
		}(i)
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	// --- Shutdown ---
	fmt.Println("Closing logger...")
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger close error: %v\n", err)
	} else {
		fmt.Println("Logger closed.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Println("Check log files in './simple_logs'.")
}
