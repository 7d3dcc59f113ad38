// FILE: loguru/example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/j-raghavan/loguru"
	"github.com/j-raghavan/loguru/compat"
)

func main() {
	logger, err := loguru.NewBuilder().
		Level(loguru.LevelTrace).
		File("/var/log/fasthttp/server.log").
		BufferSizeKB(64).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(loguru.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		Name:              "loguru-demo",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) loguru.Level {
	// Inspect fasthttp-specific message patterns first
	if strings.Contains(msg, "connection cannot be served") {
		return loguru.LevelWarning
	}
	if strings.Contains(msg, "error when serving connection") {
		return loguru.LevelError
	}

	return compat.DetectLogLevel(msg)
}
