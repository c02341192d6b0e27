// Package main implements a Battlesnake API server driven by the A* move
// selector.
//
// Besides the standard endpoints it serves /ws, a WebSocket that takes one
// board per message and answers with one move per message, along with the
// advice, survival odds and difficulty for that board.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/brensch/snekpath/internal/env"
	"github.com/brensch/snekpath/logging"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	defaults := DefaultConfig()
	listen := fs.String("listen", env.String("LISTEN", ":8080"), "HTTP listen address")
	maxIterations := fs.Int("max-iterations", env.Int("MAX_ITERATIONS", 0), "Search budget per move (0 sizes it to the board)")
	cellSize := fs.Int("cell-size", env.Int("CELL_SIZE", defaults.CellSize), "Field units per board cell")
	wsTimeout := fs.Duration("ws-read-timeout", env.Duration("WS_READ_TIMEOUT", defaults.WSReadTimeout), "Idle timeout for /ws sessions")
	avoidHazards := fs.Bool("avoid-hazards", env.Bool("AVOID_HAZARDS", defaults.AvoidHazards), "Treat hazard cells as walls")
	logLevel := fs.String("log-level", env.String("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	logPretty := fs.Bool("log-pretty", env.Bool("LOG_PRETTY", false), "Indent JSON log records")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parse: %v", err)
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	logger := logging.New(os.Stderr, level, *logPretty)

	server, err := NewServer(Config{
		CellSize:      *cellSize,
		MaxIterations: *maxIterations,
		WSReadTimeout: *wsTimeout,
		AvoidHazards:  *avoidHazards,
	}, logger)
	if err != nil {
		log.Fatalf("server config: %v", err)
	}

	srv := &http.Server{
		Addr:              *listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("Battlesnake server listening on http://%s", *listen)
	log.Fatal(srv.ListenAndServe())
}
