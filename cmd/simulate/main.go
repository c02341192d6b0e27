// Command simulate plays seeded headless games with the move selector and
// logs per-game results plus a performance summary.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/snekpath/analytics"
	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/internal/env"
	"github.com/brensch/snekpath/logging"
)

func main() {
	games := flag.Int("games", env.Int("GAMES", 10), "Number of games to play")
	seed := flag.Int64("seed", int64(env.Int("SEED", 1)), "Seed of the first game; game i uses seed+i")
	heading := flag.String("heading", env.String("HEADING", "right"), "Starting direction: up, down, left, right")
	obstacles := flag.Int("obstacles", env.Int("OBSTACLES", 0), "Random obstacles per game")
	maxTurns := flag.Int("max-turns", env.Int("MAX_TURNS", 5000), "Turn cap per game")
	maxIterations := flag.Int("max-iterations", env.Int("MAX_ITERATIONS", 0), "Search budget per move (0 sizes it to the board)")
	width := flag.Int("width", env.Int("WIDTH", game.DefaultWidth), "Field width in field units")
	height := flag.Int("height", env.Int("HEIGHT", game.DefaultHeight), "Field height in field units")
	cellSize := flag.Int("cell-size", env.Int("CELL_SIZE", game.DefaultCellSize), "Cell edge in field units")
	workers := flag.Int("workers", env.Int("WORKERS", runtime.NumCPU()), "Games played in parallel")
	randomFallback := flag.Bool("random-fallback", env.Bool("RANDOM_FALLBACK", false), "Pick a random safe move when no rule applies")
	timeout := flag.Duration("timeout", env.Duration("TIMEOUT", 10*time.Minute), "Overall time limit")
	logLevel := flag.String("log-level", env.String("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	logPretty := flag.Bool("log-pretty", env.Bool("LOG_PRETTY", false), "Indent JSON log records")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	grid, err := game.NewGrid(*width, *height, *cellSize)
	if err != nil {
		log.Fatalf("grid: %v", err)
	}
	start, ok := game.ParseDirection(*heading)
	if !ok {
		log.Fatalf("heading: unknown direction %q", *heading)
	}
	if *maxIterations < 0 {
		log.Fatalf("max-iterations must not be negative, got %d", *maxIterations)
	}

	runID := uuid.NewString()
	logger := logging.New(os.Stderr, level, *logPretty).With("run", runID)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log.Printf("Run %s: %d games on %dx%d (cell %d), %d obstacles, %d workers", runID, *games, *width, *height, *cellSize, *obstacles, *workers)

	cfg := simConfig{
		Grid:           grid,
		Heading:        start,
		Obstacles:      *obstacles,
		MaxTurns:       *maxTurns,
		MaxIterations:  *maxIterations,
		RandomFallback: *randomFallback,
	}
	session := analytics.NewSession()
	results, err := playGames(ctx, cfg, *games, *workers, *seed, session, logger)
	if err != nil {
		logger.Error("run stopped early", "error", err, "completed", len(results))
	}

	if sum, ok := session.Summary(); ok {
		logger.Info("run summary",
			"games", sum.Games,
			"best_score", sum.BestScore,
			"avg_score", sum.AvgScore,
			"score_trend", sum.ScoreTrend,
			"avg_duration", sum.AvgDuration,
			"moves", sum.Behavior.Moves,
			"avg_safe_directions", sum.Behavior.AvgSafeDirections(),
			"high_risk_moves", sum.Behavior.HighRiskMoves,
			"low_risk_moves", sum.Behavior.LowRiskMoves,
			"avg_efficiency", sum.Behavior.AvgEfficiency(),
			"toward_food", sum.Behavior.TowardFoodRatio(),
			"directions", directionCounts(sum.Directions),
		)
	}
	for _, r := range session.Recommendations() {
		logger.Info("recommendation", "text", r.String())
	}

	if err != nil {
		os.Exit(1)
	}
}

func directionCounts(counts map[game.Direction]int) map[string]int {
	out := make(map[string]int, len(counts))
	for d, n := range counts {
		out[d.String()] = n
	}
	return out
}
