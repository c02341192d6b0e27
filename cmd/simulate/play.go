package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/snekpath/analytics"
	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/pathfind"
	"github.com/brensch/snekpath/policy"
	"github.com/brensch/snekpath/rules"
	"github.com/brensch/snekpath/safety"
)

const startLength = 3

type simConfig struct {
	Grid           game.Grid
	// Heading is the starting direction; anything but a cardinal move means
	// Right.
	Heading        game.Direction
	Obstacles      int
	MaxTurns       int
	MaxIterations  int // zero sizes the budget to the grid
	RandomFallback bool
}

type gameResult struct {
	ID      string
	Seed    int64
	Turns   int
	Score   int
	Length  int
	Outcome rules.Outcome
	Elapsed time.Duration

	// PeakDifficulty is the highest adaptive difficulty seen before a move.
	PeakDifficulty float64
	// MinSurvival is the lowest survival probability seen before a move.
	MinSurvival    float64
	Analytics      analytics.GameRecord
}

func startHeading(d game.Direction) game.Direction {
	if !d.Valid() {
		return game.Right
	}
	return d
}

// newGame places a short snake in the middle of the board with its body
// trailing behind heading, then the obstacles, then the food.
func newGame(g game.Grid, heading game.Direction, obstacles int, rng *rand.Rand) *game.State {
	cx := (g.Columns() / 2) * g.CellSize
	cy := (g.Rows() / 2) * g.CellSize
	back := startHeading(heading).Opposite().Delta(g.CellSize)

	state := &game.State{}
	for i := 0; i < startLength; i++ {
		p := game.Point{X: cx + i*back.X, Y: cy + i*back.Y}
		if g.InBounds(p) {
			state.Snake = append(state.Snake, p)
		}
	}
	game.ScatterObstacles(g, state, obstacles, rng)
	game.PlaceFood(g, state, rng)
	return state
}

// playGame runs one seeded game until the snake has no move, dies, or hits
// MaxTurns. Ticks go to a recorder of the game's own; the finished game is
// added to session.
func playGame(ctx context.Context, cfg simConfig, seed int64, session *analytics.Session, logger *slog.Logger) (gameResult, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(seed))
	rec := analytics.NewRecorder()
	result := gameResult{ID: uuid.NewString(), Seed: seed, Outcome: rules.Alive, MinSurvival: 1}
	logger = logger.With("game", result.ID, "seed", seed)

	budget := cfg.MaxIterations
	if budget == 0 {
		budget = pathfind.BudgetFor(cfg.Grid)
	}
	opts := []policy.Option{policy.WithLogger(logger)}
	if cfg.RandomFallback {
		opts = append(opts, policy.WithRand(rand.New(rand.NewSource(seed^0x5eed))))
	}
	selector, err := policy.New(policy.Config{Grid: cfg.Grid, MaxIterations: budget}, opts...)
	if err != nil {
		return result, err
	}

	current := startHeading(cfg.Heading)
	state := newGame(cfg.Grid, current, cfg.Obstacles, rng)

	for result.Turns < cfg.MaxTurns {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("game %s turn %d: %w", result.ID, result.Turns, err)
		}

		d, err := selector.ChooseDirection(*state, current)
		if err != nil {
			return result, fmt.Errorf("game %s turn %d: %w", result.ID, result.Turns, err)
		}
		if d == game.NoDirection {
			result.Outcome = rules.NoMove
			break
		}
		result.PeakDifficulty = max(result.PeakDifficulty,
			safety.AdaptiveDifficulty(cfg.Grid, state.Snake, state.Food, state.Obstacles, result.Score))
		result.MinSurvival = min(result.MinSurvival,
			safety.SurvivalProbability(cfg.Grid, state.Snake, state.Obstacles))
		rec.Record(analytics.NewMove(cfg.Grid, state, d, result.Score, time.Now()))

		next, outcome := rules.NextState(cfg.Grid, state, d, rng)
		result.Turns++
		if outcome == rules.Ate {
			result.Score++
		}
		state, current = next, d
		if outcome.Dead() {
			result.Outcome = outcome
			logger.Warn("snake died", "outcome", outcome, "turn", result.Turns)
			break
		}
	}

	result.Length = len(state.Snake)
	result.Elapsed = time.Since(start)
	for _, r := range rec.Recommendations() {
		logger.Debug("game recommendation", "text", r.String())
	}
	result.Analytics = session.EndGame(rec, result.Score, result.Elapsed)
	logger.Debug("game analytics",
		"efficiency", result.Analytics.Performance.Efficiency,
		"efficiency_trend", result.Analytics.EfficiencyTrend,
		"avg_safe_directions", result.Analytics.Behavior.AvgSafeDirections(),
		"high_risk_moves", result.Analytics.Behavior.HighRiskMoves,
		"toward_food", result.Analytics.Behavior.TowardFoodRatio(),
	)
	return result, nil
}

// playGames runs games on a fixed pool of workers. Results come back sorted by
// seed so runs are comparable.
func playGames(ctx context.Context, cfg simConfig, games, workers int, firstSeed int64, session *analytics.Session, logger *slog.Logger) ([]gameResult, error) {
	if workers < 1 {
		workers = 1
	}

	seeds := make(chan int64)
	var (
		mu       sync.Mutex
		results  []gameResult
		firstErr error
		wg       sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range seeds {
				res, err := playGame(ctx, cfg, seed, session, logger)
				mu.Lock()
				if err != nil && firstErr == nil {
					firstErr = err
				}
				if err == nil {
					results = append(results, res)
				}
				mu.Unlock()
				if err == nil {
					logger.Info("game finished",
						"game", res.ID,
						"seed", res.Seed,
						"turns", res.Turns,
						"score", res.Score,
						"length", res.Length,
						"outcome", res.Outcome,
						"peak_difficulty", res.PeakDifficulty,
						"min_survival", res.MinSurvival,
						"elapsed", res.Elapsed,
					)
				}
			}
		}()
	}

sendLoop:
	for i := 0; i < games; i++ {
		select {
		case seeds <- firstSeed + int64(i):
		case <-ctx.Done():
			break sendLoop
		}
	}
	close(seeds)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Seed < results[j].Seed })
	if firstErr != nil {
		return results, firstErr
	}
	return results, ctx.Err()
}
