package analytics

import (
	"sync"
	"time"

	"github.com/brensch/snekpath/game"
)

const (
	highRiskSafeMoves = 1 // at most this many safe moves
	lowRiskSafeMoves  = 3 // at least this many safe moves

	efficientMove   = 0.3
	inefficientMove = -0.3

	closeToFood = 50  // field units
	farFromFood = 200 // field units

	trendWindow    = 5
	recentGames    = 5
	lowRecentScore = 10
)

// Behavior counts how a snake moved. Counts add across games; the ratio
// methods are taken over Moves.
type Behavior struct {
	Moves               int
	HighRiskMoves       int
	LowRiskMoves        int
	HighEfficiencyMoves int
	LowEfficiencyMoves  int
	TowardFoodMoves     int
	CloseToFood         int
	FarFromFood         int

	safeDirections int
	efficiency     float64
}

func (b *Behavior) add(m Move) {
	b.Moves++
	b.safeDirections += m.SafeDirections
	b.efficiency += m.Efficiency
	if m.SafeDirections <= highRiskSafeMoves {
		b.HighRiskMoves++
	}
	if m.SafeDirections >= lowRiskSafeMoves {
		b.LowRiskMoves++
	}
	if m.Efficiency > efficientMove {
		b.HighEfficiencyMoves++
	}
	if m.Efficiency < inefficientMove {
		b.LowEfficiencyMoves++
	}
	if m.Direction == m.FoodHeading {
		b.TowardFoodMoves++
	}
	if m.FoodDistance < closeToFood {
		b.CloseToFood++
	}
	if m.FoodDistance > farFromFood {
		b.FarFromFood++
	}
}

func (b *Behavior) merge(o Behavior) {
	b.Moves += o.Moves
	b.HighRiskMoves += o.HighRiskMoves
	b.LowRiskMoves += o.LowRiskMoves
	b.HighEfficiencyMoves += o.HighEfficiencyMoves
	b.LowEfficiencyMoves += o.LowEfficiencyMoves
	b.TowardFoodMoves += o.TowardFoodMoves
	b.CloseToFood += o.CloseToFood
	b.FarFromFood += o.FarFromFood
	b.safeDirections += o.safeDirections
	b.efficiency += o.efficiency
}

func (b Behavior) ratio(n int) float64 {
	if b.Moves == 0 {
		return 0
	}
	return float64(n) / float64(b.Moves)
}

func (b Behavior) AvgSafeDirections() float64 { return b.ratio(b.safeDirections) }

func (b Behavior) AvgEfficiency() float64 {
	if b.Moves == 0 {
		return 0
	}
	return b.efficiency / float64(b.Moves)
}

func (b Behavior) HighEfficiencyRatio() float64 { return b.ratio(b.HighEfficiencyMoves) }
func (b Behavior) LowEfficiencyRatio() float64  { return b.ratio(b.LowEfficiencyMoves) }
func (b Behavior) TowardFoodRatio() float64     { return b.ratio(b.TowardFoodMoves) }

// Behavior summarises the recorded moves; ok is false when there are none.
func (r *Recorder) Behavior() (Behavior, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b Behavior
	for _, m := range r.moves {
		b.add(m)
	}
	return b, b.Moves > 0
}

// GameRecord is the summary of one finished game.
type GameRecord struct {
	Score    int
	Duration time.Duration
	// Performance is zero for a game that ended before its first move.
	Performance     Performance
	Behavior        Behavior
	EfficiencyTrend float64
}

// GameEnd summarises the recorded moves as a finished game. It does not clear
// the recorder.
func (r *Recorder) GameEnd(score int, duration time.Duration) GameRecord {
	rec := GameRecord{Score: score, Duration: duration}
	rec.Performance, _ = r.Performance()
	rec.Behavior, _ = r.Behavior()

	moves := r.Moves()
	efficiencies := make([]float64, len(moves))
	for i, m := range moves {
		efficiencies[i] = m.Efficiency
	}
	rec.EfficiencyTrend = Trend(efficiencies, trendWindow)
	return rec
}

// Trend is the least-squares slope of the last window values against their
// index. It is zero when fewer than window values exist or window < 2.
func Trend(data []float64, window int) float64 {
	if window < 2 || len(data) < window {
		return 0
	}
	recent := data[len(data)-window:]

	n := float64(len(recent))
	meanX := (n - 1) / 2
	var meanY float64
	for _, y := range recent {
		meanY += y
	}
	meanY /= n

	var num, den float64
	for i, y := range recent {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	return num / den
}

// Session collects finished games. It is safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	games []GameRecord
}

func NewSession() *Session {
	return &Session{}
}

// Add stores a finished game.
func (s *Session) Add(g GameRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append(s.games, g)
}

// EndGame records the game held in rec and clears rec for the next one.
func (s *Session) EndGame(rec *Recorder, score int, duration time.Duration) GameRecord {
	g := rec.GameEnd(score, duration)
	rec.Reset()
	s.Add(g)
	return g
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

// Summary describes every game in a session.
type Summary struct {
	Games       int
	BestScore   int
	AvgScore    float64
	AvgDuration time.Duration
	// ScoreTrend is the Trend of the last few scores in the order the games
	// were added.
	ScoreTrend float64
	Behavior   Behavior
	Directions map[game.Direction]int
}

// Summary aggregates the session; ok is false before the first game.
func (s *Session) Summary() (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) == 0 {
		return Summary{}, false
	}

	sum := Summary{
		Games:      len(s.games),
		Directions: make(map[game.Direction]int, 5),
	}
	scores := make([]float64, len(s.games))
	var totalScore int
	var totalDuration time.Duration
	for i, g := range s.games {
		scores[i] = float64(g.Score)
		totalScore += g.Score
		totalDuration += g.Duration
		sum.BestScore = max(sum.BestScore, g.Score)
		sum.Behavior.merge(g.Behavior)
		for d, n := range g.Performance.Directions {
			sum.Directions[d] += n
		}
	}
	sum.AvgScore = float64(totalScore) / float64(len(s.games))
	sum.AvgDuration = totalDuration / time.Duration(len(s.games))
	sum.ScoreTrend = Trend(scores, trendWindow)
	return sum, true
}

// Recommendations looks at behaviour over the whole session and at the most
// recent scores.
func (s *Session) Recommendations() []Recommendation {
	sum, ok := s.Summary()
	if !ok {
		return nil
	}

	var out []Recommendation
	if most, least, ok := extremes(sum.Directions); ok {
		out = append(out, Recommendation{Kind: VaryDirections, Most: most, Least: least})
	}
	if sum.Behavior.HighRiskMoves > sum.Behavior.LowRiskMoves {
		out = append(out, Recommendation{Kind: TakeFewerRisks})
	}
	if sum.Behavior.Moves > 0 && sum.Behavior.AvgEfficiency() < 0 {
		out = append(out, Recommendation{Kind: PlanAhead})
	}
	if sum.Games > 1 && s.recentBest() < lowRecentScore {
		out = append(out, Recommendation{Kind: AimHigher})
	}
	return out
}

func (s *Session) recentBest() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := 0
	for _, g := range s.games[max(0, len(s.games)-recentGames):] {
		best = max(best, g.Score)
	}
	return best
}
