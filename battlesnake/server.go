package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/brensch/snekpath/game"
	"github.com/brensch/snekpath/logging"
	"github.com/brensch/snekpath/pathfind"
	"github.com/brensch/snekpath/policy"
	"github.com/brensch/snekpath/safety"
)

// Config holds server configuration.
type Config struct {
	// CellSize is the field units per Battlesnake cell.
	CellSize int
	// MaxIterations caps each search; zero sizes it to the board.
	MaxIterations int
	// WSReadTimeout bounds the wait for the next board on /ws.
	WSReadTimeout time.Duration
	// AvoidHazards treats hazard cells as walls. Hazards only drain health,
	// but the selector has no notion of health, so with this off it walks
	// through them freely.
	AvoidHazards bool
}

func DefaultConfig() Config {
	return Config{
		CellSize:      game.DefaultCellSize,
		WSReadTimeout: time.Minute,
		AvoidHazards:  true,
	}
}

// Server answers Battlesnake requests with the policy selector.
type Server struct {
	config   Config
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewServer(config Config, logger *slog.Logger) (*Server, error) {
	if config.CellSize <= 0 {
		return nil, fmt.Errorf("cell size: %w", game.ErrNonPositive)
	}
	if config.MaxIterations < 0 {
		return nil, fmt.Errorf("%w: got %d", pathfind.ErrBudget, config.MaxIterations)
	}
	return &Server{
		config: config,
		log:    logging.OrDiscard(logger),
		upgrader: websocket.Upgrader{
			// Boards come from local tooling; origin checks are left to the proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/start", s.handleStart)
	mux.HandleFunc("/move", s.handleMove)
	mux.HandleFunc("/end", s.handleEnd)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// handleIndex returns the Battlesnake info
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	response := BattlesnakeInfoResponse{
		APIVersion: "1",
		Author:     "snekpath",
		Color:      "#3cb371",
		Head:       "default",
		Tail:       "default",
		Version:    "1.0.0",
	}
	writeJSON(w, response)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	s.log.Info("game started", "game", gameID(&req), "turn", req.Turn, "you", req.You.Name)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	dec, err := s.decide(&req, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, dec.MoveResponse)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	youAlive := false
	for _, snake := range req.Board.Snakes {
		if snake.ID == req.You.ID {
			youAlive = true
			break
		}
	}

	result := "lost"
	if youAlive {
		result = "won"
	} else if len(req.Board.Snakes) == 0 {
		result = "draw"
	}

	s.log.Info("game ended", "game", gameID(&req), "turn", req.Turn, "result", result)
	w.WriteHeader(http.StatusOK)
}

// wsResponse is one reply on /ws. Error is set instead of Move when the
// board could not be used.
type wsResponse struct {
	MoveResponse
	Turn       int      `json:"turn"`
	Advice     []string `json:"advice,omitempty"`
	Survival   float64  `json:"survival"`
	Difficulty float64  `json:"difficulty"`
	Error      string   `json:"error,omitempty"`
}

// handleWS reads one board per message and writes one decision per message
// until the client closes or goes quiet.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	log := s.log.With("session", uuid.NewString())
	log.Info("websocket connected", "remote", r.RemoteAddr)

	for {
		if s.config.WSReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.config.WSReadTimeout))
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("websocket closed")
			} else {
				log.Warn("websocket read failed", "error", err)
			}
			return
		}

		var req GameRequest
		var reply wsResponse
		if err := json.Unmarshal(message, &req); err != nil {
			reply.Error = fmt.Sprintf("decode board: %v", err)
		} else if dec, err := s.decide(&req, true); err != nil {
			reply.Turn = req.Turn
			reply.Error = err.Error()
		} else {
			reply.Turn = req.Turn
			reply.MoveResponse = dec.MoveResponse
			reply.Survival = dec.survival
			reply.Difficulty = dec.difficulty
			for _, a := range dec.advice {
				reply.Advice = append(reply.Advice, a.String())
			}
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("websocket write failed", "error", err)
			return
		}
	}
}

var errNoSnake = errors.New("request has no body for you")

// decision is a move plus, when asked for, the read-only analysis of the
// board it was made on.
type decision struct {
	MoveResponse
	advice     []safety.Advice
	survival   float64
	difficulty float64
}

// decide runs the selector on one board. A board with no viable move still
// gets a move: the snake is dead either way.
func (s *Server) decide(req *GameRequest, analyse bool) (decision, error) {
	start := time.Now()

	conv, err := convertRequest(req, s.config.CellSize, s.config.AvoidHazards)
	if err != nil {
		return decision{}, err
	}
	if len(conv.state.Snake) == 0 {
		return decision{}, errNoSnake
	}

	budget := s.config.MaxIterations
	if budget == 0 {
		budget = pathfind.BudgetFor(conv.grid)
	}
	log := s.log.With("game", gameID(req), "turn", req.Turn)
	selector, err := policy.New(policy.Config{Grid: conv.grid, MaxIterations: budget}, policy.WithLogger(log))
	if err != nil {
		return decision{}, err
	}

	var dec decision
	if analyse {
		st := conv.state
		dec.survival = safety.SurvivalProbability(conv.grid, st.Snake, st.Obstacles)
		dec.difficulty = safety.DifficultyScore(conv.grid, st.Snake, st.Food, st.Obstacles)
		if dec.advice, err = selector.Advise(st, conv.current); err != nil {
			log.Warn("advice failed", "error", err)
		}
	}

	d, err := selector.ChooseDirection(conv.state, conv.current)
	switch {
	case err != nil:
		log.Error("selector failed", "error", err)
		dec.MoveResponse = fallbackMove("selector error")
	case d == game.NoDirection:
		log.Info("no safe move", "elapsed", time.Since(start))
		dec.MoveResponse = fallbackMove("no safe move")
	default:
		log.Info("move", "dir", d, "elapsed", time.Since(start))
		dec.MoveResponse = MoveResponse{Move: moveToString(d)}
	}
	return dec, nil
}

func fallbackMove(shout string) MoveResponse {
	return MoveResponse{Move: moveToString(game.Directions[0]), Shout: shout}
}

// gameID names a game in logs. Boards without an id get a fresh one per call.
func gameID(req *GameRequest) string {
	if req.Game.ID == "" {
		return "anon-" + uuid.NewString()
	}
	return req.Game.ID
}

func decodeRequest(w http.ResponseWriter, r *http.Request, req *GameRequest) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
