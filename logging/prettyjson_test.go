package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type heading int

func (h heading) String() string { return "Right" }

func TestCompactHandler_OneLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, false)

	log.Debug("decision", "source", "path", "dir", heading(3), "took", 2*time.Millisecond)
	log.With("game", "g1").WithGroup("board").Info("tick", "len", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines want 2:\n%s", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first["msg"] != "decision" || first["level"] != "DEBUG" {
		t.Fatalf("got=%v", first)
	}
	if first["dir"] != "Right" {
		t.Fatalf("dir=%v want Right", first["dir"])
	}
	if first["took"] != "2ms" {
		t.Fatalf("took=%v want 2ms", first["took"])
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	board, ok := second["board"].(map[string]any)
	if !ok || board["len"] != float64(3) {
		t.Fatalf("board group=%v", second["board"])
	}
	if second["game"] != "g1" {
		t.Fatalf("game=%v", second["game"])
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestHandler_ErrorValuesKeepTheirText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, false)

	base := errors.New("cell size must be positive")
	log.Error("selector failed", "error", fmt.Errorf("selector config: %w", base))
	log.With("cause", base).Warn("retry")

	got := decodeLines(t, &buf)
	if got[0]["error"] != "selector config: cell size must be positive" {
		t.Fatalf("error=%v", got[0]["error"])
	}
	if got[1]["cause"] != "cell size must be positive" {
		t.Fatalf("cause=%v", got[1]["cause"])
	}
}

func TestHandler_AttrsStayInTheirGroup(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, false)

	log.With("run", "r1").
		WithGroup("game").With("id", "g1").
		WithGroup("board").Info("tick", "len", 3)

	got := decodeLines(t, &buf)[0]
	if got["run"] != "r1" {
		t.Fatalf("run=%v want top level", got["run"])
	}
	g, ok := got["game"].(map[string]any)
	if !ok || g["id"] != "g1" {
		t.Fatalf("game=%v", got["game"])
	}
	b, ok := g["board"].(map[string]any)
	if !ok || b["len"] != float64(3) {
		t.Fatalf("board=%v", g["board"])
	}
	if _, leaked := b["id"]; leaked {
		t.Fatalf("id leaked into board: %v", b)
	}
	if _, leaked := b["run"]; leaked {
		t.Fatalf("run leaked into board: %v", b)
	}
}

func TestPrettyHandler_Indents(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, true)
	log.Debug("hidden")
	log.Info("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record written at info level:\n%s", out)
	}
	if !strings.Contains(out, "\n  \"k\": \"v\"") {
		t.Fatalf("expected indented output, got:\n%s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want=%v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatalf("nil logger not replaced")
	}
	l := slog.Default()
	if OrDiscard(l) != l {
		t.Fatalf("non-nil logger replaced")
	}
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("discard logger enabled")
	}
}
