package usi

import (
	"errors"
	"testing"
)

func TestParseInfoBuildsPVTable(t *testing.T) {
	var pvs []PV
	var err error
	for _, line := range []string{
		"info depth 1 seldepth 1 multipv 1 score cp 31 nodes 20 pv 1e2d 3a2b",
		"info depth 1 seldepth 1 multipv 2 score cp -5 nodes 20 pv 3d3c",
		"info depth 2 seldepth 2 multipv 1 score cp 48 nodes 55 pv 2e2d",
		"info depth 2 nodes 100 nps 50000 hashfull 0",
	} {
		pvs, err = parseInfo(pvs, line)
		if err != nil {
			t.Fatalf("parseInfo(%q) -- %s", line, err)
		}
	}

	if len(pvs) != 2 {
		t.Fatalf("pv count = %d, want 2", len(pvs))
	}
	if pvs[0].Rank != 1 || pvs[0].Score != 48 || pvs[0].Moves[0] != "2e2d" {
		t.Fatalf("rank 1 not updated in place: %+v", pvs[0])
	}
	if pvs[1].Rank != 2 || pvs[1].Score != -5 {
		t.Fatalf("rank 2 wrong: %+v", pvs[1])
	}
}

func TestParseInfoMateScores(t *testing.T) {
	pvs, err := parseInfo(nil, "info depth 3 multipv 1 score mate 2 pv 1c1b")
	if err != nil {
		t.Fatalf("err -- %s", err)
	}
	if pvs[0].Score != mateScore {
		t.Fatalf("mate score = %d", pvs[0].Score)
	}

	pvs, err = parseInfo(nil, "info depth 3 multipv 1 score mate -1 pv 2a2b")
	if err != nil {
		t.Fatalf("err -- %s", err)
	}
	if pvs[0].Score != -mateScore {
		t.Fatalf("mated score = %d", pvs[0].Score)
	}
}

func TestParseInfoMalformed(t *testing.T) {
	if _, err := parseInfo(nil, "info multipv x score cp 1 pv 1e2d"); !errors.Is(err, ErrProtocolParse) {
		t.Fatalf("err = %v", err)
	}
	if _, err := parseInfo(nil, "info multipv 1 score cp"); !errors.Is(err, ErrProtocolParse) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseBestMove(t *testing.T) {
	cases := []struct {
		line     string
		terminal Terminal
		move     string
	}{
		{"bestmove 1e2d ponder 3a2b", TerminalMove, "1e2d"},
		{"bestmove P*2b", TerminalMove, "P*2b"},
		{"bestmove resign", TerminalResign, ""},
		{"bestmove win", TerminalWin, ""},
		{"bestmove (none)", TerminalNone, ""},
	}
	for _, c := range cases {
		terminal, move, err := parseBestMove(c.line)
		if err != nil {
			t.Fatalf("parseBestMove(%q) -- %s", c.line, err)
		}
		if terminal != c.terminal || move != c.move {
			t.Fatalf("parseBestMove(%q) = %v %q", c.line, terminal, move)
		}
	}

	if _, _, err := parseBestMove("bestmove"); !errors.Is(err, ErrProtocolParse) {
		t.Fatalf("err = %v", err)
	}
}

func TestResultBestPrefersPVOverBestMove(t *testing.T) {
	r := &Result{
		PVs: []PV{
			{Rank: 1, Score: 90, Moves: []string{"1e2d", "3a2b"}},
			{Rank: 2, Score: 10, Moves: []string{"3d3c"}},
		},
		Terminal: TerminalResign,
	}
	move, ok := r.Best()
	if !ok || move != "1e2d" {
		t.Fatalf("Best = %q %v", move, ok)
	}
}

func TestResultWorstPicksLowestScore(t *testing.T) {
	r := &Result{
		PVs: []PV{
			{Rank: 1, Score: 90, Moves: []string{"1e2d"}},
			{Rank: 2, Score: -40, Moves: []string{"3d3c"}},
			{Rank: 3, Score: -40, Moves: []string{"2a2b"}},
			{Rank: 4, Score: 15, Moves: []string{"1a1b"}},
		},
		Terminal: TerminalMove,
		BestMove: "1e2d",
	}
	move, ok := r.Worst()
	if !ok || move != "2a2b" {
		t.Fatalf("Worst = %q %v, want the last of the worst-tied", move, ok)
	}
}

func TestResultFallsBackToBestMove(t *testing.T) {
	r := &Result{Terminal: TerminalMove, BestMove: "1e2d"}
	if move, ok := r.Best(); !ok || move != "1e2d" {
		t.Fatalf("Best fallback = %q %v", move, ok)
	}
	if move, ok := r.Worst(); !ok || move != "1e2d" {
		t.Fatalf("Worst fallback = %q %v", move, ok)
	}

	r = &Result{Terminal: TerminalResign}
	if _, ok := r.Best(); ok {
		t.Fatal("Best on resign without pv should fail")
	}
	if _, ok := r.Worst(); ok {
		t.Fatal("Worst on resign without pv should fail")
	}
}
