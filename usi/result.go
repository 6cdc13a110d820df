package usi

// Terminal classifies the bestmove line that closes a search.
type Terminal int

const (
	// TerminalMove: the engine proposed a move.
	TerminalMove Terminal = iota
	// TerminalResign: the side to move is lost (checkmated; the variant has
	// no resignation with ResignValue disabled and no stalemate).
	TerminalResign
	// TerminalWin: the side to move can deliver mate immediately.
	TerminalWin
	// TerminalNone: "bestmove (none)" — terminal but not attributable to a
	// mate, e.g. a declared draw.
	TerminalNone
)

// mateScore stands in for "forced mate" in centipawn comparisons.
const mateScore = 10000

// PV is one ranked candidate line from a MultiPV search. Score is in
// centipawns from the perspective of the side to move; forced mates collapse
// to +/-mateScore.
type PV struct {
	Rank  int
	Score int
	Moves []string
}

// Result is one completed search: the ranked candidate lines best-first plus
// the terminal bestmove.
type Result struct {
	PVs      []PV
	Terminal Terminal
	BestMove string
}

// Best returns the top-ranked move. The PV table is preferred over the
// bestmove token; the engine sometimes closes with resign even when it
// reported playable lines.
func (r *Result) Best() (string, bool) {
	for _, pv := range r.PVs {
		if pv.Rank == 1 && len(pv.Moves) > 0 {
			return pv.Moves[0], true
		}
	}
	if r.Terminal == TerminalMove {
		return r.BestMove, true
	}
	return "", false
}

// Worst returns the lowest-scored candidate of the ranked set — the last
// entry of the best-first ordering, ties resolved toward the lower rank's
// later sibling. This is the deliberately weak defender's pick.
func (r *Result) Worst() (string, bool) {
	move := ""
	worst := 0
	found := false
	for _, pv := range r.PVs {
		if len(pv.Moves) == 0 {
			continue
		}
		if !found || pv.Score <= worst {
			worst = pv.Score
			move = pv.Moves[0]
			found = true
		}
	}
	if found {
		return move, true
	}
	if r.Terminal == TerminalMove {
		return r.BestMove, true
	}
	return "", false
}
