package puzzlegen

import (
	"errors"

	"github.com/garlicgarrison/tsume-puzzle-gen/shogi"
)

var (
	// ErrEngineFailure wraps any session-level fault surfaced during a
	// simulation. It is fatal to the worker: the session state can no
	// longer be trusted.
	ErrEngineFailure = errors.New("engine failure")
	// ErrPuzzleRejected marks a finished game that yields no puzzle. The
	// attempt controller absorbs it; it never crosses the worker boundary.
	ErrPuzzleRejected = errors.New("puzzle rejected")
)

// Outcome is the terminal classification of one simulated game.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCheckmate
	OutcomeDrawRepetition
	OutcomeDrawOther
	OutcomeMoveLimit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCheckmate:
		return "checkmate"
	case OutcomeDrawRepetition:
		return "draw_repetition"
	case OutcomeDrawOther:
		return "draw_other"
	case OutcomeMoveLimit:
		return "move_limit"
	default:
		return "none"
	}
}

// GameResult is produced exactly once per simulated game. For checkmates,
// Puzzle is the position one move before the mate with the winner to move.
type GameResult struct {
	Outcome Outcome
	Winner  shogi.Color
	Puzzle  *shogi.Position
}

// Puzzle is one accepted record: a position-only sfen, attacker to move,
// exactly one move from a forced mate. Immutable once extracted.
type Puzzle struct {
	Position string `json:"position"`
}
