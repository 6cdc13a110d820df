package puzzlegen

import (
	"fmt"

	"github.com/garlicgarrison/tsume-puzzle-gen/shogi"
)

// Extract converts a terminal checkmate into a puzzle record, or rejects the
// game. When the nominal defender delivered the mate (the worst-move policy
// still checkmates now and then), the board is mirrored so the side to move
// in every record is the attacker marker.
func Extract(result *GameResult) (*Puzzle, error) {
	if result.Outcome != OutcomeCheckmate {
		return nil, fmt.Errorf("%w: outcome %s", ErrPuzzleRejected, result.Outcome)
	}
	if result.Puzzle == nil {
		return nil, fmt.Errorf("%w: no pre-mate position retained", ErrPuzzleRejected)
	}

	pos := result.Puzzle
	if result.Winner == shogi.White {
		pos = pos.Mirror()
	} else {
		pos = pos.Clone()
	}

	if pos.Side() != shogi.Black {
		// The retained position must have the winner to move; anything
		// else is a bookkeeping defect upstream.
		return nil, fmt.Errorf("%w: mating side not to move", ErrPuzzleRejected)
	}

	pos.ResetMoveNumber()
	return &Puzzle{Position: shogi.PositionOnly(pos.SFEN())}, nil
}
