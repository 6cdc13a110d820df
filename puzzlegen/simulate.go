package puzzlegen

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/garlicgarrison/tsume-puzzle-gen/shogi"
	"github.com/garlicgarrison/tsume-puzzle-gen/usi"
)

// repetitionLimit is how often the same position signature may recur before
// the game is called a repetition draw.
const repetitionLimit = 4

// Searcher is the slice of the engine session the simulation drives. The
// oracle is the only judge of legality and of terminal states.
type Searcher interface {
	SetPosition(sfen string, moves []string) error
	Search(budget time.Duration, multiPV int) (*usi.Result, error)
}

/*
	One game, best-play attacker against worst-of-top-K defender. The
	asymmetry is the whole trick: a random defender almost never walks
	into a clean mate in 1, a worst-move defender does so constantly.
*/
type Simulator struct {
	cfg    Config
	oracle Searcher
	log    zerolog.Logger
}

func NewSimulator(cfg Config, oracle Searcher, log zerolog.Logger) *Simulator {
	return &Simulator{
		cfg:    cfg,
		oracle: oracle,
		log:    log,
	}
}

// Run drives one game from the starting position to a terminal outcome.
// Session faults come back wrapped in ErrEngineFailure and end the game
// immediately.
func (s *Simulator) Run() (*GameResult, error) {
	pos := shogi.NewPosition()
	var prev *shogi.Position
	var history []string
	seen := map[string]int{pos.Signature(): 1}

	for pos.Plies() < s.cfg.MaxMoves {
		if err := s.oracle.SetPosition(shogi.StartingSFEN, history); err != nil {
			return nil, fmt.Errorf("%w: set position: %v", ErrEngineFailure, err)
		}

		res, err := s.search(pos.Side())
		if err != nil {
			return nil, fmt.Errorf("%w: search: %v", ErrEngineFailure, err)
		}

		if res.Terminal == usi.TerminalWin {
			// The side to move mates from here, so this position already
			// is the puzzle.
			return &GameResult{
				Outcome: OutcomeCheckmate,
				Winner:  pos.Side(),
				Puzzle:  pos.Clone(),
			}, nil
		}

		var chosen string
		var ok bool
		if pos.Side() == shogi.Black {
			chosen, ok = res.Best()
		} else {
			chosen, ok = res.Worst()
		}

		if !ok {
			if res.Terminal == usi.TerminalNone || prev == nil {
				// Terminal without a loser we can name: rejected rather
				// than risk labeling a non-mate as a puzzle.
				return &GameResult{Outcome: OutcomeDrawOther}, nil
			}
			// No legal moves means the side to move is mated; the variant
			// has no stalemate. The previous position is the puzzle.
			return &GameResult{
				Outcome: OutcomeCheckmate,
				Winner:  pos.Side().Other(),
				Puzzle:  prev,
			}, nil
		}

		mv, err := shogi.ParseMove(chosen)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEngineFailure, err)
		}

		prev = pos.Clone()
		if err := pos.Apply(mv); err != nil {
			return nil, fmt.Errorf("%w: apply %s: %v", ErrEngineFailure, mv, err)
		}
		history = append(history, chosen)

		sig := pos.Signature()
		seen[sig]++
		if seen[sig] >= repetitionLimit {
			return &GameResult{Outcome: OutcomeDrawRepetition}, nil
		}
	}

	return &GameResult{Outcome: OutcomeMoveLimit}, nil
}

// search applies the per-side candidate width and retries once at 5x time
// when a resign arrives with an empty PV table; at very short byoyomi the
// engine occasionally gives up before reporting any line.
func (s *Simulator) search(side shogi.Color) (*usi.Result, error) {
	width := 1
	if side == shogi.White {
		width = s.cfg.MultiPV
	}

	budget := s.cfg.searchTime()
	res, err := s.oracle.Search(budget, width)
	if err != nil {
		return nil, err
	}
	if res.Terminal == usi.TerminalResign && len(res.PVs) == 0 {
		return s.oracle.Search(budget*5, width)
	}
	return res, nil
}
