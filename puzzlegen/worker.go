package puzzlegen

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Worker fills puzzle slots one at a time, recycling a single engine session
// across all attempts and slots.
type Worker struct {
	cfg    Config
	oracle Searcher
	log    zerolog.Logger
}

func NewWorker(cfg Config, oracle Searcher, log zerolog.Logger) *Worker {
	return &Worker{
		cfg:    cfg,
		oracle: oracle,
		log:    log,
	}
}

// GeneratePuzzle runs one slot: up to MaxAttempts fresh games, stopping at
// the first extracted record. A nil, nil return means the slot was given up.
// Any error is an engine failure and fatal to the worker.
func (w *Worker) GeneratePuzzle() (*Puzzle, error) {
	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		result, err := NewSimulator(w.cfg, w.oracle, w.log).Run()
		if err != nil {
			return nil, err
		}

		puzzle, err := Extract(result)
		if err != nil {
			w.log.Debug().
				Int("attempt", attempt).
				Stringer("outcome", result.Outcome).
				Msg("attempt rejected")
			continue
		}
		return puzzle, nil
	}
	return nil, nil
}

// Run produces up to count puzzles on out, one record per line, written as
// each is accepted so a later fatal failure keeps everything emitted so far.
// The returned count may fall short of count because of given-up slots.
func (w *Worker) Run(out io.Writer, count int) (int, error) {
	written := 0
	for slot := 0; slot < count; slot++ {
		puzzle, err := w.GeneratePuzzle()
		if err != nil {
			w.log.Error().Err(err).Int("produced", written).Msg("worker aborted")
			return written, err
		}
		if puzzle == nil {
			w.log.Warn().Int("slot", slot).Msg("slot given up")
			continue
		}

		if _, err := fmt.Fprintln(out, puzzle.Position); err != nil {
			return written, fmt.Errorf("write puzzle: %w", err)
		}
		written++
		w.log.Info().Str("puzzle", puzzle.Position).Int("produced", written).Msg("puzzle accepted")
	}
	return written, nil
}
