package usi

import (
	"fmt"
	"strconv"
	"strings"
)

// parseInfo folds one "info ..." line into the PV table. Lines without a pv
// payload (nps/hashfull chatter) are skipped.
func parseInfo(pvs []PV, line string) ([]PV, error) {
	fields := strings.Fields(line)
	rank := 1
	score := 0
	scored := false
	var moves []string

	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "multipv":
			if i+1 >= len(fields) {
				return pvs, fmt.Errorf("%w: %q", ErrProtocolParse, line)
			}
			n, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return pvs, fmt.Errorf("%w: %q", ErrProtocolParse, line)
			}
			rank = n
			i++
		case "score":
			if i+2 >= len(fields) {
				return pvs, fmt.Errorf("%w: %q", ErrProtocolParse, line)
			}
			n, err := strconv.Atoi(fields[i+2])
			if err != nil {
				return pvs, fmt.Errorf("%w: %q", ErrProtocolParse, line)
			}
			switch fields[i+1] {
			case "cp":
				score = n
			case "mate":
				// Mate distances collapse to a fixed magnitude; only the
				// sign matters for best/worst ordering.
				if n >= 0 {
					score = mateScore
				} else {
					score = -mateScore
				}
			default:
				return pvs, fmt.Errorf("%w: %q", ErrProtocolParse, line)
			}
			scored = true
			i += 2
			// "lowerbound"/"upperbound" qualifiers are ignored.
		case "pv":
			moves = append([]string(nil), fields[i+1:]...)
			i = len(fields)
		}
	}

	if len(moves) == 0 || !scored {
		return pvs, nil
	}

	for i := range pvs {
		if pvs[i].Rank == rank {
			pvs[i].Score = score
			pvs[i].Moves = moves
			return pvs, nil
		}
	}
	return append(pvs, PV{Rank: rank, Score: score, Moves: moves}), nil
}

// parseBestMove decodes the terminal line of a search.
func parseBestMove(line string) (Terminal, string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return TerminalNone, "", fmt.Errorf("%w: %q", ErrProtocolParse, line)
	}
	switch fields[1] {
	case "resign":
		return TerminalResign, "", nil
	case "win":
		return TerminalWin, "", nil
	case "(none)":
		return TerminalNone, "", nil
	default:
		return TerminalMove, fields[1], nil
	}
}
