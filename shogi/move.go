package shogi

import "fmt"

// Square identifies a board cell in the engine's own coordinates: file 1..3
// counted from the right, rank 'a'..'e' counted from the top of the board.
type Square struct {
	File int
	Rank byte
}

func (s Square) String() string {
	return fmt.Sprintf("%d%c", s.File, s.Rank)
}

func (s Square) valid() bool {
	return s.File >= 1 && s.File <= Files && s.Rank >= 'a' && s.Rank < 'a'+Ranks
}

func (s Square) rank() int {
	return int(s.Rank - 'a')
}

// col maps the engine file number onto the rank-string index: file 1 is the
// last character of a rank, the highest file the first.
func (s Square) col() int {
	return Files - s.File
}

// Move is either a board transfer or a drop from hand, in the engine's text
// form ("1e2d", "1a1b+", "P*2b").
type Move struct {
	Drop    bool
	Piece   byte // drop only, base kind letter
	From    Square
	To      Square
	Promote bool
}

func ParseMove(s string) (Move, error) {
	if len(s) == 4 && s[1] == '*' {
		m := Move{
			Drop:  true,
			Piece: s[0],
			To:    Square{File: int(s[2] - '0'), Rank: s[3]},
		}
		if m.Piece < 'A' || m.Piece > 'Z' || !m.To.valid() {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
		}
		return m, nil
	}

	if len(s) == 4 || (len(s) == 5 && s[4] == '+') {
		m := Move{
			From:    Square{File: int(s[0] - '0'), Rank: s[1]},
			To:      Square{File: int(s[2] - '0'), Rank: s[3]},
			Promote: len(s) == 5,
		}
		if !m.From.valid() || !m.To.valid() {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
		}
		return m, nil
	}

	return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
}

func (m Move) String() string {
	if m.Drop {
		return fmt.Sprintf("%c*%s", m.Piece, m.To)
	}
	if m.Promote {
		return fmt.Sprintf("%s%s+", m.From, m.To)
	}
	return fmt.Sprintf("%s%s", m.From, m.To)
}
