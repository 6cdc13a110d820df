package shogi

import (
	"errors"
	"fmt"
)

// Board geometry for wildcat shogi. Files are numbered the way the engine
// numbers them: file 1 is the rightmost column of a rank string.
const (
	Files = 3
	Ranks = 5
)

// StartingSFEN is the wildcat shogi initial position.
const StartingSFEN = "bkr/p1p/3/P1P/RKB b - 1"

var (
	ErrInvalidSFEN  = errors.New("invalid sfen")
	ErrInvalidMove  = errors.New("invalid move")
	ErrEmptySquare  = errors.New("no piece on origin square")
	ErrEmptyHand    = errors.New("drop from empty hand")
	ErrOccupied     = errors.New("destination square occupied")
	ErrMissingKings = errors.New("position must have one king per side")
)

type Color int

const (
	// Black (sente) is the attacker marker side; it always appears
	// upper-case on the board and as "b" in the side field.
	Black Color = iota
	White
)

func (c Color) Other() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) String() string {
	if c == Black {
		return "b"
	}
	return "w"
}

// Piece is one board cell. The zero value is an empty cell.
type Piece struct {
	Kind     byte // base letter, always upper-case ('P', 'B', 'R', 'K', ...)
	Color    Color
	Promoted bool
}

func (p Piece) Empty() bool {
	return p.Kind == 0
}

// Position is a passive ledger of one game state. It applies the moves the
// oracle hands back and renders the wire form; it never checks legality.
type Position struct {
	board   [Ranks][Files]Piece
	side    Color
	hands   [2]map[byte]int
	moveNum int
	plies   int
}

// NewPosition returns the starting position.
func NewPosition() *Position {
	p, err := ParseSFEN(StartingSFEN)
	if err != nil {
		panic(fmt.Sprintf("starting sfen unparseable: %v", err))
	}
	return p
}

func (p *Position) Side() Color {
	return p.side
}

// MoveNumber is the SFEN move counter, starting at 1 and incremented per ply.
func (p *Position) MoveNumber() int {
	return p.moveNum
}

// Plies is the number of moves applied to this position since construction.
func (p *Position) Plies() int {
	return p.plies
}

func (p *Position) Hand(c Color, kind byte) int {
	return p.hands[c][kind]
}

func (p *Position) At(sq Square) Piece {
	return p.board[sq.rank()][sq.col()]
}

func (p *Position) Clone() *Position {
	next := &Position{
		board:   p.board,
		side:    p.side,
		moveNum: p.moveNum,
		plies:   p.plies,
	}
	for c := range p.hands {
		next.hands[c] = make(map[byte]int, len(p.hands[c]))
		for kind, n := range p.hands[c] {
			next.hands[c][kind] = n
		}
	}
	return next
}

// Apply mutates the position by one move. Captures move the victim into the
// acting side's hand, demoted to its base kind. A failure here means the
// oracle and the ledger disagree, which callers treat as an engine failure.
func (p *Position) Apply(m Move) error {
	if m.Drop {
		if p.hands[p.side][m.Piece] <= 0 {
			return fmt.Errorf("%w: %c on %s", ErrEmptyHand, m.Piece, m.To)
		}
		if !p.At(m.To).Empty() {
			return fmt.Errorf("%w: drop to %s", ErrOccupied, m.To)
		}
		p.hands[p.side][m.Piece]--
		if p.hands[p.side][m.Piece] == 0 {
			delete(p.hands[p.side], m.Piece)
		}
		p.board[m.To.rank()][m.To.col()] = Piece{Kind: m.Piece, Color: p.side}
	} else {
		moving := p.At(m.From)
		if moving.Empty() {
			return fmt.Errorf("%w: %s", ErrEmptySquare, m.From)
		}
		victim := p.At(m.To)
		if !victim.Empty() {
			p.hands[p.side][victim.Kind]++
		}
		if m.Promote {
			moving.Promoted = true
		}
		p.board[m.From.rank()][m.From.col()] = Piece{}
		p.board[m.To.rank()][m.To.col()] = moving
	}

	p.side = p.side.Other()
	p.moveNum++
	p.plies++
	return nil
}

// Mirror rotates the board 180 degrees, swaps piece and hand ownership and
// toggles the side to move. Used to renormalize puzzles where the nominal
// defender delivered the mate.
func (p *Position) Mirror() *Position {
	next := &Position{
		side:    p.side.Other(),
		moveNum: p.moveNum,
		plies:   p.plies,
	}
	for r := 0; r < Ranks; r++ {
		for c := 0; c < Files; c++ {
			pc := p.board[r][c]
			if !pc.Empty() {
				pc.Color = pc.Color.Other()
			}
			next.board[Ranks-1-r][Files-1-c] = pc
		}
	}
	for c := range p.hands {
		swapped := Color(c).Other()
		next.hands[swapped] = make(map[byte]int, len(p.hands[c]))
		for kind, n := range p.hands[c] {
			next.hands[swapped][kind] = n
		}
	}
	return next
}

// ResetMoveNumber rewinds the move counter, used when emitting puzzle records.
func (p *Position) ResetMoveNumber() {
	p.moveNum = 1
}

func (p *Position) kingCount(c Color) int {
	n := 0
	for r := 0; r < Ranks; r++ {
		for f := 0; f < Files; f++ {
			pc := p.board[r][f]
			if pc.Kind == 'K' && pc.Color == c {
				n++
			}
		}
	}
	return n
}
