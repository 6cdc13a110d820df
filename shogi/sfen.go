package shogi

import (
	"fmt"
	"strconv"
	"strings"
)

// handOrder fixes the order hand pieces are written in. Kings never enter a
// hand, so this covers every capturable kind.
const handOrder = "RBGSNLP"

// PositionOnly strips a trailing " moves ..." history from a full sfen line.
func PositionOnly(sfen string) string {
	if idx := strings.Index(sfen, " moves"); idx >= 0 {
		return sfen[:idx]
	}
	return sfen
}

// ParseSFEN decodes the wire form: rank-major board, side marker, hands and
// an optional move counter. Exactly one king per side is required.
func ParseSFEN(sfen string) (*Position, error) {
	parts := strings.Fields(strings.TrimSpace(sfen))
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSFEN, sfen)
	}

	p := &Position{moveNum: 1}
	p.hands[Black] = make(map[byte]int)
	p.hands[White] = make(map[byte]int)

	rows := strings.Split(parts[0], "/")
	if len(rows) != Ranks {
		return nil, fmt.Errorf("%w: want %d ranks, got %d", ErrInvalidSFEN, Ranks, len(rows))
	}
	for r, row := range rows {
		c := 0
		promoted := false
		for i := 0; i < len(row); i++ {
			ch := row[i]
			switch {
			case ch == '+':
				promoted = true
				continue
			case ch >= '1' && ch <= '9':
				c += int(ch - '0')
			case ch >= 'A' && ch <= 'Z':
				if c >= Files {
					return nil, fmt.Errorf("%w: rank %q overflows", ErrInvalidSFEN, row)
				}
				p.board[r][c] = Piece{Kind: ch, Color: Black, Promoted: promoted}
				c++
			case ch >= 'a' && ch <= 'z':
				if c >= Files {
					return nil, fmt.Errorf("%w: rank %q overflows", ErrInvalidSFEN, row)
				}
				p.board[r][c] = Piece{Kind: ch - 'a' + 'A', Color: White, Promoted: promoted}
				c++
			default:
				return nil, fmt.Errorf("%w: bad rank char %q", ErrInvalidSFEN, ch)
			}
			promoted = false
		}
		if c != Files {
			return nil, fmt.Errorf("%w: rank %q has %d files", ErrInvalidSFEN, row, c)
		}
	}

	switch parts[1] {
	case "b":
		p.side = Black
	case "w":
		p.side = White
	default:
		return nil, fmt.Errorf("%w: bad side marker %q", ErrInvalidSFEN, parts[1])
	}

	if parts[2] != "-" {
		count := 0
		for i := 0; i < len(parts[2]); i++ {
			ch := parts[2][i]
			switch {
			case ch >= '0' && ch <= '9':
				count = count*10 + int(ch-'0')
			case ch >= 'A' && ch <= 'Z':
				if count == 0 {
					count = 1
				}
				p.hands[Black][ch] += count
				count = 0
			case ch >= 'a' && ch <= 'z':
				if count == 0 {
					count = 1
				}
				p.hands[White][ch-'a'+'A'] += count
				count = 0
			default:
				return nil, fmt.Errorf("%w: bad hand char %q", ErrInvalidSFEN, ch)
			}
		}
	}

	if len(parts) >= 4 {
		n, err := strconv.Atoi(parts[3])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad move number %q", ErrInvalidSFEN, parts[3])
		}
		p.moveNum = n
	}

	if p.kingCount(Black) != 1 || p.kingCount(White) != 1 {
		return nil, ErrMissingKings
	}

	return p, nil
}

// SFEN renders the full wire form including the move counter.
func (p *Position) SFEN() string {
	var sb strings.Builder
	p.writeBase(&sb)
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.moveNum))
	return sb.String()
}

// Signature is the wire form without the move counter, used for repetition
// detection and output dedup.
func (p *Position) Signature() string {
	var sb strings.Builder
	p.writeBase(&sb)
	return sb.String()
}

func (p *Position) writeBase(sb *strings.Builder) {
	for r := 0; r < Ranks; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Files; c++ {
			pc := p.board[r][c]
			if pc.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			if pc.Promoted {
				sb.WriteByte('+')
			}
			if pc.Color == Black {
				sb.WriteByte(pc.Kind)
			} else {
				sb.WriteByte(pc.Kind - 'A' + 'a')
			}
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.side.String())
	sb.WriteByte(' ')

	hand := p.handString()
	if hand == "" {
		sb.WriteByte('-')
	} else {
		sb.WriteString(hand)
	}
}

func (p *Position) handString() string {
	var sb strings.Builder
	write := func(c Color) {
		for i := 0; i < len(handOrder); i++ {
			kind := handOrder[i]
			n := p.hands[c][kind]
			if n == 0 {
				continue
			}
			if n > 1 {
				sb.WriteString(strconv.Itoa(n))
			}
			if c == Black {
				sb.WriteByte(kind)
			} else {
				sb.WriteByte(kind - 'A' + 'a')
			}
		}
	}
	write(Black)
	write(White)
	return sb.String()
}
