package shogi

import (
	"strings"
	"testing"
)

func TestParseSFENRoundTrip(t *testing.T) {
	for _, sfen := range []string{
		StartingSFEN,
		"bkr/p1p/3/P1P/RKB w - 7",
		"1kr/p1p/1b1/P1P/RK1 b Bp 12",
		"1k1/p1p/+b2/P1P/RK1 w 2Prb 3",
	} {
		p, err := ParseSFEN(sfen)
		if err != nil {
			t.Fatalf("ParseSFEN(%q) -- %s", sfen, err)
		}
		if got := p.SFEN(); got != sfen {
			t.Fatalf("round trip mismatch: %q -> %q", sfen, got)
		}
	}
}

func TestParseSFENDefaultsMoveNumber(t *testing.T) {
	p, err := ParseSFEN("bkr/p1p/3/P1P/RKB b -")
	if err != nil {
		t.Fatalf("err -- %s", err)
	}
	if p.MoveNumber() != 1 {
		t.Fatalf("move number = %d, want 1", p.MoveNumber())
	}
}

func TestParseSFENRejectsBadInput(t *testing.T) {
	for _, sfen := range []string{
		"",
		"bkr/p1p/3/P1P b - 1",      // four ranks
		"bkrr/p1p/3/P1P/RKB b - 1", // rank overflow
		"bkr/p1p/3/P1P/RKB x - 1",  // bad side marker
		"bkr/p1p/3/P1P/RKB b - 0",  // bad move number
		"b1r/p1p/3/P1P/RKB b - 1",  // missing white king
		"bkr/p1p/3/P1P/R1B b - 1",  // missing black king
	} {
		if _, err := ParseSFEN(sfen); err == nil {
			t.Fatalf("ParseSFEN(%q) accepted", sfen)
		}
	}
}

func TestPositionOnly(t *testing.T) {
	if got := PositionOnly("bkr/p1p/3/P1P/RKB b - 1"); got != "bkr/p1p/3/P1P/RKB b - 1" {
		t.Fatalf("got %q", got)
	}
	if got := PositionOnly("bkr/p1p/3/P1P/RKB b - 1 moves 1e2d 3a2b"); got != "bkr/p1p/3/P1P/RKB b - 1" {
		t.Fatalf("got %q", got)
	}
}

func TestSignatureExcludesMoveNumber(t *testing.T) {
	a, err := ParseSFEN("bkr/p1p/3/P1P/RKB b - 1")
	if err != nil {
		t.Fatalf("err -- %s", err)
	}
	b, err := ParseSFEN("bkr/p1p/3/P1P/RKB b - 42")
	if err != nil {
		t.Fatalf("err -- %s", err)
	}
	if a.Signature() != b.Signature() {
		t.Fatalf("signatures differ: %q vs %q", a.Signature(), b.Signature())
	}
	if strings.Contains(a.Signature(), "42") {
		t.Fatalf("signature leaks move number: %q", a.Signature())
	}
}

func TestMirrorSwapsOwnershipAndSide(t *testing.T) {
	p, err := ParseSFEN("bkr/p1p/3/P1P/RKB w - 9")
	if err != nil {
		t.Fatalf("err -- %s", err)
	}

	m := p.Mirror()
	if m.Side() != Black {
		t.Fatalf("mirrored side = %s, want b", m.Side())
	}
	// The starting array is symmetric up to ownership, so a mirror only
	// flips the side marker.
	if got := m.Signature(); got != "bkr/p1p/3/P1P/RKB b -" {
		t.Fatalf("mirror signature = %q", got)
	}
}

func TestMirrorRotatesAsymmetricBoard(t *testing.T) {
	p, err := ParseSFEN("1kr/p1p/1b1/P1P/RK1 w Bp 5")
	if err != nil {
		t.Fatalf("err -- %s", err)
	}

	m := p.Mirror()
	if got := m.Signature(); got != "1kr/p1p/1B1/P1P/RK1 b Pb" {
		t.Fatalf("mirror signature = %q", got)
	}
	if m.Hand(Black, 'B') != 0 || m.Hand(White, 'B') != 1 {
		t.Fatalf("bishop hand not swapped")
	}
	if m.Hand(Black, 'P') != 1 || m.Hand(White, 'P') != 0 {
		t.Fatalf("pawn hand not swapped")
	}
}
