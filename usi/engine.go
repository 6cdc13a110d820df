// Package usi owns one conversation with a Fairy-Stockfish process speaking
// the USI dialect: handshake, option table, position updates and bounded-time
// MultiPV searches. A session is a strict request/response state machine;
// calls are sequential and an out-of-order call is a typed error, not
// undefined behavior.
package usi

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	guuid "github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrEngineStartup = errors.New("engine startup failed")
	ErrProtocolParse = errors.New("malformed engine output")
	ErrSearchTimeout = errors.New("no search result within budget")
	ErrSessionBusy   = errors.New("session has an outstanding request")
	ErrSessionClosed = errors.New("session closed")
)

const (
	// readyTimeout bounds the handshake round-trips.
	readyTimeout = 10 * time.Second
	// searchGrace is how far past its byoyomi a well-behaved engine in
	// analysis mode may run before the session is declared hung.
	searchGrace = 30 * time.Second
	// quitTimeout is how long Close waits for a clean exit before killing.
	quitTimeout = 2 * time.Second
)

type state int

const (
	stateIdle state = iota
	stateAwaitingReady
	stateAwaitingSearch
)

// Options is the configuration table sent during startup. TsumeMode disables
// the try rule so every terminal state the engine reports is a true
// checkmate; AnalyseMode keeps it from cutting a search short on a found
// mate.
type Options struct {
	Variant     string
	MultiPV     int
	Contempt    int
	DrawScore   int
	ResignValue int
	AnalyseMode bool
	TsumeMode   bool
}

func DefaultOptions(variant string, multiPV int) Options {
	return Options{
		Variant:     variant,
		MultiPV:     multiPV,
		Contempt:    0,
		DrawScore:   1000,
		ResignValue: -32767,
		AnalyseMode: true,
		TsumeMode:   true,
	}
}

func (o Options) commands() [][2]string {
	return [][2]string{
		{"UCI_Variant", o.Variant},
		{"MultiPV", strconv.Itoa(o.MultiPV)},
		{"Contempt", strconv.Itoa(o.Contempt)},
		{"DrawScore", strconv.Itoa(o.DrawScore)},
		{"ResignValue", strconv.Itoa(o.ResignValue)},
		{"UCI_AnalyseMode", strconv.FormatBool(o.AnalyseMode)},
		{"TsumeMode", strconv.FormatBool(o.TsumeMode)},
	}
}

// Engine is one live session. It exclusively owns the subprocess handle and
// both pipe ends for its whole lifetime; Close releases them on every path.
type Engine struct {
	id  guuid.UUID
	log zerolog.Logger

	cmd     *exec.Cmd
	in      *bufio.Writer
	closeIn io.Closer
	lines   chan string

	state   state
	multiPV int
	grace   time.Duration
	broken  bool
	closed  bool
}

// NewEngine spawns the engine binary, completes the USI handshake and applies
// the option table. On any startup failure the subprocess is torn down before
// the error is returned.
func NewEngine(path string, args []string, opts Options, logger zerolog.Logger) (*Engine, error) {
	cmd := exec.Command(path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin: %v", ErrEngineStartup, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout: %v", ErrEngineStartup, err)
	}

	id := guuid.New()
	e := &Engine{
		id:      id,
		log:     logger.With().Str("session", id.String()).Logger(),
		cmd:     cmd,
		in:      bufio.NewWriter(stdin),
		closeIn: stdin,
		lines:   make(chan string, 64),
		multiPV: opts.MultiPV,
		grace:   searchGrace,
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: spawn %q: %v", ErrEngineStartup, path, err)
	}
	go e.read(stdout)

	if err := e.handshake(opts); err != nil {
		_ = e.Close()
		return nil, err
	}

	e.log.Debug().Str("engine", path).Msg("session ready")
	return e, nil
}

func (e *Engine) ID() guuid.UUID {
	return e.id
}

func (e *Engine) read(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		e.lines <- scanner.Text()
	}
	close(e.lines)
}

func (e *Engine) send(line string) error {
	if _, err := fmt.Fprintln(e.in, line); err != nil {
		return err
	}
	return e.in.Flush()
}

func (e *Engine) readLine(deadline time.Time) (string, error) {
	select {
	case line, ok := <-e.lines:
		if !ok {
			return "", ErrSessionClosed
		}
		return line, nil
	case <-time.After(time.Until(deadline)):
		return "", ErrSearchTimeout
	}
}

// waitFor discards output until the wanted token arrives.
func (e *Engine) waitFor(token string, deadline time.Time) error {
	for {
		line, err := e.readLine(deadline)
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == token {
			return nil
		}
	}
}

func (e *Engine) handshake(opts Options) error {
	// Fairy-Stockfish defaults to UCI; the protocol switch has to land
	// before the handshake command.
	if err := e.send("setoption name Protocol value usi"); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineStartup, err)
	}
	if err := e.send("usi"); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineStartup, err)
	}
	if err := e.waitFor("usiok", time.Now().Add(readyTimeout)); err != nil {
		return fmt.Errorf("%w: waiting for usiok: %v", ErrEngineStartup, err)
	}

	for _, opt := range opts.commands() {
		if err := e.send(fmt.Sprintf("setoption name %s value %s", opt[0], opt[1])); err != nil {
			return fmt.Errorf("%w: %v", ErrEngineStartup, err)
		}
	}

	e.state = stateAwaitingReady
	if err := e.send("isready"); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineStartup, err)
	}
	if err := e.waitFor("readyok", time.Now().Add(readyTimeout)); err != nil {
		return fmt.Errorf("%w: waiting for readyok: %v", ErrEngineStartup, err)
	}
	e.state = stateIdle

	if err := e.send("usinewgame"); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineStartup, err)
	}
	return nil
}

func (e *Engine) checkIdle() error {
	if e.closed || e.broken {
		return ErrSessionClosed
	}
	if e.state != stateIdle {
		return ErrSessionBusy
	}
	return nil
}

// SetPosition loads a position into the engine, as the start sfen plus the
// move history replayed from it. Side effect only; the engine does not reply.
func (e *Engine) SetPosition(sfen string, moves []string) error {
	if err := e.checkIdle(); err != nil {
		return err
	}
	cmd := "position sfen " + sfen
	if len(moves) > 0 {
		cmd += " moves " + strings.Join(moves, " ")
	}
	if err := e.send(cmd); err != nil {
		e.broken = true
		return fmt.Errorf("%w: %v", ErrSessionClosed, err)
	}
	return nil
}

// Search runs one bounded-time search and blocks for the terminal bestmove
// line. The ranked candidate set is truncated to multiPV entries. A timeout
// or parse failure poisons the session; no further calls are accepted.
func (e *Engine) Search(budget time.Duration, multiPV int) (*Result, error) {
	if err := e.checkIdle(); err != nil {
		return nil, err
	}
	if multiPV != e.multiPV {
		if err := e.send(fmt.Sprintf("setoption name MultiPV value %d", multiPV)); err != nil {
			e.broken = true
			return nil, fmt.Errorf("%w: %v", ErrSessionClosed, err)
		}
		e.multiPV = multiPV
	}

	if err := e.send(fmt.Sprintf("go byoyomi %d", budget.Milliseconds())); err != nil {
		e.broken = true
		return nil, fmt.Errorf("%w: %v", ErrSessionClosed, err)
	}

	e.state = stateAwaitingSearch
	defer func() { e.state = stateIdle }()

	deadline := time.Now().Add(budget + e.grace)
	res := &Result{}
	for {
		line, err := e.readLine(deadline)
		if err != nil {
			e.broken = true
			if errors.Is(err, ErrSearchTimeout) {
				e.log.Warn().Dur("budget", budget).Msg("engine exceeded search budget")
			}
			return nil, err
		}

		switch {
		case strings.HasPrefix(line, "info "):
			res.PVs, err = parseInfo(res.PVs, line)
			if err != nil {
				e.broken = true
				return nil, err
			}
		case strings.HasPrefix(line, "bestmove"):
			res.Terminal, res.BestMove, err = parseBestMove(line)
			if err != nil {
				e.broken = true
				return nil, err
			}
			sort.Slice(res.PVs, func(i, j int) bool { return res.PVs[i].Rank < res.PVs[j].Rank })
			if len(res.PVs) > multiPV {
				res.PVs = res.PVs[:multiPV]
			}
			return res, nil
		}
	}
}

// Close terminates and reaps the subprocess. Safe to call more than once and
// on partially started sessions.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	_ = e.send("quit")
	_ = e.closeIn.Close()

	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(quitTimeout):
		_ = e.cmd.Process.Kill()
		return <-done
	}
}
