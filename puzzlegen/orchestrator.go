package puzzlegen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	guuid "github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// WorkerShare is the per-worker slot count: ceiling division so the shares
// cover the requested total.
func WorkerShare(total, workers int) int {
	if workers <= 1 {
		return total
	}
	return (total + workers - 1) / workers
}

// Orchestrator fans generation out across fully independent worker
// processes, each owning its own engine and private output file, then merges
// the results. Workers share nothing but the filesystem, and that only after
// they have all exited.
type Orchestrator struct {
	cfg  Config
	argv []string // worker command prefix; output path and count get appended
	log  zerolog.Logger
}

func NewOrchestrator(cfg Config, argv []string, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:  cfg,
		argv: argv,
		log:  log,
	}
}

// Run launches the workers, waits for all of them and writes the merged,
// sorted, deduplicated result to output. A worker that dies keeps whatever
// it wrote before dying; it is not relaunched.
func (o *Orchestrator) Run(ctx context.Context, output string, total int) error {
	share := WorkerShare(total, o.cfg.Workers)

	tmpDir, err := os.MkdirTemp("", "tsumegen")
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	o.log.Info().
		Int("workers", o.cfg.Workers).
		Int("share", share).
		Int("requested", total).
		Msg("starting workers")

	outputs := make([]string, o.cfg.Workers)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < o.cfg.Workers; i++ {
		workerID := i
		tmp := filepath.Join(tmpDir, guuid.New().String()+".sfen")
		outputs[i] = tmp

		g.Go(func() error {
			args := append(append([]string(nil), o.argv[1:]...), tmp, strconv.Itoa(share))
			cmd := exec.CommandContext(ctx, o.argv[0], args...)
			cmd.Stderr = os.Stderr
			if err := cmd.Run(); err != nil {
				o.log.Warn().Err(err).Int("worker", workerID).Msg("worker exited early")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	count, err := MergeFiles(outputs, output)
	if err != nil {
		return err
	}
	o.log.Info().Int("puzzles", count).Str("output", output).Msg("merge complete")
	return nil
}

// MergeFiles concatenates the worker outputs into dst, sorted with exact
// duplicate lines removed. Inputs that were never written are skipped.
func MergeFiles(paths []string, dst string) (int, error) {
	var lines []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, fmt.Errorf("read %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}

	sort.Strings(lines)
	var sb strings.Builder
	count := 0
	for i, line := range lines {
		if i > 0 && line == lines[i-1] {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		count++
	}

	if err := os.WriteFile(dst, []byte(sb.String()), 0644); err != nil {
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	return count, nil
}
