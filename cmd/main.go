package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/garlicgarrison/tsume-puzzle-gen/puzzlegen"
	"github.com/garlicgarrison/tsume-puzzle-gen/usi"
)

const (
	defaultOutput = "results.sfen"
	defaultCount  = 1000
)

var cfgPath string

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:           "tsumegen",
		Short:         "wildcat shogi mate puzzle generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to generator yaml config")

	generate := &cobra.Command{
		Use:   "generate [output] [count]",
		Short: "run one worker with its own engine process",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args, log)
		},
	}

	parallel := &cobra.Command{
		Use:   "parallel [output] [count]",
		Short: "fan out worker processes and merge their outputs",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParallel(cmd, args, log)
		},
	}

	root.AddCommand(generate, parallel)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func outputArgs(args []string) (string, int, error) {
	output := defaultOutput
	count := defaultCount
	if len(args) > 0 {
		output = args[0]
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return "", 0, fmt.Errorf("bad count %q", args[1])
		}
		count = n
	}
	return output, count, nil
}

func runGenerate(args []string, log zerolog.Logger) error {
	output, count, err := outputArgs(args)
	if err != nil {
		return err
	}
	cfg, err := puzzlegen.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	eng, err := usi.NewEngine(
		cfg.EnginePath,
		[]string{"load", cfg.VariantsPath},
		usi.DefaultOptions(cfg.Variant, cfg.MultiPV),
		log,
	)
	if err != nil {
		return err
	}
	defer eng.Close()

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	// On an engine failure the partial output is already on disk; the
	// error only sets the exit code.
	n, err := puzzlegen.NewWorker(cfg, eng, log).Run(f, count)
	log.Info().Int("puzzles", n).Str("output", output).Msg("worker done")
	return err
}

func runParallel(cmd *cobra.Command, args []string, log zerolog.Logger) error {
	output, count, err := outputArgs(args)
	if err != nil {
		return err
	}
	cfg, err := puzzlegen.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	self, err := os.Executable()
	if err != nil {
		return err
	}
	argv := []string{self, "generate"}
	if cfgPath != "" {
		argv = append(argv, "--config", cfgPath)
	}

	return puzzlegen.NewOrchestrator(cfg, argv, log).Run(cmd.Context(), output, count)
}
