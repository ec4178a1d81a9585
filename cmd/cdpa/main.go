// Command cdpa runs the Chain-DPA side-channel attack against
// simulated masked Hamming-distance leakage traces and reports how
// often it recovers the secret pair (X, Y).
//
// Usage:
//
//	cdpa [flags]
//
// Examples:
//
//	# One noiseless 32-bit, 2-share experiment
//	cdpa -b 32 -s 2 -t 100000
//
//	# A regression scenario with a fixed seed
//	cdpa -b 16 -s 3 -t 4096 -r 12345 -e 100
//
//	# A single experiment with the full diagnostic table
//	cdpa -b 8 -s 2 -t 20000 -v
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"chaindpa/internal/config"
	"chaindpa/internal/diagview"
	"chaindpa/internal/harness"
	"chaindpa/internal/history"
	"chaindpa/internal/logging"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	bitCount := flag.Int("b", 32, "bit width of the secrets and data words (alias --bit-count)")
	flag.IntVar(bitCount, "bit-count", 32, "bit width of the secrets and data words")
	shareCount := flag.Int("s", 1, "number of Boolean shares the traces were masked with (alias --share-count)")
	flag.IntVar(shareCount, "share-count", 1, "number of Boolean shares the traces were masked with")
	traceCount := flag.Int("t", 100000, "number of traces per experiment (alias --trace-count)")
	flag.IntVar(traceCount, "trace-count", 100000, "number of traces per experiment")
	noise := flag.Float64("n", 0, "standard deviation of Gaussian trace noise (alias --noise)")
	flag.Float64Var(noise, "noise", 0, "standard deviation of Gaussian trace noise")
	experimentCount := flag.Int("e", 1, "number of independent experiments to run (alias --experiment-count)")
	flag.IntVar(experimentCount, "experiment-count", 1, "number of independent experiments to run")
	seedStr := flag.String("r", "", "32-bit PRNG seed; absent draws from blended hardware/OS entropy (alias --random-seed)")
	flag.StringVar(seedStr, "random-seed", "", "32-bit PRNG seed; absent draws from blended hardware/OS entropy")
	verbose := flag.Bool("v", false, "print the per-step moment/leap diagnostic table (alias --verbose)")
	flag.BoolVar(verbose, "verbose", false, "print the per-step moment/leap diagnostic table")
	listTraces := flag.Bool("l", false, "also list the raw traces and window split at every step (alias --list-of-traces)")
	flag.BoolVar(listTraces, "list-of-traces", false, "also list the raw traces and window split at every step")
	format := flag.String("format", "text", "diagnostic output format: text, yaml")
	historyPath := flag.String("history", "", "record this run in a SQLite run-history database at this path")
	preset := flag.String("preset", "", "path to a TOML file of attack parameters, overriding the flag defaults")
	scenario := flag.String("scenario", "", "named scenario table within -preset (default: top-level fields)")
	logFormat := flag.String("log-format", "text", "diagnostic log encoding: text, json")
	versionFlag := flag.Bool("version", false, "print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cdpa - run the Chain-DPA side-channel attack on simulated leakage traces\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *versionFlag {
		fmt.Printf("cdpa %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	logCfg := logging.DefaultConfig()
	if *verbose {
		logCfg.Level = logging.LevelDebug
	}
	if *logFormat == "json" {
		logCfg.Format = logging.FormatJSON
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	params := config.Default()
	if *preset != "" {
		p, err := config.LoadPreset(*preset, *scenario)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		params = p
		logger.Debug("loaded preset", "path", *preset, "scenario", *scenario)
	} else {
		params.BitCount = *bitCount
		params.ShareCount = *shareCount
		params.TraceCount = *traceCount
		params.Noise = *noise
		params.ExperimentCount = *experimentCount
	}
	params.Verbose = *verbose
	params.ListTraces = *listTraces

	if *seedStr != "" {
		v, err := strconv.ParseInt(*seedStr, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -random-seed %q: %v\n", *seedStr, err)
			os.Exit(2)
		}
		params.Seed = &v
	}

	if err := config.Validate(params); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	var seedPtr *uint32
	if params.Seed != nil {
		s := uint32(*params.Seed)
		seedPtr = &s
	}

	wantDiag := params.Verbose || params.ListTraces

	logger.Info("starting attack",
		"bit_count", params.BitCount, "share_count", params.ShareCount,
		"trace_count", params.TraceCount, "noise", params.Noise,
		"experiment_count", params.ExperimentCount)

	summary, err := harness.Run(params.TraceCount, params.BitCount, params.ShareCount, params.ExperimentCount, seedPtr, params.Noise, wantDiag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if wantDiag && summary.Last != nil {
		switch *format {
		case "yaml":
			if err := diagview.WriteYAML(os.Stdout, summary.Last); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		default:
			diagview.PrintTable(os.Stdout, summary.Last, params.BitCount, params.ListTraces)
		}
		fmt.Println()
	}

	logger.Info("attack finished",
		"result_rate", summary.ResultRate, "lsb_rate", summary.LSBRate, "bit_rate", summary.BitRate)
	fmt.Printf("%.2f%% correct answers\n", summary.ResultRate)
	fmt.Printf("%.2f%% correct least significant bits\n", summary.LSBRate)
	fmt.Printf("%.2f%% correct bits\n", summary.BitRate)

	if *historyPath != "" {
		store, err := history.Open(*historyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		if _, err := store.Record(history.Run{
			StartedAt:       time.Now(),
			BitCount:        params.BitCount,
			ShareCount:      params.ShareCount,
			TraceCount:      params.TraceCount,
			Noise:           params.Noise,
			ExperimentCount: params.ExperimentCount,
			Seed:            params.Seed,
			ResultRate:      summary.ResultRate,
			LSBRate:         summary.LSBRate,
			BitRate:         summary.BitRate,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Debug("recorded run in history", "path", *historyPath)
	}

	if summary.ResultRate < 100 && params.ExperimentCount == 1 {
		os.Exit(1)
	}
}
