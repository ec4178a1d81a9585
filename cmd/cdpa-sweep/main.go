// Command cdpa-sweep drives the trace-count exponent sweep that
// reproduces cdpa_stats.py's res.csv/lsb.csv/bit.csv scan: for every
// (bit_count, share_count, noise) point it grows the trace count until
// the attack's result rate clears 99%, skipping exponents the sliding
// lower bound has already ruled out as too weak.
//
// Usage:
//
//	cdpa-sweep [-manifest points.json] [-out-dir .] [-watch]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"chaindpa/internal/logging"
	"chaindpa/internal/manifest"
	"chaindpa/internal/sweep"
	"chaindpa/internal/watcher"
)

var logger = logging.Default()

func main() {
	manifestPath := flag.String("manifest", "", "JSON manifest of bit_counts/share_counts/noises (default: built-in grid)")
	outDir := flag.String("out-dir", ".", "directory to write res.csv, lsb.csv and bit.csv into")
	watch := flag.Bool("watch", false, "re-run the sweep whenever -manifest changes")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cdpa-sweep - scan trace counts until the attack reliably succeeds\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *watch && *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -watch requires -manifest")
		os.Exit(2)
	}

	if err := runSweep(*manifestPath, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}

	w, err := watcher.NewManifestWatcher(*manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	logger.Info("watching manifest for changes", "path", *manifestPath)
	for {
		select {
		case <-w.Changed():
			logger.Info("manifest changed, re-running sweep")
			if err := runSweep(*manifestPath, *outDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err := <-w.Errors():
			logger.Warn("watch error", "error", err)
		}
	}
}

func loadPoints(manifestPath string) ([]sweep.Point, error) {
	if manifestPath == "" {
		return sweep.DefaultPoints(), nil
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	return m.Points(), nil
}

func runSweep(manifestPath, outDir string) error {
	points, err := loadPoints(manifestPath)
	if err != nil {
		return err
	}

	files := map[string]*os.File{}
	header := ",,,"
	for exp := sweep.MinTraceExp; exp <= sweep.MaxTraceExp; exp++ {
		header += fmt.Sprintf("%d,", 1<<uint(exp))
	}
	for _, name := range []string{"res", "lsb", "bit"} {
		f, err := os.Create(filepath.Join(outDir, name+".csv"))
		if err != nil {
			for _, open := range files {
				open.Close()
			}
			return fmt.Errorf("create %s.csv: %w", name, err)
		}
		fmt.Fprint(f, header)
		files[name] = f
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	onProgress := func(p sweep.Point, traceExp, experimentCount int, resultRate, lsbRate, bitRate float64) {
		logger.Debug("sweep point computed",
			"bit_count", p.BitCount, "share_count", p.ShareCount, "noise", p.Noise,
			"trace_exp", traceExp, "experiment_count", experimentCount,
			"result_rate", resultRate, "lsb_rate", lsbRate, "bit_rate", bitRate)
	}

	rows, err := sweep.Run(points, onProgress)
	if err != nil {
		return err
	}

	for _, row := range rows {
		lineHeader := fmt.Sprintf("\n%d,%d,%3.0f,", row.Point.BitCount, row.Point.ShareCount, row.Point.Noise)
		for _, f := range files {
			fmt.Fprint(f, lineHeader)
		}
		for _, cell := range row.Cells {
			if !cell.Computed {
				for _, f := range files {
					fmt.Fprint(f, ",")
				}
				continue
			}
			fmt.Fprintf(files["res"], "%v,", cell.ResultRate)
			fmt.Fprintf(files["lsb"], "%v,", cell.LSBRate)
			fmt.Fprintf(files["bit"], "%v,", cell.BitRate)
		}
	}

	for _, f := range files {
		if err := f.Sync(); err != nil {
			return err
		}
	}
	return nil
}
