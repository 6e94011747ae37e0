// Command topscores writes the N highest-scoring rows of an influence file.
//
//	topscores [-o out] [-config path] N
//	topscores [-o out] [-config path] FILE N
//
// The first form reads data.default_input from the config. Output defaults
// to <data.dir>/top_N_results.csv; a .xlsx output name writes a workbook.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/agenthands/influence/internal/config"
	"github.com/agenthands/influence/internal/core"
	"github.com/agenthands/influence/internal/core/topk"
	"github.com/agenthands/influence/internal/logging"
	"github.com/agenthands/influence/internal/recordio"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var (
	infoColor  = color.New(color.FgCyan)
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type invocation struct {
	input      string
	output     string
	configPath string
	n          int
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	inv, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(inv.configPath)
	if err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	log := logging.New()
	defer func() { _ = log.Sync() }()
	logging.SetLevel(cfg.Log.Level)

	if inv.input == "" {
		inv.input = cfg.Data.DefaultInput
		infoColor.Fprintf(stdout, "Using default input file: %s\n", inv.input)
	}
	if inv.output == "" {
		inv.output = filepath.Join(cfg.Data.Dir, fmt.Sprintf("top_%d_results.csv", inv.n))
	}

	fmt.Fprintf(stdout, "Finding top %d scores from %s...\n", inv.n, inv.input)
	fmt.Fprintf(stdout, "Output will be written to: %s\n", inv.output)

	res, err := selectTop(ctx, core.NewEngine(nil, log, cfg.Graph), inv.input, inv.n)
	if err != nil {
		errorColor.Fprintf(stderr, "Error reading file: %v\n", err)
		return exitError
	}
	if res.Skipped > 0 {
		warnColor.Fprintf(stdout, "Skipped %d malformed row(s).\n", res.Skipped)
	}
	if len(res.Records) == 0 {
		fmt.Fprintln(stdout, "No valid scores found in the file.")
		return exitOK
	}

	fmt.Fprintf(stdout, "Found %d top scoring rows.\n", len(res.Records))
	if err := os.MkdirAll(filepath.Dir(inv.output), 0o755); err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if err := recordio.WriteEdges(inv.output, res.Header, res.Records); err != nil {
		errorColor.Fprintf(stderr, "Error writing results: %v\n", err)
		return exitError
	}

	okColor.Fprintf(stdout, "Processing complete! Output saved to: %s\n", inv.output)
	return exitOK
}

func selectTop(ctx context.Context, engine *core.Engine, path string, n int) (res *topk.Result, err error) {
	src, err := recordio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, src.Close())
	}()
	return engine.SelectTop(ctx, src, n)
}

// parseArgs accepts flags before or after the positional arguments.
func parseArgs(args []string, stderr io.Writer) (invocation, error) {
	var inv invocation
	fs := flag.NewFlagSet("topscores", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&inv.output, "o", "", "output file (default <data.dir>/top_N_results.csv)")
	fs.StringVar(&inv.configPath, "config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: topscores [-o out] [-config path] [FILE] N")
		fs.PrintDefaults()
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return inv, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	switch len(positional) {
	case 1:
		n, err := strconv.Atoi(positional[0])
		if err != nil {
			return inv, errors.New("when providing a filename, you must also provide N (number of top scores)")
		}
		inv.n = n
	case 2:
		if _, err := strconv.Atoi(positional[0]); err == nil {
			return inv, errors.New("when providing N as first argument, don't provide it again as second argument")
		}
		n, err := strconv.Atoi(positional[1])
		if err != nil {
			return inv, fmt.Errorf("N must be an integer, got %q", positional[1])
		}
		inv.input, inv.n = positional[0], n
	default:
		fs.Usage()
		return inv, fmt.Errorf("expected [FILE] N, got %d argument(s)", len(positional))
	}

	if inv.n <= 0 {
		return inv, errors.New("N must be a positive integer")
	}
	return inv, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
