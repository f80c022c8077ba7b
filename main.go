package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"stockchange/internal/config"
	"stockchange/internal/csvio"
	"stockchange/internal/dates"
	"stockchange/internal/openfigi"
	"stockchange/internal/process"
	"stockchange/internal/ratelimit"
	"stockchange/internal/resolve"
	"stockchange/internal/stocks"
	"stockchange/internal/yahoo"
)

// options are the parsed command-line arguments.
type options struct {
	filePath  string
	stocksArg string
	startArg  string
	endArg    string
	outputDir string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Cancel in-flight calls and pacing waits on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	start, end, list, err := gatherInput(opts)
	if err != nil {
		return err
	}

	figi := openfigi.NewClient(cfg.OpenFIGIBaseURL, cfg.OpenFIGIAPIKey, cfg.HTTPTimeout)
	prices := yahoo.NewClient(cfg.YahooBaseURL, cfg.HTTPTimeout)
	pacer := ratelimit.New(cfg.MappingDelay, cfg.SearchDelay)

	resolver := resolve.New(figi, prices, resolve.DefaultRules(), pacer, cfg.MappingBatchSize)

	resolutions, err := resolver.ResolveAll(ctx, list, start, end)
	if err != nil {
		return err
	}

	fmt.Println("Fetching stock prices...")

	processor := process.New(prices)

	results := make([]stocks.ResultRecord, 0, len(list))
	var allNotes []string
	for i, req := range list {
		record, notes := processor.Process(ctx, req, resolutions[i], start, end)
		results = append(results, record)
		allNotes = append(allNotes, notes...)
	}

	outputPath := csvio.OutputPath(opts.outputDir)

	csvio.Fprint(os.Stdout, start, end, results, allNotes)
	if err := csvio.WriteResults(outputPath, start, end, results, allNotes); err != nil {
		return err
	}

	fmt.Printf("\nResults saved to: %s\n", outputPath)
	return nil
}

// parseArgs parses and validates the command line. --file and --stocks
// are mutually exclusive; --stocks requires --start and --end.
func parseArgs(args []string) (options, error) {
	flags := pflag.NewFlagSet("stockchange", pflag.ContinueOnError)

	opts := options{}
	flags.StringVar(&opts.filePath, "file", "", "path to CSV input file")
	flags.StringVar(&opts.stocksArg, "stocks", "", "comma-separated stock names")
	flags.StringVar(&opts.startArg, "start", "", "start date (dd-mmm-yy, e.g. 01-Jan-25)")
	flags.StringVar(&opts.endArg, "end", "", "end date (dd-mmm-yy, e.g. 01-Apr-25)")
	flags.StringVar(&opts.outputDir, "output", ".", "output directory path")

	if err := flags.Parse(args); err != nil {
		return options{}, err
	}

	if opts.filePath == "" && opts.stocksArg == "" {
		return options{}, errors.New("missing required arguments: provide --file, or --stocks with --start and --end")
	}
	if opts.filePath != "" && opts.stocksArg != "" {
		return options{}, errors.New("--file and --stocks are mutually exclusive: use one or the other, not both")
	}

	if opts.stocksArg != "" {
		if opts.startArg == "" {
			return options{}, errors.New("when using --stocks, --start date is required")
		}
		if opts.endArg == "" {
			return options{}, errors.New("when using --stocks, --end date is required")
		}
		if !dates.Valid(opts.startArg) {
			return options{}, fmt.Errorf("invalid date format for --start, expected dd-mmm-yy (e.g. 01-Jan-25), got: %s", opts.startArg)
		}
		if !dates.Valid(opts.endArg) {
			return options{}, fmt.Errorf("invalid date format for --end, expected dd-mmm-yy (e.g. 01-Jan-25), got: %s", opts.endArg)
		}
	}

	return opts, nil
}

// gatherInput produces the date range and stock list from either the
// input file or the --stocks argument.
func gatherInput(opts options) (time.Time, time.Time, []stocks.Request, error) {
	if opts.filePath != "" {
		input, err := csvio.ParseFile(opts.filePath)
		if err != nil {
			return time.Time{}, time.Time{}, nil, err
		}
		return input.Start, input.End, input.Stocks, nil
	}

	start, err := dates.Parse(opts.startArg)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	end, err := dates.Parse(opts.endArg)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}

	var list []stocks.Request
	for _, name := range strings.Split(opts.stocksArg, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		list = append(list, stocks.Request{Name: name})
	}

	if len(list) == 0 {
		return time.Time{}, time.Time{}, nil, errors.New("no stock names provided in --stocks")
	}

	return start, end, list, nil
}
