// README: Command-line quote tool; prints a price suggestion or ranked recommendations as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"kiloshare/internal/logger"
	"kiloshare/internal/modules/pricing"
	"kiloshare/internal/modules/transport"
	"kiloshare/internal/types"
)

type options struct {
	mode      string
	from      string
	to        string
	weightKg  float64
	currency  string
	recommend bool
	strict    bool
	refFile   string
	logLevel  string
}

func main() {
	var opts options
	flag.StringVar(&opts.mode, "mode", string(transport.ModeFlight), "transport type (flight, car)")
	flag.StringVar(&opts.from, "from", "", "departure city")
	flag.StringVar(&opts.to, "to", "", "arrival city")
	flag.Float64Var(&opts.weightKg, "weight", 0, "package weight in kg")
	flag.StringVar(&opts.currency, "currency", string(types.CAD), "output currency (CAD, USD, EUR)")
	flag.BoolVar(&opts.recommend, "recommend", false, "rank every eligible transport type")
	flag.BoolVar(&opts.strict, "strict", false, "reject unknown transport types and currencies")
	flag.StringVar(&opts.refFile, "reference", os.Getenv("KILOSHARE_REFERENCE_FILE"), "optional YAML reference overlay")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		var werr *pricing.InvalidWeightError
		if errors.As(err, &werr) {
			fmt.Fprintln(os.Stderr, werr.Error())
			os.Exit(2)
		}
		log.Fatalf("kiloshare-quote: %s\n", err)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if opts.from == "" || opts.to == "" {
		return errors.New("-from and -to are required")
	}
	if math.IsNaN(opts.weightKg) || math.IsInf(opts.weightKg, 0) || opts.weightKg <= 0 {
		return errors.New("-weight must be a positive finite number")
	}

	zl, err := logger.New(opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	ref := pricing.DefaultReference()
	if opts.refFile != "" {
		if ref, err = pricing.LoadReferenceFile(opts.refFile, ref); err != nil {
			return err
		}
	}
	modes, err := transport.NewTable(ref.Modes)
	if err != nil {
		return err
	}
	svc, err := pricing.NewService(modes, ref, pricing.Options{Strict: opts.strict, Logger: zl})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if opts.recommend {
		return enc.Encode(svc.Recommend(ctx, opts.from, opts.to, opts.weightKg))
	}

	suggestion, err := svc.SuggestPrice(ctx, pricing.PriceRequest{
		Mode:     transport.ParseMode(opts.mode),
		From:     opts.from,
		To:       opts.to,
		WeightKg: opts.weightKg,
		Currency: types.ParseCurrency(opts.currency),
	})
	if err != nil {
		return err
	}
	return enc.Encode(suggestion)
}
