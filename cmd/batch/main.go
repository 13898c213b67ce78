package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"billgen/internal/bill"
	"billgen/internal/config"
	"billgen/internal/numwords"
	"billgen/internal/service"
)

type options struct {
	inputDir       string
	outputDir      string
	premiumPercent float64
	premiumType    string
	previousBill   float64
	concurrency    int
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "batch [input-dir]",
		Short: "Generate bill documents for every workbook in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.inputDir = args[0]
			}
			return run(cmd.Context(), cmd, opts)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outputDir, "output", "o", "", "output directory (default from BILLGEN_BATCH_OUTPUT_DIR)")
	f.Float64VarP(&opts.premiumPercent, "premium", "p", 5, "tender premium percent")
	f.StringVarP(&opts.premiumType, "premium-type", "t", string(bill.PremiumAbove), "premium type: above or below")
	f.Float64Var(&opts.previousBill, "previous-bill", 0, "amount paid on the last bill")
	f.IntVarP(&opts.concurrency, "concurrency", "c", 0, "workbooks processed in parallel (default from BILLGEN_BATCH_CONCURRENCY)")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts options) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: reading .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if opts.inputDir == "" {
		opts.inputDir = "."
	}
	if opts.outputDir == "" {
		opts.outputDir = cfg.Batch.OutputDir
	}
	if opts.concurrency <= 0 {
		opts.concurrency = cfg.Batch.Concurrency
	}
	premiumType, err := bill.ParsePremiumType(opts.premiumType)
	if err != nil {
		return err
	}
	if opts.premiumPercent < 0 || opts.premiumPercent > 100 {
		return fmt.Errorf("premium must be between 0 and 100, got %v", opts.premiumPercent)
	}

	engine, err := bill.NewEngine(bill.WithLayout(cfg.Bill.Layout), bill.WithWords(numwords.Indian{}))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	_, _ = bold.Fprintf(out, "Processing %s (premium %.2f%% %s, previous bill %s)\n",
		opts.inputDir, opts.premiumPercent, premiumType, humanize.Commaf(opts.previousBill))

	results, err := service.NewBatchProcessor(engine).Run(ctx, service.BatchOptions{
		InputDir:           opts.inputDir,
		OutputDir:          opts.outputDir,
		PremiumPercent:     opts.premiumPercent,
		PremiumType:        premiumType,
		PreviousBillAmount: opts.previousBill,
		Concurrency:        opts.concurrency,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No workbooks found.")
		return nil
	}

	failed := 0
	for _, r := range results {
		name := filepath.Base(r.Input)
		if r.OK() {
			_, _ = ok.Fprint(out, "SUCCESS ")
			fmt.Fprintf(out, "%s -> %s (%d files, payable %s)\n",
				name, r.OutputDir, len(r.Files), humanize.Comma(r.Payable))
			continue
		}
		failed++
		_, _ = fail.Fprint(out, "FAILED  ")
		fmt.Fprintf(out, "%s: %s\n", name, strings.TrimSpace(r.Err.Error()))
	}

	_, _ = bold.Fprintf(out, "\n%d processed, %d succeeded, %d failed\n",
		len(results), len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d workbooks failed", failed, len(results))
	}
	return nil
}
