package service

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"billgen/internal/bill"
	"billgen/internal/csvexport"
	"billgen/internal/domain"
	"billgen/internal/render"
	"billgen/internal/workbook"
)

// BatchOptions controls one batch run over a directory of workbooks.
type BatchOptions struct {
	InputDir           string
	OutputDir          string
	PremiumPercent     float64
	PremiumType        bill.PremiumType
	PreviousBillAmount float64
	Concurrency        int
}

// BatchFileResult is the outcome for one workbook.
type BatchFileResult struct {
	Input     string
	OutputDir string
	Files     []string
	Payable   int64
	Err       error
}

// OK reports whether the workbook was processed.
func (r BatchFileResult) OK() bool { return r.Err == nil }

// BatchProcessor renders every workbook found in a directory.
type BatchProcessor struct {
	engine *bill.Engine
	now    func() time.Time
}

// NewBatchProcessor creates a BatchProcessor.
func NewBatchProcessor(engine *bill.Engine) *BatchProcessor {
	return &BatchProcessor{engine: engine, now: time.Now}
}

// FindWorkbooks lists the spreadsheet files directly or nested under dir, sorted.
func FindWorkbooks(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "~$") {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := domain.AllowedExtensions[ext]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes every workbook in opts.InputDir. A failing workbook does not
// stop the others; its error is reported in its result.
func (p *BatchProcessor) Run(ctx context.Context, opts BatchOptions) ([]BatchFileResult, error) {
	if opts.PremiumType == "" {
		opts.PremiumType = bill.PremiumAbove
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	files, err := FindWorkbooks(opts.InputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	log.Printf("batchProcessor.Run: %d workbooks in %s, concurrency %d", len(files), opts.InputDir, opts.Concurrency)

	stamp := p.now().Format("20060102_150405")
	names := outputNames(opts.InputDir, files)
	wp := pool.NewWithResults[BatchFileResult]().WithMaxGoroutines(opts.Concurrency)
	for i, file := range files {
		dir := filepath.Join(opts.OutputDir, stamp+"_"+names[i])
		wp.Go(func() BatchFileResult {
			if err := ctx.Err(); err != nil {
				return BatchFileResult{Input: file, Err: err}
			}
			return p.processFile(file, dir, opts)
		})
	}
	results := wp.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Input < results[j].Input })
	return results, nil
}

// outputNames derives one output directory name per workbook from its path
// relative to root. Names are unique within the batch: a clash first gains
// the file extension, then a counter.
func outputNames(root string, files []string) []string {
	names := make([]string, len(files))
	used := make(map[string]bool, len(files))
	for i, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		ext := filepath.Ext(rel)
		base := strings.ToLower(csvexport.SanitizeFilename(strings.TrimSuffix(rel, ext)))
		if base == "" {
			base = "bill"
		}

		name := base
		if used[name] {
			name = base + "_" + strings.ToLower(strings.TrimPrefix(ext, "."))
		}
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func (p *BatchProcessor) processFile(path, dir string, opts BatchOptions) BatchFileResult {
	result := BatchFileResult{Input: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}
	name := filepath.Base(path)
	wb, err := workbook.LoadBytes(data, name)
	if err != nil {
		result.Err = err
		return result
	}
	res, err := p.engine.Process(wb.Input(opts.PremiumPercent, opts.PremiumType, opts.PreviousBillAmount))
	if err != nil {
		result.Err = err
		return result
	}
	docs, err := render.All(res, render.Meta{Title: name, GeneratedAt: p.now()})
	if err != nil {
		result.Err = err
		return result
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Err = err
		return result
	}
	for _, doc := range docs {
		out := filepath.Join(dir, doc.FileName)
		if err := os.WriteFile(out, doc.Data, 0o644); err != nil {
			result.Err = fmt.Errorf("writing %s: %w", doc.FileName, err)
			return result
		}
		result.Files = append(result.Files, out)
	}

	result.OutputDir = dir
	result.Payable = res.FirstPage.Totals.Payable
	return result
}
