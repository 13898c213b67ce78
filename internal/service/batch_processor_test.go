package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billgen/internal/bill"
	"billgen/internal/domain"
	"billgen/internal/service"
)

func TestFindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.XLS", "notes.txt", "~$a.xlsx", "nested/c.xlsm"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	files, err := service.FindWorkbooks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.XLS"),
		filepath.Join(dir, "b.xlsx"),
		filepath.Join(dir, "nested", "c.xlsm"),
	}, files)
}

func TestBatchProcessor_Run(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(in, "Road Repair.xlsx"), testWorkbook(t), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.xlsx"), []byte("not a workbook"), 0o644))

	p := service.NewBatchProcessor(testEngine(t))
	results, err := p.Run(context.Background(), service.BatchOptions{
		InputDir:       in,
		OutputDir:      out,
		PremiumPercent: 5,
		PremiumType:    bill.PremiumAbove,
		Concurrency:    2,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Sorted by input path: "Road Repair.xlsx" sorts before "broken.xlsx".
	ok, broken := results[0], results[1]
	require.True(t, ok.OK(), "%v", ok.Err)
	assert.Equal(t, testPayable, ok.Payable)
	assert.True(t, strings.HasSuffix(ok.OutputDir, "_road_repair"))
	for _, info := range []string{
		domain.DocumentKinds[domain.DocumentCombinedPDF].FileName,
		domain.DocumentKinds[domain.DocumentDeviation].FileName,
		domain.DocumentKinds[domain.DocumentWorkbook].FileName,
		domain.DocumentKinds[domain.DocumentCSV].FileName,
	} {
		assert.FileExists(t, filepath.Join(ok.OutputDir, info))
	}

	assert.False(t, broken.OK())
	assert.ErrorIs(t, broken.Err, domain.ErrInvalidWorkbook)
}

func TestBatchProcessor_Run_EmptyDir(t *testing.T) {
	p := service.NewBatchProcessor(testEngine(t))
	results, err := p.Run(context.Background(), service.BatchOptions{InputDir: t.TempDir(), OutputDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatchProcessor_Run_MissingDir(t *testing.T) {
	p := service.NewBatchProcessor(testEngine(t))
	_, err := p.Run(context.Background(), service.BatchOptions{InputDir: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestBatchProcessor_Run_SameNameInSubdirectories(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(in, sub), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(in, sub, "bill.xlsx"), testWorkbook(t), 0o644))
	}

	p := service.NewBatchProcessor(testEngine(t))
	results, err := p.Run(context.Background(), service.BatchOptions{
		InputDir:       in,
		OutputDir:      out,
		PremiumPercent: 5,
		PremiumType:    bill.PremiumAbove,
		Concurrency:    2,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.True(t, results[0].OK(), "%v", results[0].Err)
	require.True(t, results[1].OK(), "%v", results[1].Err)

	assert.NotEqual(t, results[0].OutputDir, results[1].OutputDir)
	assert.True(t, strings.HasSuffix(results[0].OutputDir, "_a_bill"))
	assert.True(t, strings.HasSuffix(results[1].OutputDir, "_b_bill"))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
