package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"billgen/internal/bill"
	"billgen/internal/csvexport"
	"billgen/internal/domain"
	"billgen/internal/port"
	"billgen/internal/render"
	"billgen/internal/workbook"
)

// GenerateInput is the DTO for computing a bill from an uploaded workbook.
type GenerateInput struct {
	FileName           string
	Data               []byte
	PremiumPercent     float64
	PremiumType        string
	PreviousBillAmount float64
	CreatedBy          string
	// NotifyEmail, when set, receives a download link once the bundle is stored.
	NotifyEmail string
	NotifyName  string
}

// Validate checks the request parameters before any workbook parsing.
func (in GenerateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FileName, validation.Required),
		validation.Field(&in.Data, validation.Required),
		validation.Field(&in.PremiumPercent, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&in.PremiumType, validation.Required, validation.In(string(bill.PremiumAbove), string(bill.PremiumBelow))),
		validation.Field(&in.PreviousBillAmount, validation.Min(0.0)),
	)
}

// BillServiceConfig holds the service limits.
type BillServiceConfig struct {
	MaxUploadBytes int64
	PresignExpiry  time.Duration
}

// BillService defines the bill generation contract.
type BillService interface {
	Preview(ctx context.Context, input GenerateInput) (*bill.Result, error)
	Generate(ctx context.Context, input GenerateInput) (*domain.BillRun, *bill.Result, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRun, error)
	GetResult(ctx context.Context, id uuid.UUID) (*bill.Result, error)
	List(ctx context.Context, offset, limit int) ([]domain.BillRun, int, error)
	Document(ctx context.Context, id uuid.UUID, kind domain.DocumentKind) (*render.Document, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
}

type billService struct {
	runRepo port.BillRunRepository
	storage port.ObjectStorage
	email   port.EmailSender
	engine  *bill.Engine
	cache   *ResultCache
	cfg     BillServiceConfig
}

// NewBillService creates a new BillService implementation.
func NewBillService(
	runRepo port.BillRunRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	engine *bill.Engine,
	cache *ResultCache,
	cfg BillServiceConfig,
) BillService {
	return &billService{
		runRepo: runRepo,
		storage: storage,
		email:   email,
		engine:  engine,
		cache:   cache,
		cfg:     cfg,
	}
}

func (s *billService) prepare(input *GenerateInput) error {
	input.PremiumType = strings.ToLower(strings.TrimSpace(input.PremiumType))
	if err := input.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidBillInput, err)
	}
	if s.cfg.MaxUploadBytes > 0 && int64(len(input.Data)) > s.cfg.MaxUploadBytes {
		return fmt.Errorf("%w: %s is larger than %s", domain.ErrFileTooLarge,
			humanize.Bytes(uint64(len(input.Data))), humanize.Bytes(uint64(s.cfg.MaxUploadBytes)))
	}
	return nil
}

// compute loads the workbook and runs the engine, memoized on content and
// premium inputs.
func (s *billService) compute(input GenerateInput) (*bill.Result, error) {
	premiumType := bill.PremiumType(input.PremiumType)
	key := ResultKey(input.Data, input.PremiumPercent, premiumType, input.PreviousBillAmount)

	res, hit, err := s.cache.GetOrCompute(key, func() (*bill.Result, error) {
		wb, err := workbook.LoadBytes(input.Data, input.FileName)
		if err != nil {
			return nil, err
		}
		return s.engine.Process(wb.Input(input.PremiumPercent, premiumType, input.PreviousBillAmount))
	})
	if err != nil {
		return nil, err
	}
	if hit {
		log.Printf("billService.compute: cache hit for %s", input.FileName)
	}
	return res, nil
}

func (s *billService) Preview(_ context.Context, input GenerateInput) (*bill.Result, error) {
	if err := s.prepare(&input); err != nil {
		return nil, err
	}
	return s.compute(input)
}

func (s *billService) Generate(ctx context.Context, input GenerateInput) (*domain.BillRun, *bill.Result, error) {
	if err := s.prepare(&input); err != nil {
		return nil, nil, err
	}

	run := &domain.BillRun{
		ID:                 uuid.New(),
		FileName:           input.FileName,
		PremiumPercent:     input.PremiumPercent,
		PremiumType:        bill.PremiumType(input.PremiumType),
		PreviousBillAmount: input.PreviousBillAmount,
		Status:             domain.BillRunStatusProcessing,
		CreatedBy:          input.CreatedBy,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, nil, fmt.Errorf("creating bill run: %w", err)
	}
	log.Printf("billService.Generate: run %s started for %s (%s bytes, premium %.2f%% %s, previous %.2f)",
		run.ID, run.FileName, humanize.Comma(int64(len(input.Data))), input.PremiumPercent, input.PremiumType, input.PreviousBillAmount)

	res, err := s.compute(input)
	if err != nil {
		s.fail(ctx, run, err)
		return nil, nil, err
	}

	resultJSON, err := json.Marshal(res)
	if err != nil {
		s.fail(ctx, run, err)
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}

	docs, err := render.All(res, render.Meta{Title: run.FileName, GeneratedAt: run.CreatedAt})
	if err != nil {
		s.fail(ctx, run, err)
		return nil, nil, fmt.Errorf("rendering documents: %w", err)
	}
	bundle, err := render.Bundle(docs)
	if err != nil {
		s.fail(ctx, run, err)
		return nil, nil, fmt.Errorf("bundling documents: %w", err)
	}

	bundleInfo := domain.DocumentKinds[domain.DocumentBundle]
	key := fmt.Sprintf("bill-runs/%s/%s", run.ID, bundleInfo.FileName)
	if _, err := s.storage.Put(ctx, port.PutObjectInput{
		Key:         key,
		Body:        bytes.NewReader(bundle),
		ContentType: bundleInfo.ContentType,
	}); err != nil {
		log.Printf("billService.Generate: storing bundle for run %s failed: %v", run.ID, err)
		s.fail(ctx, run, err)
		return nil, nil, domain.ErrUploadFailed
	}

	run.GrandTotal = res.FirstPage.Totals.GrandTotal
	run.Payable = res.FirstPage.Totals.Payable
	run.NetPayable = res.FirstPage.Totals.NetPayable
	run.Result = resultJSON
	run.BundleKey = key
	run.Status = domain.BillRunStatusCompleted
	if err := s.runRepo.Complete(ctx, run); err != nil {
		log.Printf("billService.Generate: completing run %s failed: %v", run.ID, err)
		s.fail(ctx, run, err)
		if derr := s.storage.Delete(ctx, key); derr != nil {
			log.Printf("billService.Generate: removing bundle %s failed: %v", key, derr)
		}
		return nil, nil, fmt.Errorf("completing bill run: %w", err)
	}
	log.Printf("billService.Generate: run %s completed (payable %d, bundle %s)",
		run.ID, run.Payable, humanize.Bytes(uint64(len(bundle))))

	if input.NotifyEmail != "" {
		s.notify(ctx, run, input.NotifyEmail, input.NotifyName)
	}
	return run, res, nil
}

func (s *billService) fail(ctx context.Context, run *domain.BillRun, cause error) {
	run.Status = domain.BillRunStatusFailed
	run.ErrorMessage = cause.Error()
	if err := s.runRepo.MarkFailed(ctx, run.ID, cause.Error()); err != nil {
		log.Printf("billService.fail: marking run %s failed: %v", run.ID, err)
	}
}

// notify emails a download link; delivery failures do not fail the run.
func (s *billService) notify(ctx context.Context, run *domain.BillRun, toEmail, toName string) {
	url, err := s.presign(ctx, run)
	if err != nil {
		log.Printf("billService.notify: presigning bundle for run %s: %v", run.ID, err)
		return
	}
	if toName == "" {
		toName = toEmail
	}
	if err := s.email.SendBillReadyEmail(ctx, toEmail, toName, run.FileName, url); err != nil {
		log.Printf("billService.notify: sending email for run %s: %v", run.ID, err)
	}
}

func (s *billService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRun, error) {
	return s.runRepo.GetByID(ctx, id)
}

func (s *billService) completedRun(ctx context.Context, id uuid.UUID) (*domain.BillRun, error) {
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != domain.BillRunStatusCompleted {
		return nil, domain.ErrBillRunNotCompleted
	}
	return run, nil
}

func (s *billService) GetResult(ctx context.Context, id uuid.UUID) (*bill.Result, error) {
	run, err := s.completedRun(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeResult(run)
}

func decodeResult(run *domain.BillRun) (*bill.Result, error) {
	var res bill.Result
	if err := json.Unmarshal(run.Result, &res); err != nil {
		return nil, fmt.Errorf("decoding result of run %s: %w", run.ID, err)
	}
	return &res, nil
}

func (s *billService) List(ctx context.Context, offset, limit int) ([]domain.BillRun, int, error) {
	return s.runRepo.List(ctx, offset, limit)
}

// Document serves the stored bundle for the zip kind and re-renders every
// other kind from the stored result.
func (s *billService) Document(ctx context.Context, id uuid.UUID, kind domain.DocumentKind) (*render.Document, error) {
	info, ok := domain.DocumentKinds[kind]
	if !ok {
		return nil, domain.ErrInvalidDocumentKind
	}
	run, err := s.completedRun(ctx, id)
	if err != nil {
		return nil, err
	}

	if kind == domain.DocumentBundle && run.BundleKey != "" {
		data, err := s.storage.Get(ctx, run.BundleKey)
		if err == nil {
			return &render.Document{Kind: kind, FileName: downloadName(run, info.FileName), ContentType: info.ContentType, Data: data}, nil
		}
		log.Printf("billService.Document: fetching bundle of run %s failed, re-rendering: %v", run.ID, err)
	}

	res, err := decodeResult(run)
	if err != nil {
		return nil, err
	}
	doc, err := render.Render(res, render.Meta{Title: run.FileName, GeneratedAt: run.CreatedAt}, kind)
	if err != nil {
		return nil, err
	}
	doc.FileName = downloadName(run, doc.FileName)
	return doc, nil
}

// downloadName prefixes a document file name with the workbook name and date.
func downloadName(run *domain.BillRun, name string) string {
	return csvexport.BuildFilename(run.FileName, name)
}

func (s *billService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	run, err := s.completedRun(ctx, id)
	if err != nil {
		return "", err
	}
	return s.presign(ctx, run)
}

func (s *billService) presign(ctx context.Context, run *domain.BillRun) (string, error) {
	if run.BundleKey == "" {
		return "", domain.ErrNotFound
	}
	name := downloadName(run, domain.DocumentKinds[domain.DocumentBundle].FileName)
	url, err := s.storage.PresignGet(ctx, run.BundleKey, name, s.cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning bundle: %w", err)
	}
	return url, nil
}
