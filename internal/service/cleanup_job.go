package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"billgen/internal/config"
	"billgen/internal/port"
)

const cleanupBatchSize = 100

// CleanupJob periodically purges the result cache and removes bill runs,
// with their stored bundles, once they pass the retention window.
type CleanupJob struct {
	runRepo   port.BillRunRepository
	storage   port.ObjectStorage
	cache     *ResultCache
	retention time.Duration
	timeout   time.Duration
	schedule  string

	cron    *cron.Cron
	running int32
	now     func() time.Time
}

// NewCleanupJob creates a CleanupJob from the cleanup settings.
func NewCleanupJob(runRepo port.BillRunRepository, storage port.ObjectStorage, cache *ResultCache, cfg config.CleanupConfig) *CleanupJob {
	return &CleanupJob{
		runRepo:   runRepo,
		storage:   storage,
		cache:     cache,
		retention: cfg.Retention,
		timeout:   10 * time.Minute,
		schedule:  cfg.Schedule,
		now:       time.Now,
	}
}

// Start registers the job on its schedule and starts the scheduler.
func (j *CleanupJob) Start() error {
	logger := cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))
	j.cron = cron.New(cron.WithLogger(logger))

	_, err := j.cron.AddFunc(j.schedule, func() {
		if !atomic.CompareAndSwapInt32(&j.running, 0, 1) {
			log.Println("cleanupJob: previous run still in progress, skipping")
			return
		}
		defer atomic.StoreInt32(&j.running, 0)

		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if _, err := j.RunOnce(ctx); err != nil {
			log.Printf("cleanupJob: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling cleanup %q: %w", j.schedule, err)
	}

	j.cron.Start()
	log.Printf("cleanupJob: scheduled %q, retention %s", j.schedule, j.retention)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (j *CleanupJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}

// RunOnce performs one cleanup pass and returns the number of runs deleted.
func (j *CleanupJob) RunOnce(ctx context.Context) (int, error) {
	if purged := j.cache.Purge(); purged > 0 {
		log.Printf("cleanupJob.RunOnce: purged %d expired cached results", purged)
	}
	if j.retention <= 0 {
		return 0, nil
	}

	cutoff := j.now().Add(-j.retention)
	deleted := 0
	for {
		runs, err := j.runRepo.ListCreatedBefore(ctx, cutoff, cleanupBatchSize)
		if err != nil {
			return deleted, fmt.Errorf("listing expired runs: %w", err)
		}
		if len(runs) == 0 {
			break
		}

		progressed := false
		for i := range runs {
			run := &runs[i]
			if run.BundleKey != "" {
				if err := j.storage.Delete(ctx, run.BundleKey); err != nil {
					log.Printf("cleanupJob.RunOnce: deleting bundle %s: %v", run.BundleKey, err)
					continue
				}
			}
			if err := j.runRepo.Delete(ctx, run.ID); err != nil {
				log.Printf("cleanupJob.RunOnce: deleting run %s: %v", run.ID, err)
				continue
			}
			deleted++
			progressed = true
		}
		if !progressed || len(runs) < cleanupBatchSize {
			break
		}
	}

	if deleted > 0 {
		log.Printf("cleanupJob.RunOnce: deleted %d runs created before %s", deleted, cutoff.Format(time.RFC3339))
	}
	return deleted, nil
}
