package services

import (
	"context"
	"log"
	"time"

	"feedback-pulse-server/storage"
)

// A job is re-queued this many times on model unavailability before the
// fallback record is persisted instead. Parse failures are not re-queued;
// they are the expected path and get the fallback immediately.
const maxJobAttempts = 3

const dequeueTimeout = 5 * time.Second

// EnrichWorker drains the enrichment queue in the background. One job at a
// time: the ingest endpoint acknowledges immediately and this loop does the
// failure-prone work.
type EnrichWorker struct {
	queue    *storage.EnrichQueue
	enricher *EnrichmentService
}

func NewEnrichWorker(queue *storage.EnrichQueue, enricher *EnrichmentService) *EnrichWorker {
	return &EnrichWorker{queue: queue, enricher: enricher}
}

// Run blocks until ctx is cancelled.
func (w *EnrichWorker) Run(ctx context.Context) {
	if moved, err := w.queue.RecoverPending(ctx); err != nil {
		log.Printf("⚠️  WORKER: could not recover pending jobs: %v", err)
	} else if moved > 0 {
		log.Printf("🔁 WORKER: re-queued %d pending job(s) from previous run", moved)
	}

	log.Println("🛠️  WORKER: enrichment worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("🛠️  WORKER: enrichment worker stopped")
			return
		default:
		}

		job, raw, err := w.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			log.Printf("⚠️  WORKER: dequeue failed: %v", err)
			continue
		}
		if job == nil {
			continue
		}
		w.process(ctx, job, raw)
	}
}

func (w *EnrichWorker) process(ctx context.Context, job *storage.EnrichJob, raw string) {
	analysis, reason := w.enricher.Analyze(ctx, job.Text)

	if reason == FallbackModelUnavailable && job.Attempts+1 < maxJobAttempts {
		retry := *job
		retry.Attempts++
		if err := w.queue.Enqueue(ctx, retry); err != nil {
			log.Printf("⚠️  WORKER: could not re-queue job: %v", err)
			return // stays in pending, recovered on restart
		}
		if err := w.queue.Ack(ctx, raw); err != nil {
			log.Printf("⚠️  WORKER: ack after re-queue failed: %v", err)
		}
		log.Printf("🔁 WORKER: model unavailable, re-queued job (attempt %d)", retry.Attempts)
		return
	}

	item, err := w.enricher.Store(*job, analysis, reason)
	if err != nil {
		log.Printf("❌ WORKER: store failed, leaving job pending: %v", err)
		return // stays in pending, recovered on restart
	}
	if err := w.queue.Ack(ctx, raw); err != nil {
		log.Printf("⚠️  WORKER: ack failed for item %s: %v", item.ID, err)
	}
	log.Printf("✅ WORKER: enriched feedback %s category=%s gravity=%.2f", item.ID, item.Category, item.GravityScore)
}
