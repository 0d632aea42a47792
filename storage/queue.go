package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	enrichQueueKey   = "enrich:queue"
	enrichPendingKey = "enrich:pending"
)

// EnrichJob is one queued submission awaiting classification.
type EnrichJob struct {
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	Attempts  int       `json:"attempts"`
}

// EnrichQueue is a Redis-backed at-least-once job queue. Jobs move from the
// queue list to a pending list while being worked (BRPOPLPUSH) and are removed
// from pending only after the record is persisted. Jobs stranded in pending by
// a crash are pushed back at startup via RecoverPending.
type EnrichQueue struct {
	rdb *redis.Client
}

func NewEnrichQueue(rdb *redis.Client) *EnrichQueue {
	return &EnrichQueue{rdb: rdb}
}

// Enqueue pushes a job for background enrichment.
func (q *EnrichQueue) Enqueue(ctx context.Context, job EnrichJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal enrich job: %w", err)
	}
	if err := q.rdb.LPush(ctx, enrichQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue enrich job: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next job. It returns the decoded job
// plus the raw payload needed to Ack. A nil job with nil error means the
// timeout elapsed with nothing queued.
func (q *EnrichQueue) Dequeue(ctx context.Context, timeout time.Duration) (*EnrichJob, string, error) {
	raw, err := q.rdb.BRPopLPush(ctx, enrichQueueKey, enrichPendingKey, timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("dequeue enrich job: %w", err)
	}
	var job EnrichJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		// Drop the malformed payload so it cannot wedge the worker.
		q.rdb.LRem(ctx, enrichPendingKey, 1, raw)
		return nil, "", fmt.Errorf("decode enrich job: %w", err)
	}
	return &job, raw, nil
}

// Ack removes a completed job from the pending list.
func (q *EnrichQueue) Ack(ctx context.Context, raw string) error {
	return q.rdb.LRem(ctx, enrichPendingKey, 1, raw).Err()
}

// RecoverPending moves jobs left in pending (by a previous crash) back onto
// the queue so they are retried.
func (q *EnrichQueue) RecoverPending(ctx context.Context) (int, error) {
	moved := 0
	for {
		_, err := q.rdb.RPopLPush(ctx, enrichPendingKey, enrichQueueKey).Result()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("recover pending jobs: %w", err)
		}
		moved++
	}
}
