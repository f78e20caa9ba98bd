package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/society-admin/backend/internal/managers"
	"github.com/society-admin/backend/pkg/queue"
)

// JobSource is the queue the processor consumes.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// ProfileRemover deletes a residual profile once its credential is gone.
type ProfileRemover interface {
	RemoveResidualProfile(ctx context.Context, userID uuid.UUID) error
}

// ProfileCleanupProcessor finishes manager deletions whose profile removal failed.
type ProfileCleanupProcessor struct {
	remover     ProfileRemover
	queue       JobSource
	pollTimeout time.Duration
	backoff     time.Duration
	logger      *zap.Logger
}

// NewProfileCleanupProcessor creates a cleanup processor.
func NewProfileCleanupProcessor(remover ProfileRemover, q JobSource, pollTimeout time.Duration, logger *zap.Logger) *ProfileCleanupProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &ProfileCleanupProcessor{
		remover:     remover,
		queue:       q,
		pollTimeout: pollTimeout,
		backoff:     queue.RetryBackoff,
		logger:      logger,
	}
}

// Process executes one cleanup job. A credential that has reappeared under the
// same id is left alone and the job is dropped.
func (p *ProfileCleanupProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeProfileCleanup {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ProfileCleanupPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("job %s has no user id", job.ID)
	}

	err := p.remover.RemoveResidualProfile(ctx, payload.UserID)
	if errors.Is(err, managers.ErrCredentialPresent) {
		p.logger.Warn("credential present, skipping profile cleanup", zap.String("user_id", payload.UserID.String()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove residual profile: %w", err)
	}
	p.logger.Info("profile cleanup completed", zap.String("user_id", payload.UserID.String()))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *ProfileCleanupProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("profile cleanup worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *ProfileCleanupProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
