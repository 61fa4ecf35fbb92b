package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ops-shift-api/internal/models"
	"github.com/noah-isme/ops-shift-api/pkg/jobs"
)

type auditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuditService records audit trail entries asynchronously so mutations
// never wait on the audit store.
type AuditService struct {
	repo   auditWriter
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService constructs the service and its backing worker queue.
func NewAuditService(repo auditWriter, cfg jobs.QueueConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("audit", s.handle, cfg)
	return s
}

// Start launches the queue workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue and stops the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues one audit entry. Values are marshalled here so the caller
// can hand over live structs without retention concerns.
func (s *AuditService) Record(action, resource string, resourceID *string, oldValues, newValues interface{}) {
	entry := &models.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
	}
	if oldValues != nil {
		if raw, err := json.Marshal(oldValues); err == nil {
			entry.OldValues = raw
		}
	}
	if newValues != nil {
		if raw, err := json.Marshal(newValues); err == nil {
			entry.NewValues = raw
		}
	}

	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: action, Payload: entry}); err != nil {
		s.logger.Warn("audit entry dropped", zap.String("action", action), zap.Error(err))
	}
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.logger.Warn("audit job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.repo.Create(ctx, entry)
}
