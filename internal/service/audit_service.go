package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"healthdb/internal/domain/audit"
)

// AuditEntry is the write-side view of an audit record.
type AuditEntry struct {
	Action     audit.Action
	MRN        int64
	RequestID  string
	IPAddress  string
	StatusCode int
	Detail     string
}

type AuditService struct {
	repo    audit.Repository
	log     *zap.Logger
	entries chan *audit.Log
	done    chan struct{}
}

const auditBufferSize = 10_000

func NewAuditService(repo audit.Repository, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:    repo,
		log:     log,
		entries: make(chan *audit.Log, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full, the entry is dropped and a warning is emitted.
func (s *AuditService) LogAsync(ctx context.Context, entry AuditEntry) {
	al := &audit.Log{
		Action:     entry.Action,
		MRN:        entry.MRN,
		RequestID:  entry.RequestID,
		IPAddress:  entry.IPAddress,
		StatusCode: entry.StatusCode,
		Detail:     entry.Detail,
	}

	select {
	case s.entries <- al:
	default:
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.Int64("mrn", entry.MRN),
		)
	}
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit log", zap.Error(err))
		}
		cancel()
	}
}
